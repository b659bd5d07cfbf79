// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package step

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokKeyword
	tokInstance // #123
	tokInteger
	tokReal
	tokString
	tokEnum
	tokBinary
	tokDollar
	tokStar
	tokEquals
	tokLParen
	tokRParen
	tokComma
	tokSemicolon
)

var tokenNames = [...]string{
	tokEOF:       "end of file",
	tokKeyword:   "keyword",
	tokInstance:  "instance name",
	tokInteger:   "integer",
	tokReal:      "real",
	tokString:    "string",
	tokEnum:      "enumeration",
	tokBinary:    "binary",
	tokDollar:    "'$'",
	tokStar:      "'*'",
	tokEquals:    "'='",
	tokLParen:    "'('",
	tokRParen:    "')'",
	tokComma:     "','",
	tokSemicolon: "';'",
}

func (k tokenKind) String() string { return tokenNames[k] }

var punctuation = map[byte]tokenKind{
	'$': tokDollar, '*': tokStar, '=': tokEquals,
	'(': tokLParen, ')': tokRParen, ',': tokComma, ';': tokSemicolon,
}

type token struct {
	kind tokenKind
	text string // keyword, enum literal, decoded string, binary digits
	num  uint64 // instance id
	i    int64
	f    float64
	line int
	col  int
}

// SyntaxError reports malformed input with its position.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Col, e.Msg)
}

type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	// A leading UTF-8 byte-order mark is not part of the exchange structure.
	src = strings.TrimPrefix(src, "\ufeff")
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) errorf(line, col int, format string, args ...any) error {
	return &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.src); i++ {
		if l.src[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *lexer) skipSpaceAndComments() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance(1)
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			line, col := l.line, l.col
			end := strings.Index(l.src[l.pos+2:], "*/")
			if end < 0 {
				return l.errorf(line, col, "unterminated comment")
			}
			l.advance(end + 4)
		default:
			return nil
		}
	}
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isKeywordStart(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '_' || c == '!'
}

func isKeywordPart(c byte) bool {
	return isKeywordStart(c) || isDigit(c) || c == '-'
}

func (l *lexer) next() (token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return token{}, err
	}
	line, col := l.line, l.col
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: line, col: col}, nil
	}

	c := l.src[l.pos]
	if k, ok := punctuation[c]; ok {
		l.advance(1)
		return token{kind: k, line: line, col: col}, nil
	}

	switch {
	case c == '#':
		start := l.pos + 1
		end := start
		for end < len(l.src) && isDigit(l.src[end]) {
			end++
		}
		if end == start {
			return token{}, l.errorf(line, col, "'#' not followed by an instance number")
		}
		id, err := strconv.ParseUint(l.src[start:end], 10, 64)
		if err != nil {
			return token{}, l.errorf(line, col, "instance number %q: %v", l.src[start:end], err)
		}
		l.advance(end - l.pos)
		return token{kind: tokInstance, num: id, line: line, col: col}, nil

	case c == '\'':
		return l.lexString(line, col)

	case c == '"':
		end := strings.IndexByte(l.src[l.pos+1:], '"')
		if end < 0 {
			return token{}, l.errorf(line, col, "unterminated binary literal")
		}
		text := l.src[l.pos+1 : l.pos+1+end]
		l.advance(end + 2)
		return token{kind: tokBinary, text: text, line: line, col: col}, nil

	case c == '.':
		end := l.pos + 1
		for end < len(l.src) && (isKeywordPart(l.src[end]) && l.src[end] != '-') {
			end++
		}
		if end >= len(l.src) || l.src[end] != '.' || end == l.pos+1 {
			return token{}, l.errorf(line, col, "malformed enumeration")
		}
		text := l.src[l.pos+1 : end]
		l.advance(end + 1 - l.pos)
		return token{kind: tokEnum, text: strings.ToUpper(text), line: line, col: col}, nil

	case isDigit(c) || c == '-' || c == '+':
		return l.lexNumber(line, col)

	case isKeywordStart(c):
		end := l.pos
		for end < len(l.src) && isKeywordPart(l.src[end]) {
			end++
		}
		text := l.src[l.pos:end]
		l.advance(end - l.pos)
		return token{kind: tokKeyword, text: strings.ToUpper(text), line: line, col: col}, nil
	}

	return token{}, l.errorf(line, col, "unexpected character %q", c)
}

func (l *lexer) lexString(line, col int) (token, error) {
	var b strings.Builder
	i := l.pos + 1
	for {
		if i >= len(l.src) {
			return token{}, l.errorf(line, col, "unterminated string")
		}
		if l.src[i] == '\'' {
			if i+1 < len(l.src) && l.src[i+1] == '\'' {
				b.WriteByte('\'')
				i += 2
				continue
			}
			break
		}
		b.WriteByte(l.src[i])
		i++
	}
	l.advance(i + 1 - l.pos)

	text, err := decodeString(b.String())
	if err != nil {
		return token{}, l.errorf(line, col, "string: %v", err)
	}
	return token{kind: tokString, text: text, line: line, col: col}, nil
}

func (l *lexer) lexNumber(line, col int) (token, error) {
	end := l.pos
	if l.src[end] == '-' || l.src[end] == '+' {
		end++
	}
	digitsStart := end
	for end < len(l.src) && isDigit(l.src[end]) {
		end++
	}
	if end == digitsStart {
		return token{}, l.errorf(line, col, "sign not followed by digits")
	}
	isReal := false
	if end < len(l.src) && l.src[end] == '.' {
		isReal = true
		end++
		for end < len(l.src) && isDigit(l.src[end]) {
			end++
		}
	}
	if end < len(l.src) && (l.src[end] == 'E' || l.src[end] == 'e') {
		isReal = true
		end++
		if end < len(l.src) && (l.src[end] == '-' || l.src[end] == '+') {
			end++
		}
		expStart := end
		for end < len(l.src) && isDigit(l.src[end]) {
			end++
		}
		if end == expStart {
			return token{}, l.errorf(line, col, "malformed exponent")
		}
	}

	text := l.src[l.pos:end]
	l.advance(end - l.pos)

	if isReal {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token{}, l.errorf(line, col, "real %q: %v", text, err)
		}
		return token{kind: tokReal, f: f, line: line, col: col}, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return token{}, l.errorf(line, col, "integer %q: %v", text, err)
	}
	return token{kind: tokInteger, i: n, line: line, col: col}, nil
}
