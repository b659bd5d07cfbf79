// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package step reads ISO 10303-21 exchange files (the "STEP physical
// file" encoding used by IFC) into header fields and a table of entity
// instances. It knows nothing about any particular schema.
package step

import (
	"fmt"
	"os"
	"sort"
)

// Instance is one `#id = TYPE(params);` line of the data section.
// Complex instances (`#id = (A(..) B(..));`) are checked for syntax but
// leave Type and Params empty; IFC elements are never complex.
type Instance struct {
	ID     uint64
	Type   string // upper case, as in the file
	Params []Value
	Line   int
}

// Record is a keyword with its parameters: a header entry or one part of
// a complex instance.
type Record struct {
	Type   string
	Params []Value
}

// Param returns the i-th parameter, or Null when out of range.
func (in *Instance) Param(i int) Value {
	if i < 0 || i >= len(in.Params) {
		return Null
	}
	return in.Params[i]
}

// Header holds the fields of the HEADER section that identify the file.
type Header struct {
	Description         []string
	ImplementationLevel string
	Name                string
	TimeStamp           string
	Author              []string
	Organization        []string
	PreprocessorVersion string
	OriginatingSystem   string
	Authorization       string
	Schemas             []string
}

// File is a parsed exchange file.
type File struct {
	Header    Header
	Instances map[uint64]*Instance
	ids       []uint64
}

// IDs returns every instance id in ascending order.
func (f *File) IDs() []uint64 {
	return f.ids
}

// Instance returns the instance with the given id.
func (f *File) Instance(id uint64) (*Instance, bool) {
	in, ok := f.Instances[id]
	return in, ok
}

// ReadFile opens and parses the exchange file at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// ParseBytes parses an exchange file held in memory.
func ParseBytes(data []byte) (*File, error) {
	p := &parser{lex: newLexer(string(data))}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseFile()
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Line: p.tok.line, Col: p.tok.col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.tok
	if t.kind != kind {
		return t, p.errorf("expected %s, found %s", kind, t.kind)
	}
	return t, p.advance()
}

func (p *parser) expectKeyword(word string) error {
	if p.tok.kind != tokKeyword || p.tok.text != word {
		return p.errorf("expected %s", word)
	}
	return p.advance()
}

func (p *parser) isKeyword(word string) bool {
	return p.tok.kind == tokKeyword && p.tok.text == word
}

func (p *parser) parseFile() (*File, error) {
	f := &File{Instances: make(map[uint64]*Instance)}

	if err := p.expectKeyword("ISO-10303-21"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemicolon); err != nil {
		return nil, err
	}

	if err := p.parseHeader(&f.Header); err != nil {
		return nil, err
	}

	for p.isKeyword("DATA") {
		if err := p.parseData(f); err != nil {
			return nil, err
		}
	}

	if err := p.expectKeyword("END-ISO-10303-21"); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokSemicolon); err != nil {
		return nil, err
	}

	f.ids = make([]uint64, 0, len(f.Instances))
	for id := range f.Instances {
		f.ids = append(f.ids, id)
	}
	sort.Slice(f.ids, func(i, j int) bool { return f.ids[i] < f.ids[j] })
	return f, nil
}

func (p *parser) parseHeader(h *Header) error {
	if err := p.expectKeyword("HEADER"); err != nil {
		return err
	}
	if _, err := p.expect(tokSemicolon); err != nil {
		return err
	}

	for !p.isKeyword("ENDSEC") {
		if p.tok.kind != tokKeyword {
			return p.errorf("expected header entity, found %s", p.tok.kind)
		}
		rec, err := p.parseRecord()
		if err != nil {
			return err
		}
		if _, err := p.expect(tokSemicolon); err != nil {
			return err
		}
		applyHeaderRecord(h, rec)
	}
	if err := p.advance(); err != nil {
		return err
	}
	_, err := p.expect(tokSemicolon)
	return err
}

func applyHeaderRecord(h *Header, rec Record) {
	param := func(i int) Value {
		if i < len(rec.Params) {
			return rec.Params[i]
		}
		return Null
	}
	switch rec.Type {
	case "FILE_DESCRIPTION":
		h.Description = texts(param(0))
		h.ImplementationLevel, _ = param(1).Text()
	case "FILE_NAME":
		h.Name, _ = param(0).Text()
		h.TimeStamp, _ = param(1).Text()
		h.Author = texts(param(2))
		h.Organization = texts(param(3))
		h.PreprocessorVersion, _ = param(4).Text()
		h.OriginatingSystem, _ = param(5).Text()
		h.Authorization, _ = param(6).Text()
	case "FILE_SCHEMA":
		h.Schemas = texts(param(0))
	}
}

func texts(v Value) []string {
	var out []string
	for _, item := range v.Unwrap().List {
		if s, ok := item.Text(); ok {
			out = append(out, s)
		}
	}
	return out
}

func (p *parser) parseData(f *File) error {
	if err := p.advance(); err != nil { // DATA
		return err
	}
	// Optional section parameters: DATA('name', ('schema'));
	if p.tok.kind == tokLParen {
		if _, err := p.parseList(); err != nil {
			return err
		}
	}
	if _, err := p.expect(tokSemicolon); err != nil {
		return err
	}

	for !p.isKeyword("ENDSEC") {
		in, err := p.parseInstance()
		if err != nil {
			return err
		}
		if _, dup := f.Instances[in.ID]; dup {
			return &SyntaxError{Line: in.Line, Col: 1, Msg: fmt.Sprintf("duplicate instance #%d", in.ID)}
		}
		f.Instances[in.ID] = in
	}
	if err := p.advance(); err != nil {
		return err
	}
	_, err := p.expect(tokSemicolon)
	return err
}

func (p *parser) parseInstance() (*Instance, error) {
	name, err := p.expect(tokInstance)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokEquals); err != nil {
		return nil, err
	}

	in := &Instance{ID: name.num, Line: name.line}

	switch p.tok.kind {
	case tokKeyword:
		rec, err := p.parseRecord()
		if err != nil {
			return nil, err
		}
		in.Type, in.Params = rec.Type, rec.Params
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		for p.tok.kind == tokKeyword {
			if _, err := p.parseRecord(); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
	default:
		return nil, p.errorf("expected entity name after #%d =, found %s", in.ID, p.tok.kind)
	}

	if _, err := p.expect(tokSemicolon); err != nil {
		return nil, err
	}
	return in, nil
}

// parseRecord parses KEYWORD(params).
func (p *parser) parseRecord() (Record, error) {
	kw, err := p.expect(tokKeyword)
	if err != nil {
		return Record{}, err
	}
	params, err := p.parseList()
	if err != nil {
		return Record{}, err
	}
	return Record{Type: kw.text, Params: params.List}, nil
}

// parseList parses ( [param {, param}] ).
func (p *parser) parseList() (Value, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return Value{}, err
	}
	list := Value{Kind: KindList, List: []Value{}}
	if p.tok.kind == tokRParen {
		return list, p.advance()
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		list.List = append(list.List, v)

		switch p.tok.kind {
		case tokComma:
			if err := p.advance(); err != nil {
				return Value{}, err
			}
		case tokRParen:
			return list, p.advance()
		default:
			return Value{}, p.errorf("expected ',' or ')', found %s", p.tok.kind)
		}
	}
}

func (p *parser) parseValue() (Value, error) {
	t := p.tok
	switch t.kind {
	case tokDollar:
		return Null, p.advance()
	case tokStar:
		return Value{Kind: KindDerived}, p.advance()
	case tokInteger:
		return Value{Kind: KindInteger, Int: t.i}, p.advance()
	case tokReal:
		return Value{Kind: KindReal, Real: t.f}, p.advance()
	case tokString:
		return Value{Kind: KindString, Str: t.text}, p.advance()
	case tokEnum:
		return Value{Kind: KindEnum, Str: t.text}, p.advance()
	case tokBinary:
		return Value{Kind: KindBinary, Str: t.text}, p.advance()
	case tokInstance:
		return Value{Kind: KindRef, Ref: t.num}, p.advance()
	case tokLParen:
		return p.parseList()
	case tokKeyword:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		inner, err := p.parseList()
		if err != nil {
			return Value{}, err
		}
		if len(inner.List) != 1 {
			return Value{}, &SyntaxError{Line: t.line, Col: t.col,
				Msg: fmt.Sprintf("typed value %s has %d parameters, want 1", t.text, len(inner.List))}
		}
		return Value{Kind: KindTyped, Str: t.text, List: inner.List}, nil
	}
	return Value{}, p.errorf("unexpected %s in parameter list", t.kind)
}
