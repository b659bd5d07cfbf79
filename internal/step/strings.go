// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package step

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// codePages maps the \P?\ directive letter to its ISO 8859 part.
var codePages = map[byte]*charmap.Charmap{
	'A': charmap.ISO8859_1,
	'B': charmap.ISO8859_2,
	'C': charmap.ISO8859_3,
	'D': charmap.ISO8859_4,
	'E': charmap.ISO8859_5,
	'F': charmap.ISO8859_6,
	'G': charmap.ISO8859_7,
	'H': charmap.ISO8859_8,
	'I': charmap.ISO8859_9,
}

var (
	ucs2 encoding.Encoding = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	ucs4 encoding.Encoding = utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)
)

// decodeString expands the control directives of a STEP string literal
// (the text between the quotes, with '' already collapsed):
//
//	\\            backslash
//	\S\c          c+128 in the current ISO 8859 page
//	\P?\          switch the current page (A..I)
//	\X\hh         one ISO 8859-1 byte
//	\X2\hhhh..\X0\     UCS-2 code units
//	\X4\hhhhhhhh..\X0\ UCS-4 code points
//
// Bytes outside directives are kept as-is, so files that embed raw UTF-8
// decode to the same text.
func decodeString(raw string) (string, error) {
	if !strings.ContainsRune(raw, '\\') {
		return raw, nil
	}

	page := charmap.ISO8859_1
	var b strings.Builder
	b.Grow(len(raw))

	for i := 0; i < len(raw); {
		c := raw[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		rest := raw[i:]
		switch {
		case strings.HasPrefix(rest, `\\`):
			b.WriteByte('\\')
			i += 2
		case strings.HasPrefix(rest, `\S\`) && len(rest) >= 4:
			b.WriteRune(page.DecodeByte(rest[3] + 128))
			i += 4
		case len(rest) >= 4 && rest[1] == 'P' && rest[3] == '\\':
			cm, ok := codePages[rest[2]]
			if !ok {
				return "", fmt.Errorf("unknown code page directive %q", rest[:4])
			}
			page = cm
			i += 4
		case strings.HasPrefix(rest, `\X2\`), strings.HasPrefix(rest, `\X4\`):
			width := 4
			enc := ucs2
			if rest[2] == '4' {
				width = 8
				enc = ucs4
			}
			end := strings.Index(rest[4:], `\X0\`)
			if end < 0 {
				return "", fmt.Errorf("unterminated %s directive", rest[:4])
			}
			digits := rest[4 : 4+end]
			if len(digits)%width != 0 {
				return "", fmt.Errorf("%s directive has %d hex digits, want a multiple of %d", rest[:4], len(digits), width)
			}
			units, err := hex.DecodeString(digits)
			if err != nil {
				return "", fmt.Errorf("decoding %s directive: %w", rest[:4], err)
			}
			text, err := enc.NewDecoder().Bytes(units)
			if err != nil {
				return "", fmt.Errorf("decoding %s directive: %w", rest[:4], err)
			}
			b.Write(text)
			i += 4 + end + 4
		case strings.HasPrefix(rest, `\X\`) && len(rest) >= 5:
			v, err := hex.DecodeString(rest[3:5])
			if err != nil {
				return "", fmt.Errorf("decoding \\X\\ directive: %w", err)
			}
			b.WriteRune(charmap.ISO8859_1.DecodeByte(v[0]))
			i += 5
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}
