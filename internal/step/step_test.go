// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package step

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFile = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION(('ViewDefinition [CoordinationView]'),'2;1');
FILE_NAME('model.ifc','2024-05-01T10:00:00',('Architect'),('Office'),'IfcOpenShell','Exporter','');
FILE_SCHEMA(('IFC4'));
ENDSEC;
DATA;
/* a comment */
#1=IFCWALL('2O2Fr$t4X7Zf8NOew3FLOH',$,'Wall ''A''',*,$,#10,(#11,#12),'T-1',.STANDARD.);
#2=IFCPROPERTYSINGLEVALUE('Volume',$,IFCVOLUMEMEASURE(1.E-05),$);
#3=IFCPROPERTYSINGLEVALUE('Count',$,IFCINTEGER(-42),$);
#4=IFCPROPERTYSINGLEVALUE('IsExternal',$,IFCBOOLEAN(.T.),$);
#5=IFCPROPERTYSET('x',$,'Pset',$,());
#6=(IFCNAMEDUNIT(*,.LENGTHUNIT.)IFCSIUNIT(.MILLI.,.METRE.));
#7=IFCLABEL('bin');
#8=IFCPIXELTEXTURE("0FF");
ENDSEC;
END-ISO-10303-21;
`

func TestParseBytesHeader(t *testing.T) {
	f, err := ParseBytes([]byte(sampleFile))
	require.NoError(t, err)

	assert.Equal(t, []string{"ViewDefinition [CoordinationView]"}, f.Header.Description)
	assert.Equal(t, "2;1", f.Header.ImplementationLevel)
	assert.Equal(t, "model.ifc", f.Header.Name)
	assert.Equal(t, []string{"Architect"}, f.Header.Author)
	assert.Equal(t, "Exporter", f.Header.OriginatingSystem)
	assert.Equal(t, []string{"IFC4"}, f.Header.Schemas)
}

func TestParseBytesInstances(t *testing.T) {
	f, err := ParseBytes([]byte(sampleFile))
	require.NoError(t, err)

	assert.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8}, f.IDs())

	wall, ok := f.Instance(1)
	require.True(t, ok)
	assert.Equal(t, "IFCWALL", wall.Type)
	require.Len(t, wall.Params, 9)
	assert.Equal(t, "2O2Fr$t4X7Zf8NOew3FLOH", wall.Param(0).Str)
	assert.True(t, wall.Param(1).IsNull())
	assert.Equal(t, "Wall 'A'", wall.Param(2).Str)
	assert.Equal(t, KindDerived, wall.Param(3).Kind)
	assert.Equal(t, KindRef, wall.Param(5).Kind)
	assert.Equal(t, []uint64{11, 12}, wall.Param(6).Refs())
	assert.Equal(t, KindEnum, wall.Param(8).Kind)
	assert.Equal(t, "STANDARD", wall.Param(8).Str)
	assert.True(t, wall.Param(42).IsNull(), "out-of-range parameter is null")

	vol, _ := f.Instance(2)
	v, ok := vol.Param(2).Float()
	require.True(t, ok)
	assert.InDelta(t, 1e-05, v, 1e-12)
	assert.Equal(t, "IFCVOLUMEMEASURE", vol.Param(2).Str)

	count, _ := f.Instance(3)
	assert.Equal(t, int64(-42), count.Param(2).Unwrap().Int)

	flag, _ := f.Instance(4)
	b, ok := flag.Param(2).Bool()
	require.True(t, ok)
	assert.True(t, b)

	empty, _ := f.Instance(5)
	assert.Equal(t, KindList, empty.Param(4).Kind)
	assert.Empty(t, empty.Param(4).List)

	complexUnit, _ := f.Instance(6)
	assert.Empty(t, complexUnit.Type)
	assert.Empty(t, complexUnit.Params)

	bin, _ := f.Instance(8)
	assert.Equal(t, KindBinary, bin.Param(0).Kind)
	assert.Equal(t, "0FF", bin.Param(0).Str)
}

func TestParseBytesSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"missing magic", "HEADER;", 1},
		{"unterminated string", "ISO-10303-21;\nHEADER;\nFILE_NAME('abc);\n", 3},
		{"duplicate instance", "ISO-10303-21;\nHEADER;\nENDSEC;\nDATA;\n#1=IFCWALL($);\n#1=IFCSLAB($);\nENDSEC;\nEND-ISO-10303-21;\n", 6},
		{"missing separator", "ISO-10303-21;\nHEADER;\nENDSEC;\nDATA;\n#1=IFCWALL($ $);\nENDSEC;\nEND-ISO-10303-21;\n", 5},
		{"unterminated comment", "ISO-10303-21;\n/* never closed", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tt.src))
			require.Error(t, err)
			var syn *SyntaxError
			require.True(t, errors.As(err, &syn), "want *SyntaxError, got %T", err)
			assert.Equal(t, tt.line, syn.Line)
		})
	}
}

func TestParseBytesLeadingBOM(t *testing.T) {
	f, err := ParseBytes(append([]byte("\xef\xbb\xbf"), sampleFile...))
	require.NoError(t, err)
	assert.Len(t, f.Instances, 8)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.ifc")
	require.NoError(t, os.WriteFile(path, []byte(sampleFile), 0o644))

	f, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Instances, 8)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.ifc"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeString(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`plain`, "plain"},
		{`back\\slash`, `back\slash`},
		{`Gr\S\|n`, "Grün"},
		{`\X\E4hnlich`, "ähnlich"},
		{`Wand \X2\00C400DF\X0\`, "Wand Äß"},
		{`\X4\0001F600\X0\`, "\U0001F600"},
		{`\PE\\S\P`, "а"},
		{"already UTF-8 ü", "already UTF-8 ü"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := decodeString(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := decodeString(`\X2\00C4`)
	assert.Error(t, err, "unterminated \\X2\\")
	_, err = decodeString(`\X2\00C\X0\`)
	assert.Error(t, err, "odd digit count")
}

func TestValueConversions(t *testing.T) {
	str := func(s string) Value { return Value{Kind: KindString, Str: s} }
	enum := func(s string) Value { return Value{Kind: KindEnum, Str: s} }
	typed := func(name string, v Value) Value { return Value{Kind: KindTyped, Str: name, List: []Value{v}} }

	tests := []struct {
		name      string
		v         Value
		truthy    bool
		str       string
		float     float64
		floatOK   bool
		isText    bool
	}{
		{"null", Null, false, "None", 0, false, false},
		{"zero real", Value{Kind: KindReal}, false, "0.0", 0, true, false},
		{"real", Value{Kind: KindReal, Real: 3}, true, "3.0", 3, true, false},
		{"integer", Value{Kind: KindInteger, Int: 7}, true, "7", 7, true, false},
		{"numeric string", str(" 12.5 "), true, " 12.5 ", 12.5, true, true},
		{"bad string", str("abc"), true, "abc", 0, false, true},
		{"empty string", str(""), false, "", 0, false, true},
		{"true", enum("T"), true, "True", 1, true, false},
		{"false", enum("F"), false, "False", 0, true, false},
		{"unknown logical", enum("U"), true, "UNKNOWN", 0, false, true},
		{"enum", enum("NOTDEFINED"), true, "NOTDEFINED", 0, false, true},
		{"typed label", typed("IFCLABEL", str("Beton")), true, "Beton", 0, false, true},
		{"list", Value{Kind: KindList, List: []Value{str("a"), str("b")}}, true, "('a', 'b')", 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.truthy, tt.v.Truthy(), "Truthy")
			assert.Equal(t, tt.str, tt.v.String(), "String")
			f, ok := tt.v.Float()
			assert.Equal(t, tt.floatOK, ok, "Float ok")
			if ok {
				assert.Equal(t, tt.float, f)
			}
			_, isText := tt.v.Text()
			assert.Equal(t, tt.isText, isText, "Text ok")
		})
	}
}

func TestFormatReal(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3, "3.0"},
		{12.5, "12.5"},
		{0.1, "0.1"},
		{1e-05, "1e-05"},
		{0.0001, "0.0001"},
		{1234567.25, "1234567.25"},
		{1e16, "1e+16"},
		{1.5e16, "1.5e+16"},
		{-2.75, "-2.75"},
		{0, "0.0"},
		{math.NaN(), "nan"},
		{math.Inf(1), "inf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatReal(tt.in), "FormatReal(%v)", tt.in)
	}
}
