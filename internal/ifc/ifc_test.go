// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ifc

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePath = filepath.Join("..", "..", "testdata", "sample.ifc")

func openSample(t *testing.T) *Model {
	t.Helper()
	m, err := Open(samplePath)
	require.NoError(t, err)
	return m
}

func mustEntity(t *testing.T, m *Model, id uint64) *Entity {
	t.Helper()
	e, ok := m.ByID(id)
	require.True(t, ok, "entity #%d", id)
	return e
}

func ids(list []*Entity) []uint64 {
	out := make([]uint64, len(list))
	for i, e := range list {
		out[i] = e.ID
	}
	return out
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.ifc"))
	assert.Error(t, err)
}

func TestByTypeIncludesSubtypes(t *testing.T) {
	m := openSample(t)

	assert.Equal(t, "IFC4", m.Schema())
	assert.Equal(t, []uint64{100, 101, 102, 103, 104, 105}, ids(m.ByType("IfcElement")))
	assert.Equal(t, []uint64{100, 101, 102, 103, 104}, ids(m.ByType("IfcBuildingElement")))
	assert.Equal(t, []uint64{10, 11, 12}, ids(m.ByType("ifcbuildingstorey")), "class names are case-insensitive")
	assert.Equal(t, []uint64{602}, ids(m.ByType("IfcRelAssociatesClassification")))
	assert.Empty(t, m.ByType("IfcPump"))
}

func TestEntityAttributes(t *testing.T) {
	m := openSample(t)
	wall := mustEntity(t, m, 100)

	assert.Equal(t, "IfcWall", wall.Type())
	assert.True(t, wall.IsA("IfcBuildingElement"))
	assert.True(t, wall.IsA("IfcRoot"))
	assert.False(t, wall.IsA("IfcSlab"))
	assert.Equal(t, "3vB2YO$MX4xv5uCqZZG05x", wall.GlobalID())
	assert.Equal(t, "Basic Wall:Exterior 300:1", wall.Name())

	tag, ok := wall.Text("Tag")
	require.True(t, ok)
	assert.Equal(t, "1001", tag)

	_, ok = wall.Text("Description")
	assert.False(t, ok, "unset attribute")
	_, ok = wall.Attr("Elevation")
	assert.False(t, ok, "attribute of another class")

	storey := mustEntity(t, m, 12)
	elev, ok := storey.Value("Elevation").Float()
	require.True(t, ok)
	assert.Equal(t, 3.5, elev)
	assert.Empty(t, storey.Name())

	project := mustEntity(t, m, 1)
	assert.Equal(t, "IfcProject", project.Type())
	assert.Equal(t, "#100=IfcWall(Basic Wall:Exterior 300:1)", wall.String())
}

func TestInverseRelationships(t *testing.T) {
	m := openSample(t)

	wall := mustEntity(t, m, 100)
	assert.Equal(t, []uint64{20}, ids(wall.ContainedInStructure()))
	assert.Equal(t, []uint64{301}, ids(wall.IsTypedBy()))
	assert.Equal(t, []uint64{406, 412, 423}, ids(wall.IsDefinedBy()))
	assert.Equal(t, []uint64{504}, ids(wall.HasAssociations()))

	typ, ok := wall.DefiningType()
	require.True(t, ok)
	assert.Equal(t, "IfcWallType", typ.Type())

	space := mustEntity(t, m, 13)
	rels := space.ContainedInStructure()
	require.Len(t, rels, 1)
	parent, ok := rels[0].Ref("RelatingStructure")
	require.True(t, ok)
	assert.Equal(t, uint64(12), parent.ID)

	_, ok = mustEntity(t, m, 103).DefiningType()
	assert.False(t, ok)

	found, ok := m.ByGlobalID("2hQwW0F1nEzRdBq8vL1yT3")
	require.True(t, ok)
	assert.Equal(t, uint64(103), found.ID)
	_, ok = m.ByGlobalID("nope")
	assert.False(t, ok)
}

func TestPropertySetsOfInheritsFromType(t *testing.T) {
	m := openSample(t)
	ps := PropertySetsOf(mustEntity(t, m, 100))

	assert.Equal(t, []string{"Pset_WallCommon", "BaseQuantities", "eBKP-H"}, ps.Names())

	common, ok := ps.Get("Pset_WallCommon")
	require.True(t, ok)
	assert.Equal(t, []string{"IsExternal", "Reference"}, common.Keys())
	ext, _ := common.Get("IsExternal")
	b, ok := ext.Bool()
	require.True(t, ok)
	assert.False(t, b, "occurrence overrides type value")
	ref, _ := common.Get("Reference")
	assert.Equal(t, "EXT-300", ref.String())

	base, ok := ps.Get("BaseQuantities")
	require.True(t, ok)
	gross, _ := base.Get("GrossVolume")
	v, ok := gross.Float()
	require.True(t, ok)
	assert.Equal(t, 4.5, v)
	assert.Len(t, ps.All(), 3)
}

func TestPropertySetsOfTypeObject(t *testing.T) {
	m := openSample(t)
	ps := PropertySetsOf(mustEntity(t, m, 300))
	assert.Equal(t, []string{"Pset_WallCommon"}, ps.Names())

	empty := PropertySetsOf(mustEntity(t, m, 105))
	assert.Zero(t, empty.Len())
	_, ok := empty.Get("BaseQuantities")
	assert.False(t, ok)
}

func TestMaterialsOf(t *testing.T) {
	m := openSample(t)

	mats := MaterialsOf(mustEntity(t, m, 100))
	require.Len(t, mats, 1)
	assert.Equal(t, "Concrete C30/37", mats[0].Name())
	cat, ok := mats[0].Text("Category")
	require.True(t, ok)
	assert.Equal(t, "Concrete", cat)

	mats = MaterialsOf(mustEntity(t, m, 101))
	require.Len(t, mats, 1)
	assert.Equal(t, "Beton", mats[0].Name())

	assert.Empty(t, MaterialsOf(mustEntity(t, m, 103)))
}

const typedMaterialFile = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION((''),'2;1');
FILE_NAME('','',(''),(''),'','','');
FILE_SCHEMA(('IFC2X3'));
ENDSEC;
DATA;
#1=IFCBEAM('1Bm0aaaaaaaaaaaaaaaaaa',$,'Beam',$,$,$,$,$);
#2=IFCBEAMTYPE('1Bt0aaaaaaaaaaaaaaaaaa',$,'HEA 200',$,$,$,$,$,$,.BEAM.);
#3=IFCRELDEFINESBYTYPE('1Rd0aaaaaaaaaaaaaaaaaa',$,$,$,(#1),#2);
#4=IFCMATERIAL('S235');
#5=IFCMATERIALLIST((#4,#6));
#6=IFCMATERIAL('Paint');
#7=IFCRELASSOCIATESMATERIAL('1Ra0aaaaaaaaaaaaaaaaaa',$,$,$,(#2),#5);
#8=IFCCLASSIFICATIONREFERENCE($,'C01','Stahltraeger',$);
ENDSEC;
END-ISO-10303-21;
`

func TestIFC2X3MaterialInheritedFromType(t *testing.T) {
	m, err := Parse([]byte(typedMaterialFile))
	require.NoError(t, err)
	assert.Equal(t, "IFC2X3", m.Schema())
	assert.Equal(t, 8, m.Len())

	beam := mustEntity(t, m, 1)
	mats := MaterialsOf(beam)
	require.Len(t, mats, 2)
	assert.Equal(t, "S235", mats[0].Name())
	assert.Equal(t, "Paint", mats[1].Name())

	ref := mustEntity(t, m, 8)
	code, ok := ref.Text("ItemReference")
	require.True(t, ok)
	assert.Equal(t, "C01", code)
	_, ok = ref.Attr("Identification")
	assert.False(t, ok, "IFC2X3 names the attribute ItemReference")
}

func TestParseRejectsMalformedInput(t *testing.T) {
	_, err := Parse([]byte("ISO-10303-21;\nHEADER;\n"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "parsing IFC"))
}

func TestGUIDRoundTrip(t *testing.T) {
	assert.Equal(t, "0000000000000000000000", CompressGUID(uuid.Nil))

	var full uuid.UUID
	for i := range full {
		full[i] = 0xff
	}
	assert.Equal(t, "3$$$$$$$$$$$$$$$$$$$$$", CompressGUID(full))

	got, err := ExpandGUID("3$$$$$$$$$$$$$$$$$$$$$")
	require.NoError(t, err)
	assert.Equal(t, full, got)

	for range 20 {
		id := CompressGUID(uuid.New())
		require.Len(t, id, 22)
		u, err := ExpandGUID(id)
		require.NoError(t, err)
		assert.Equal(t, id, CompressGUID(u))
	}
}

func TestExpandGUIDErrors(t *testing.T) {
	for _, id := range []string{"", "short", "4$$$$$$$$$$$$$$$$$$$$$", "0000000000000000000-00"} {
		_, err := ExpandGUID(id)
		assert.Error(t, err, id)
	}
}
