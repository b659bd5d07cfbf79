// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Quantity names one of the optional numeric fields of a record. The
// value doubles as the property and quantity key looked up in the model.
type Quantity string

const (
	GrossVolume        Quantity = "GrossVolume"
	NetVolume          Quantity = "NetVolume"
	Length             Quantity = "Length"
	GrossArea          Quantity = "GrossArea"
	NetArea            Quantity = "NetArea"
	GrossFootprintArea Quantity = "GrossFootprintArea"
	NetFootprintArea   Quantity = "NetFootprintArea"
	GrossSideArea      Quantity = "GrossSideArea"
	NetSideArea        Quantity = "NetSideArea"
	GrossSurfaceArea   Quantity = "GrossSurfaceArea"
	NetSurfaceArea     Quantity = "NetSurfaceArea"
)

// Quantities lists the quantity fields in column order.
var Quantities = []Quantity{
	GrossVolume, NetVolume, Length,
	GrossArea, NetArea,
	GrossFootprintArea, NetFootprintArea,
	GrossSideArea, NetSideArea,
	GrossSurfaceArea, NetSurfaceArea,
}

// QuantitySet holds the quantities resolved for one element. Absent keys
// are unset.
type QuantitySet map[Quantity]float64

// Get returns a quantity and whether it is set.
func (q QuantitySet) Get(name Quantity) (float64, bool) {
	v, ok := q[name]
	return v, ok
}

// Has reports whether a quantity is set.
func (q QuantitySet) Has(name Quantity) bool {
	_, ok := q[name]
	return ok
}

// Volume returns GrossVolume when set, else NetVolume.
func (q QuantitySet) Volume() (float64, bool) {
	if v, ok := q[GrossVolume]; ok {
		return v, true
	}
	v, ok := q[NetVolume]
	return v, ok
}

// Column names of the fixed-order export.
const (
	ColumnGUID               = "GUID"
	ColumnIFCClass           = "IFCClass"
	ColumnMaterial           = "Material"
	ColumnTypeName           = "TypeName"
	ColumnBuildingStorey     = "BuildingStorey"
	ColumnClassificationCode = "ClassificationCode"
	ColumnClassificationName = "ClassificationName"
	ColumnMenge              = "Menge"
)

// RecordColumns returns the header of the export: seven text columns,
// the quantities in order, then the legacy Menge volume.
func RecordColumns() []string {
	cols := []string{
		ColumnGUID, ColumnIFCClass, ColumnMaterial, ColumnTypeName,
		ColumnBuildingStorey, ColumnClassificationCode, ColumnClassificationName,
	}
	for _, q := range Quantities {
		cols = append(cols, string(q))
	}
	return append(cols, ColumnMenge)
}

// Record is one exported element.
type Record struct {
	// GUID is the element's 22-character GlobalId.
	GUID string `json:"guid" yaml:"guid"`

	// IFCClass is the element's IFC class, e.g. IfcWall.
	IFCClass string `json:"ifc_class" yaml:"ifc_class"`

	Material           string `json:"material" yaml:"material"`
	TypeName           string `json:"type_name" yaml:"type_name"`
	BuildingStorey     string `json:"building_storey" yaml:"building_storey"`
	ClassificationCode string `json:"classification_code,omitempty" yaml:"classification_code,omitempty"`
	ClassificationName string `json:"classification_name,omitempty" yaml:"classification_name,omitempty"`

	Quantities QuantitySet `json:"quantities" yaml:"quantities"`

	// Menge is GrossVolume if set, else NetVolume.
	Menge float64 `json:"menge" yaml:"menge"`
}

// Classified reports whether the record carries a classification code or name.
func (r Record) Classified() bool {
	return r.ClassificationCode != "" || r.ClassificationName != ""
}
