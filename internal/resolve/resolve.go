// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve maps IFC elements to export records. Each field has an
// ordered list of lookup strategies; the first that applies wins and
// lookup misses fall through to the next strategy or a default.
package resolve

import (
	"log/slog"
	"strings"

	"github.com/pdiddy/ifc-lca-export/internal/ifc"
	"github.com/pdiddy/ifc-lca-export/pkg/types"
)

// Strategy names reported when a field falls back to its default.
const (
	SourceDefault  = "default"
	SourceClass    = "class"
	SourceMaterial = "material"
)

// Resolution is the record resolved for one element together with the
// strategy that produced each column.
type Resolution struct {
	Record types.Record

	// Sources maps a column name to the lookup strategy that produced it.
	Sources map[string]string

	// Qualified is true when GrossVolume or NetVolume resolved.
	Qualified bool
}

// Resolver resolves fields of elements from one model.
type Resolver struct {
	model  *ifc.Model
	logger *slog.Logger
	psets  map[uint64]ifc.PropertySets
}

// New returns a resolver over m. A nil logger discards diagnostics.
func New(m *ifc.Model, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{model: m, logger: logger, psets: make(map[uint64]ifc.PropertySets)}
}

// Resolve resolves every column of e. Type name is resolved after the
// material because it falls back to it.
func (r *Resolver) Resolve(e *ifc.Entity) Resolution {
	src := make(map[string]string)
	var rec types.Record

	rec.GUID = GUID(e)
	src[types.ColumnGUID] = "GlobalId"
	if _, err := ifc.ExpandGUID(rec.GUID); err != nil {
		r.logger.Warn("malformed GlobalId", "element", entityRef(e), "error", err)
	}
	rec.IFCClass = Class(e)
	src[types.ColumnIFCClass] = "type"

	rec.Material, src[types.ColumnMaterial] = r.Material(e)
	rec.BuildingStorey, src[types.ColumnBuildingStorey] = r.Storey(e)

	var classSrc string
	rec.ClassificationCode, rec.ClassificationName, classSrc = r.Classification(e)
	src[types.ColumnClassificationCode] = classSrc
	src[types.ColumnClassificationName] = classSrc

	var qsrc map[types.Quantity]string
	rec.Quantities, qsrc = r.Quantities(e)
	for q, s := range qsrc {
		src[string(q)] = s
	}

	rec.TypeName, src[types.ColumnTypeName] = r.TypeName(e, rec.Material)

	vol, ok := rec.Quantities.Volume()
	if ok {
		rec.Menge = vol
		if rec.Quantities.Has(types.GrossVolume) {
			src[types.ColumnMenge] = string(types.GrossVolume)
		} else {
			src[types.ColumnMenge] = string(types.NetVolume)
		}
	}
	return Resolution{Record: rec, Sources: src, Qualified: ok}
}

// PropertySets returns the property and quantity sets of e, cached per element.
func (r *Resolver) PropertySets(e *ifc.Entity) ifc.PropertySets {
	if ps, ok := r.psets[e.ID]; ok {
		return ps
	}
	ps := ifc.PropertySetsOf(e)
	r.psets[e.ID] = ps
	return ps
}

// Name returns the element's Name, else its GlobalId, else its class
// without the Ifc prefix.
func Name(e *ifc.Entity) (string, string) {
	return Or(classLabel(e), SourceClass,
		Lookup[string]{"Name", func() (string, bool) { return e.Text("Name") }},
		Lookup[string]{"GlobalId", func() (string, bool) { return e.Text("GlobalId") }},
	)
}

// GUID returns the GlobalId or "".
func GUID(e *ifc.Entity) string {
	return e.GlobalID()
}

// Class returns the IFC class name of e.
func Class(e *ifc.Entity) string {
	return e.Type()
}

func classLabel(e *ifc.Entity) string {
	return strings.ReplaceAll(e.Type(), "Ifc", "")
}
