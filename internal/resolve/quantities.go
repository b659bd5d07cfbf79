// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"strings"

	"github.com/pdiddy/ifc-lca-export/internal/ifc"
	"github.com/pdiddy/ifc-lca-export/internal/step"
	"github.com/pdiddy/ifc-lca-export/pkg/types"
)

const (
	baseQuantitiesSet = "BaseQuantities"
	genericVolumeKey  = "Volume"
)

// quantityResult accumulates resolved quantities; the first value set
// for a field wins.
type quantityResult struct {
	values  types.QuantitySet
	sources map[types.Quantity]string
}

func (q *quantityResult) setOnce(name types.Quantity, v float64, src string) {
	if q.values.Has(name) {
		return
	}
	q.values[name] = v
	q.sources[name] = src
}

// Quantities resolves the eleven quantity fields of e from the
// BaseQuantities set, then every property set by field name, then the
// entries of the element's quantity sets routed by entry name.
func (r *Resolver) Quantities(e *ifc.Entity) (types.QuantitySet, map[types.Quantity]string) {
	res := &quantityResult{
		values:  make(types.QuantitySet),
		sources: make(map[types.Quantity]string),
	}
	ps := r.PropertySets(e)

	if base, ok := ps.Get(baseQuantitiesSet); ok {
		for _, q := range types.Quantities {
			r.fromSet(e, res, base, q, string(q))
		}
		r.fromSet(e, res, base, types.GrossVolume, genericVolumeKey)
	}

	for _, set := range ps.All() {
		for _, q := range types.Quantities {
			r.fromSet(e, res, set, q, string(q))
		}
	}

	for _, rel := range e.IsDefinedBy() {
		for _, def := range rel.Refs("RelatingPropertyDefinition") {
			if def.IsA("IfcElementQuantity") {
				r.fromQuantitySet(res, def)
			}
		}
	}
	return res.values, res.sources
}

func (r *Resolver) fromSet(e *ifc.Entity, res *quantityResult, set *ifc.PropertySet, q types.Quantity, key string) {
	if res.values.Has(q) {
		return
	}
	v, ok := set.Get(key)
	if !ok {
		return
	}
	f, ok := v.Float()
	if !ok {
		r.logger.Debug("quantity is not numeric",
			"element", e.GlobalID(), "set", set.Name, "key", key, "value", v.String())
		return
	}
	res.setOnce(q, f, "pset:"+set.Name+"."+key)
}

func (r *Resolver) fromQuantitySet(res *quantityResult, qto *ifc.Entity) {
	for _, q := range qto.Refs("Quantities") {
		name := q.Name()
		src := "quantity:" + qto.Name() + "/" + name
		switch {
		case q.IsA("IfcQuantityVolume"):
			if f, ok := nonZero(q.Value("VolumeValue")); ok {
				res.setOnce(routeVolume(name, res.values), f, src)
			}
		case q.IsA("IfcQuantityLength"):
			if f, ok := nonZero(q.Value("LengthValue")); ok {
				res.setOnce(types.Length, f, src)
			}
		case q.IsA("IfcQuantityArea"):
			if f, ok := nonZero(q.Value("AreaValue")); ok {
				res.setOnce(routeArea(name), f, src)
			}
		}
	}
}

// routeVolume picks the volume field for a quantity entry name. Names
// that say neither Gross nor Net fill GrossVolume first.
func routeVolume(name string, have types.QuantitySet) types.Quantity {
	switch {
	case strings.Contains(name, "Gross"):
		return types.GrossVolume
	case strings.Contains(name, "Net"):
		return types.NetVolume
	case !have.Has(types.GrossVolume):
		return types.GrossVolume
	}
	return types.NetVolume
}

// routeArea picks the area field for a quantity entry name from its
// Gross/Net and Footprint/Side/Surface parts. Names that say neither
// Gross nor Net fill GrossArea.
func routeArea(name string) types.Quantity {
	var net bool
	switch {
	case strings.Contains(name, "Gross"):
	case strings.Contains(name, "Net"):
		net = true
	default:
		return types.GrossArea
	}
	pick := func(gross, netQ types.Quantity) types.Quantity {
		if net {
			return netQ
		}
		return gross
	}
	switch {
	case strings.Contains(name, "Footprint"):
		return pick(types.GrossFootprintArea, types.NetFootprintArea)
	case strings.Contains(name, "Side"):
		return pick(types.GrossSideArea, types.NetSideArea)
	case strings.Contains(name, "Surface"):
		return pick(types.GrossSurfaceArea, types.NetSurfaceArea)
	}
	return pick(types.GrossArea, types.NetArea)
}

func nonZero(v step.Value) (float64, bool) {
	if !v.Truthy() {
		return 0, false
	}
	return v.Float()
}
