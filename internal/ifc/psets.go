// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ifc

import "github.com/pdiddy/ifc-lca-export/internal/step"

// PropertySet is a named set of property or quantity values in the order
// they were first defined.
type PropertySet struct {
	Name   string
	ID     uint64
	keys   []string
	values map[string]step.Value
}

// Keys returns the property names in definition order.
func (s *PropertySet) Keys() []string { return s.keys }

// Get returns the value of a property. Present but unset properties
// report step.Null with true.
func (s *PropertySet) Get(key string) (step.Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *PropertySet) set(key string, v step.Value) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = v
}

// PropertySets is an ordered collection of property sets keyed by name.
type PropertySets struct {
	names []string
	sets  map[string]*PropertySet
}

// Names returns set names in the order they were first seen.
func (p PropertySets) Names() []string { return p.names }

// Get returns the set with the given name.
func (p PropertySets) Get(name string) (*PropertySet, bool) {
	s, ok := p.sets[name]
	return s, ok
}

// All returns the sets in order.
func (p PropertySets) All() []*PropertySet {
	out := make([]*PropertySet, 0, len(p.names))
	for _, n := range p.names {
		out = append(out, p.sets[n])
	}
	return out
}

// Len returns the number of sets.
func (p PropertySets) Len() int { return len(p.names) }

func (p *PropertySets) merge(def *Entity) {
	var props []*Entity
	var value func(*Entity) (step.Value, bool)
	switch {
	case def.IsA("IfcPropertySet"):
		props, value = def.Refs("HasProperties"), propertyValue
	case def.IsA("IfcElementQuantity"):
		props, value = def.Refs("Quantities"), quantityValue
	default:
		return
	}

	if p.sets == nil {
		p.sets = make(map[string]*PropertySet)
	}
	name := def.Name()
	set, ok := p.sets[name]
	if !ok {
		set = &PropertySet{Name: name, values: make(map[string]step.Value)}
		p.sets[name] = set
		p.names = append(p.names, name)
	}
	set.ID = def.ID

	for _, prop := range props {
		v, ok := value(prop)
		if !ok {
			continue
		}
		set.set(prop.Name(), v)
	}
}

// PropertySetsOf collects the property and quantity sets of e. Sets
// declared on the assigned type object come first; sets on the occurrence
// override them key by key.
func PropertySetsOf(e *Entity) PropertySets {
	var ps PropertySets
	if e.IsA("IfcTypeObject") {
		for _, def := range e.Refs("HasPropertySets") {
			ps.merge(def)
		}
		return ps
	}
	if t, ok := e.DefiningType(); ok {
		for _, def := range t.Refs("HasPropertySets") {
			ps.merge(def)
		}
	}
	for _, rel := range e.IsDefinedBy() {
		// IFC4 allows an IfcPropertySetDefinitionSet here, which Refs flattens.
		for _, def := range rel.Refs("RelatingPropertyDefinition") {
			ps.merge(def)
		}
	}
	return ps
}

func propertyValue(prop *Entity) (step.Value, bool) {
	switch {
	case prop.IsA("IfcPropertySingleValue"):
		return prop.Value("NominalValue").Unwrap(), true
	case prop.IsA("IfcPropertyEnumeratedValue"):
		return unwrapList(prop.Value("EnumerationValues")), true
	case prop.IsA("IfcPropertyListValue"):
		return unwrapList(prop.Value("ListValues")), true
	}
	return step.Null, false
}

var quantityAttrs = []string{
	"VolumeValue", "AreaValue", "LengthValue", "CountValue",
	"WeightValue", "TimeValue", "NumberValue",
}

func quantityValue(q *Entity) (step.Value, bool) {
	for _, a := range quantityAttrs {
		if v, ok := q.Attr(a); ok {
			return v.Unwrap(), true
		}
	}
	return step.Null, false
}

func unwrapList(v step.Value) step.Value {
	v = v.Unwrap()
	if v.Kind != step.KindList {
		return v
	}
	out := step.Value{Kind: step.KindList, List: make([]step.Value, len(v.List))}
	for i, item := range v.List {
		out.List[i] = item.Unwrap()
	}
	return out
}
