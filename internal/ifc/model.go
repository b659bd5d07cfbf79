// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ifc layers an IFC object graph over a parsed STEP file: typed
// entities with named attributes, subtype-aware lookups, and the inverse
// relationships (containment, typing, property and classification
// associations) the exchange file stores only one way.
package ifc

import (
	"fmt"
	"strings"

	"github.com/pdiddy/ifc-lca-export/internal/step"
)

// Model is an opened IFC file.
type Model struct {
	Header step.Header

	schema   *schema
	file     *step.File
	entities map[uint64]*Entity
	ordered  []*Entity
	byType   map[string][]*Entity

	containedIn  map[uint64][]*Entity
	definedBy    map[uint64][]*Entity
	typedBy      map[uint64][]*Entity
	associations map[uint64][]*Entity
	decomposes   map[uint64][]*Entity
}

// Open reads and indexes the IFC file at path.
func Open(path string) (*Model, error) {
	f, err := step.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(f), nil
}

// Parse builds a model from the text of an IFC file.
func Parse(data []byte) (*Model, error) {
	f, err := step.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing IFC: %w", err)
	}
	return New(f), nil
}

// New indexes a parsed exchange file.
func New(f *step.File) *Model {
	m := &Model{
		Header:       f.Header,
		schema:       schemaFor(f.Header.Schemas),
		file:         f,
		entities:     make(map[uint64]*Entity, len(f.Instances)),
		byType:       make(map[string][]*Entity),
		containedIn:  make(map[uint64][]*Entity),
		definedBy:    make(map[uint64][]*Entity),
		typedBy:      make(map[uint64][]*Entity),
		associations: make(map[uint64][]*Entity),
		decomposes:   make(map[uint64][]*Entity),
	}

	for _, id := range f.IDs() {
		in, _ := f.Instance(id)
		e := &Entity{ID: id, inst: in, model: m}
		if in.Type != "" {
			e.def, _ = m.schema.lookup(in.Type)
			if e.def == nil && strings.HasSuffix(in.Type, "TYPE") {
				e.def, _ = m.schema.lookup("IFCELEMENTTYPE")
			}
		}
		m.entities[id] = e
		m.ordered = append(m.ordered, e)
	}

	for _, e := range m.ordered {
		switch {
		case e.IsA("IfcRelContainedInSpatialStructure"):
			m.index(m.containedIn, e, "RelatedElements")
		case e.IsA("IfcRelDefinesByType"):
			m.index(m.typedBy, e, "RelatedObjects")
		case e.IsA("IfcRelDefinesByProperties"):
			m.index(m.definedBy, e, "RelatedObjects")
		case e.IsA("IfcRelAssociates"):
			m.index(m.associations, e, "RelatedObjects")
		case e.IsA("IfcRelAggregates"):
			m.index(m.decomposes, e, "RelatedObjects")
		}
	}
	return m
}

func (m *Model) index(into map[uint64][]*Entity, rel *Entity, attr string) {
	v, _ := rel.Attr(attr)
	for _, id := range v.Refs() {
		into[id] = append(into[id], rel)
	}
}

// Schema returns the schema identifier the model was read with.
func (m *Model) Schema() string {
	if len(m.Header.Schemas) > 0 {
		return m.Header.Schemas[0]
	}
	return m.schema.name
}

// Len returns the number of instances in the file.
func (m *Model) Len() int { return len(m.ordered) }

// ByID returns the entity with the given instance id.
func (m *Model) ByID(id uint64) (*Entity, bool) {
	e, ok := m.entities[id]
	return e, ok
}

// ByType returns every entity that is an instance of class or one of its
// subtypes, in ascending id order. Class names are case-insensitive.
func (m *Model) ByType(class string) []*Entity {
	key := strings.ToUpper(class)
	if list, ok := m.byType[key]; ok {
		return list
	}
	var list []*Entity
	for _, e := range m.ordered {
		if e.isA(key) {
			list = append(list, e)
		}
	}
	m.byType[key] = list
	return list
}

// ByGlobalID finds the rooted entity whose GlobalId equals id.
func (m *Model) ByGlobalID(id string) (*Entity, bool) {
	for _, e := range m.ByType("IfcRoot") {
		if e.GlobalID() == id {
			return e, true
		}
	}
	return nil, false
}

func (m *Model) resolve(v step.Value) (*Entity, bool) {
	v = v.Unwrap()
	if v.Kind != step.KindRef {
		return nil, false
	}
	return m.ByID(v.Ref)
}

func (m *Model) resolveAll(v step.Value) []*Entity {
	var out []*Entity
	for _, id := range v.Refs() {
		if e, ok := m.ByID(id); ok {
			out = append(out, e)
		}
	}
	return out
}
