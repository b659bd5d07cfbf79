// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ifc

import (
	"strconv"
	"strings"

	"github.com/pdiddy/ifc-lca-export/internal/step"
)

// Entity is one instance of the model, addressed by attribute name.
type Entity struct {
	ID    uint64
	inst  *step.Instance
	def   *entityDef
	model *Model
}

// Type returns the IFC class name, e.g. IfcWallStandardCase.
func (e *Entity) Type() string {
	if e.inst.Type == "" {
		return ""
	}
	return e.model.schema.canonicalName(e.inst.Type)
}

// IsA reports whether e is an instance of class or one of its subtypes.
func (e *Entity) IsA(class string) bool {
	return e.isA(strings.ToUpper(class))
}

func (e *Entity) isA(upper string) bool {
	if e.def == nil {
		return e.inst.Type == upper
	}
	return e.def.isA(upper)
}

// Model returns the model e belongs to.
func (e *Entity) Model() *Model { return e.model }

// Attr returns the named attribute. The second result is false when the
// class has no such attribute; an unset attribute is step.Null with true.
func (e *Entity) Attr(name string) (step.Value, bool) {
	if e.def == nil {
		return step.Null, false
	}
	i, ok := e.def.attrIndex(name)
	if !ok {
		return step.Null, false
	}
	return e.inst.Param(i), true
}

// Value returns the named attribute, or step.Null when absent.
func (e *Entity) Value(name string) step.Value {
	v, _ := e.Attr(name)
	return v
}

// Text returns a textual attribute. Empty text reports false.
func (e *Entity) Text(name string) (string, bool) {
	s, ok := e.Value(name).Text()
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Ref follows a single-reference attribute.
func (e *Entity) Ref(name string) (*Entity, bool) {
	return e.model.resolve(e.Value(name))
}

// Refs follows an aggregate-of-references attribute.
func (e *Entity) Refs(name string) []*Entity {
	return e.model.resolveAll(e.Value(name))
}

// GlobalID returns the 22-character GlobalId of a rooted entity.
func (e *Entity) GlobalID() string {
	s, _ := e.Text("GlobalId")
	return s
}

// Name returns the Name attribute, or "" when unset.
func (e *Entity) Name() string {
	s, _ := e.Text("Name")
	return s
}

func (e *Entity) String() string {
	if name := e.Name(); name != "" {
		return "#" + strconv.FormatUint(e.ID, 10) + "=" + e.Type() + "(" + name + ")"
	}
	return "#" + strconv.FormatUint(e.ID, 10) + "=" + e.Type()
}

// ContainedInStructure returns the IfcRelContainedInSpatialStructure
// relationships listing e as a related element.
func (e *Entity) ContainedInStructure() []*Entity { return e.model.containedIn[e.ID] }

// IsDefinedBy returns the IfcRelDefinesByProperties relationships of e.
func (e *Entity) IsDefinedBy() []*Entity { return e.model.definedBy[e.ID] }

// IsTypedBy returns the IfcRelDefinesByType relationships of e.
func (e *Entity) IsTypedBy() []*Entity { return e.model.typedBy[e.ID] }

// HasAssociations returns the IfcRelAssociates relationships of e.
func (e *Entity) HasAssociations() []*Entity { return e.model.associations[e.ID] }

// Decomposes returns the IfcRelAggregates relationships listing e as a part.
func (e *Entity) Decomposes() []*Entity { return e.model.decomposes[e.ID] }

// DefiningType returns the type object assigned to e, if any.
func (e *Entity) DefiningType() (*Entity, bool) {
	for _, rel := range e.IsTypedBy() {
		if t, ok := rel.Ref("RelatingType"); ok {
			return t, true
		}
	}
	return nil, false
}
