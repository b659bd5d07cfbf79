// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"strconv"

	"github.com/pdiddy/ifc-lca-export/internal/ifc"
)

var (
	materialSets = []string{"Material", "Pset_MaterialCommon", "MaterialProperties"}
	materialKeys = []string{"Name", "Material", "MaterialName"}
)

// Material resolves the material name of e: a material property set,
// then the associated IFC material's Name or Category, then the class.
func (r *Resolver) Material(e *ifc.Entity) (string, string) {
	ps := r.PropertySets(e)

	var lookups []Lookup[string]
	for _, setName := range materialSets {
		set, ok := ps.Get(setName)
		if !ok {
			continue
		}
		for _, key := range materialKeys {
			lookups = append(lookups, Lookup[string]{
				Name: "pset:" + setName + "." + key,
				Find: func() (string, bool) { return truthyString(set, key) },
			})
		}
	}

	mats := ifc.MaterialsOf(e)
	if len(mats) > 0 {
		m := mats[0]
		lookups = append(lookups,
			Lookup[string]{"material:" + entityRef(m) + ".Name", func() (string, bool) { return m.Text("Name") }},
			Lookup[string]{"material:" + entityRef(m) + ".Category", func() (string, bool) { return m.Text("Category") }},
		)
	}

	v, src := Or(classLabel(e), SourceClass, lookups...)
	if src == SourceClass {
		r.logger.Debug("material not found, using class", "element", e.GlobalID(), "class", e.Type())
	}
	return v, src
}

// TypeName resolves the name of the type object assigned to e, then its
// Tag, else returns material.
func (r *Resolver) TypeName(e *ifc.Entity, material string) (string, string) {
	t, ok := e.DefiningType()
	if !ok {
		return material, SourceMaterial
	}
	return Or(material, SourceMaterial,
		Lookup[string]{"type:" + entityRef(t) + ".Name", func() (string, bool) { return t.Text("Name") }},
		Lookup[string]{"type:" + entityRef(t) + ".Tag", func() (string, bool) { return t.Text("Tag") }},
	)
}

// truthyString returns the text of a non-empty property value.
func truthyString(set *ifc.PropertySet, key string) (string, bool) {
	v, ok := set.Get(key)
	if !ok || !v.Truthy() {
		return "", false
	}
	return v.String(), true
}

func entityRef(e *ifc.Entity) string {
	return "#" + strconv.FormatUint(e.ID, 10)
}
