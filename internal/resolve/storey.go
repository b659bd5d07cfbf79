// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"github.com/pdiddy/ifc-lca-export/internal/ifc"
)

// UnknownStorey is reported for elements outside any storey.
const UnknownStorey = "Unknown"

// Storey resolves the building storey that contains e, either directly or
// through the space that contains it. A storey is labelled by its Name,
// LongName, or Storey_<elevation>.
func (r *Resolver) Storey(e *ifc.Entity) (string, string) {
	for _, rel := range e.ContainedInStructure() {
		structure, ok := rel.Ref("RelatingStructure")
		if !ok {
			continue
		}
		switch {
		case structure.IsA("IfcBuildingStorey"):
			if label, src, ok := storeyLabel(structure); ok {
				return label, src
			}
		case structure.IsA("IfcSpace"):
			for _, parent := range spaceParents(structure) {
				if !parent.IsA("IfcBuildingStorey") {
					continue
				}
				if label, src, ok := storeyLabel(parent); ok {
					return label, "space:" + entityRef(structure) + "/" + src
				}
			}
		}
	}
	r.logger.Debug("no containing storey", "element", e.GlobalID())
	return UnknownStorey, SourceDefault
}

func storeyLabel(s *ifc.Entity) (string, string, bool) {
	ref := "storey:" + entityRef(s)
	return First(
		Lookup[string]{ref + ".Name", func() (string, bool) { return s.Text("Name") }},
		Lookup[string]{ref + ".LongName", func() (string, bool) { return s.Text("LongName") }},
		Lookup[string]{ref + ".Elevation", func() (string, bool) {
			v := s.Value("Elevation")
			if v.IsNull() {
				return "", false
			}
			return "Storey_" + v.String(), true
		}},
	)
}

// spaceParents returns the spatial structures enclosing a space: its
// containment first, else the object it is aggregated into.
func spaceParents(space *ifc.Entity) []*ifc.Entity {
	var parents []*ifc.Entity
	for _, rel := range space.ContainedInStructure() {
		if p, ok := rel.Ref("RelatingStructure"); ok {
			parents = append(parents, p)
		}
	}
	if len(parents) > 0 {
		return parents
	}
	for _, rel := range space.Decomposes() {
		if p, ok := rel.Ref("RelatingObject"); ok {
			parents = append(parents, p)
		}
	}
	return parents
}
