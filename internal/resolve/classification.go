// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"strings"

	"github.com/pdiddy/ifc-lca-export/internal/ifc"
)

var (
	primaryClassificationSet    = "eBKP-H"
	secondaryClassificationSets = []string{"eBKP", "Classification", "Pset_Classification"}

	classificationCodeKeys = []string{"Code", "ClassificationCode", "ItemReference", "Identification"}
	classificationNameKeys = []string{"Name", "ClassificationName", "Description"}
)

// classificationRelMarker selects classification associations by name.
const classificationRelMarker = "eBKP"

type classification struct {
	code, name string
}

func (c classification) empty() bool { return c.code == "" && c.name == "" }

// Classification resolves the eBKP code and name of e from the eBKP-H
// property set, then the other classification sets, then an eBKP
// classification association. Missing values are "".
func (r *Resolver) Classification(e *ifc.Entity) (code, name, source string) {
	ps := r.PropertySets(e)

	sets := append([]string{primaryClassificationSet}, secondaryClassificationSets...)
	lookups := make([]Lookup[classification], 0, len(sets)+1)
	for _, setName := range sets {
		lookups = append(lookups, Lookup[classification]{
			Name: "pset:" + setName,
			Find: func() (classification, bool) {
				set, ok := ps.Get(setName)
				if !ok {
					return classification{}, false
				}
				c := classifyFromSet(set)
				return c, !c.empty()
			},
		})
	}
	lookups = append(lookups, Lookup[classification]{
		Name: "association",
		Find: func() (classification, bool) { return r.classifyFromAssociation(e) },
	})

	c, src := Or(classification{}, SourceDefault, lookups...)
	return c.code, c.name, src
}

// classifyFromSet reads code and name from their known keys. When
// neither is present, textual values of the form "CODE, Name" are split
// at the first comma and any other text becomes the code.
func classifyFromSet(set *ifc.PropertySet) classification {
	var c classification
	c.code, _ = firstTruthy(set, classificationCodeKeys)
	c.name, _ = firstTruthy(set, classificationNameKeys)
	if !c.empty() {
		return c
	}

	for _, key := range set.Keys() {
		v, _ := set.Get(key)
		text, ok := v.Text()
		if !ok || text == "" {
			continue
		}
		if before, after, found := strings.Cut(text, ","); found {
			if c.code == "" {
				c.code = strings.TrimSpace(before)
			}
			if c.name == "" {
				c.name = strings.TrimSpace(after)
			}
		} else if c.code == "" {
			c.code = text
		}
	}
	return c
}

func firstTruthy(set *ifc.PropertySet, keys []string) (string, bool) {
	for _, key := range keys {
		if s, ok := truthyString(set, key); ok {
			return s, true
		}
	}
	return "", false
}

// classifyFromAssociation reads the first eBKP classification association
// of e. The model indexes every association under each of its related
// objects, so HasAssociations covers every relationship that lists e.
func (r *Resolver) classifyFromAssociation(e *ifc.Entity) (classification, bool) {
	rel, ok := findClassificationRel(e.HasAssociations(), e)
	if !ok {
		return classification{}, false
	}

	ref, ok := rel.Ref("RelatingClassification")
	if !ok || !ref.IsA("IfcClassificationReference") {
		r.logger.Debug("classification association without reference", "element", e.GlobalID(), "rel", entityRef(rel))
		return classification{}, false
	}

	var c classification
	c.code, _, _ = First(
		Lookup[string]{"ItemReference", func() (string, bool) { return ref.Text("ItemReference") }},
		Lookup[string]{"Identification", func() (string, bool) { return ref.Text("Identification") }},
	)
	c.name, _ = ref.Text("Name")
	return c, !c.empty()
}

func findClassificationRel(rels []*ifc.Entity, e *ifc.Entity) (*ifc.Entity, bool) {
	for _, rel := range rels {
		if !rel.IsA("IfcRelAssociatesClassification") {
			continue
		}
		if !strings.Contains(rel.Name(), classificationRelMarker) {
			continue
		}
		if relates(rel, e) {
			return rel, true
		}
	}
	return nil, false
}

func relates(rel, e *ifc.Entity) bool {
	for _, obj := range rel.Refs("RelatedObjects") {
		if obj.ID == e.ID {
			return true
		}
	}
	return false
}
