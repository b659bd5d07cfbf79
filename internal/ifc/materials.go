// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ifc

// MaterialsOf returns the IfcMaterial entities associated with e, with
// layer sets, lists, constituent and profile sets expanded to their
// materials. An occurrence without its own association inherits the
// materials of its type object.
func MaterialsOf(e *Entity) []*Entity {
	mats := associatedMaterials(e)
	if len(mats) > 0 || e.IsA("IfcTypeObject") {
		return mats
	}
	if t, ok := e.DefiningType(); ok {
		return associatedMaterials(t)
	}
	return nil
}

func associatedMaterials(e *Entity) []*Entity {
	for _, rel := range e.HasAssociations() {
		if !rel.IsA("IfcRelAssociatesMaterial") {
			continue
		}
		if def, ok := rel.Ref("RelatingMaterial"); ok {
			return expandMaterial(def, 0)
		}
	}
	return nil
}

func expandMaterial(def *Entity, depth int) []*Entity {
	if depth > 4 {
		return nil
	}
	var next []*Entity
	switch {
	case def.IsA("IfcMaterial"):
		return []*Entity{def}
	case def.IsA("IfcMaterialLayerSetUsage"):
		next = def.Refs("ForLayerSet")
	case def.IsA("IfcMaterialProfileSetUsage"):
		next = def.Refs("ForProfileSet")
	case def.IsA("IfcMaterialLayerSet"):
		next = def.Refs("MaterialLayers")
	case def.IsA("IfcMaterialConstituentSet"):
		next = def.Refs("MaterialConstituents")
	case def.IsA("IfcMaterialProfileSet"):
		next = def.Refs("MaterialProfiles")
	case def.IsA("IfcMaterialList"):
		next = def.Refs("Materials")
	case def.IsA("IfcMaterialLayer"), def.IsA("IfcMaterialConstituent"), def.IsA("IfcMaterialProfile"):
		next = def.Refs("Material")
	}
	var out []*Entity
	for _, n := range next {
		out = append(out, expandMaterial(n, depth+1)...)
	}
	return out
}
