// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ifc

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Schema identifiers as they appear in FILE_SCHEMA.
const (
	SchemaIFC2X3 = "IFC2X3"
	SchemaIFC4   = "IFC4"
)

// decl declares an entity: its canonical name, its supertype, and the
// explicit attributes it adds after those of the supertype.
type decl struct {
	name   string
	parent string
	attrs  []string
}

// entityDef is a resolved entity with its full attribute list.
type entityDef struct {
	name   string
	upper  string
	parent *entityDef
	index  map[string]int
}

func (d *entityDef) isA(upper string) bool {
	for x := d; x != nil; x = x.parent {
		if x.upper == upper {
			return true
		}
	}
	return false
}

func (d *entityDef) attrIndex(name string) (int, bool) {
	i, ok := d.index[name]
	return i, ok
}

// schema is the subset of an IFC release needed for element extraction.
type schema struct {
	name     string
	entities map[string]*entityDef // keyed by upper-case name
}

func (s *schema) lookup(upper string) (*entityDef, bool) {
	d, ok := s.entities[upper]
	return d, ok
}

var titleCaser = cases.Title(language.Und)

// canonicalName returns the IFC spelling of an upper-case entity name.
// Names outside the table fall back to Ifc + title case.
func (s *schema) canonicalName(upper string) string {
	if d, ok := s.entities[upper]; ok {
		return d.name
	}
	if rest, ok := strings.CutPrefix(upper, "IFC"); ok && rest != "" {
		return "Ifc" + titleCaser.String(rest)
	}
	return titleCaser.String(upper)
}

var (
	rootAttrs = []string{"GlobalId", "OwnerHistory", "Name", "Description"}

	// coreDecls holds entities whose attribute layout is the same in
	// IFC2X3 and IFC4 for every attribute read here.
	coreDecls = []decl{
		{"IfcRoot", "", rootAttrs},
		{"IfcObjectDefinition", "IfcRoot", nil},
		{"IfcObject", "IfcObjectDefinition", []string{"ObjectType"}},
		{"IfcProduct", "IfcObject", []string{"ObjectPlacement", "Representation"}},
		{"IfcElement", "IfcProduct", []string{"Tag"}},

		{"IfcSpatialElement", "IfcProduct", []string{"LongName"}},
		{"IfcSpatialStructureElement", "IfcSpatialElement", []string{"CompositionType"}},
		{"IfcSite", "IfcSpatialStructureElement", []string{"RefLatitude", "RefLongitude", "RefElevation", "LandTitleNumber", "SiteAddress"}},
		{"IfcBuilding", "IfcSpatialStructureElement", []string{"ElevationOfRefHeight", "ElevationOfTerrain", "BuildingAddress"}},
		{"IfcBuildingStorey", "IfcSpatialStructureElement", []string{"Elevation"}},

		{"IfcTypeObject", "IfcObjectDefinition", []string{"ApplicableOccurrence", "HasPropertySets"}},
		{"IfcTypeProduct", "IfcTypeObject", []string{"RepresentationMaps", "Tag"}},
		{"IfcElementType", "IfcTypeProduct", []string{"ElementType"}},
		{"IfcDoorStyle", "IfcTypeProduct", []string{"OperationType", "ConstructionType", "ParameterTakesPrecedence", "Sizeable"}},
		{"IfcWindowStyle", "IfcTypeProduct", []string{"ConstructionType", "OperationType", "ParameterTakesPrecedence", "Sizeable"}},

		{"IfcRelationship", "IfcRoot", nil},
		{"IfcRelConnects", "IfcRelationship", nil},
		{"IfcRelContainedInSpatialStructure", "IfcRelConnects", []string{"RelatedElements", "RelatingStructure"}},
		{"IfcRelDefines", "IfcRelationship", nil},
		{"IfcRelDefinesByType", "IfcRelDefines", []string{"RelatedObjects", "RelatingType"}},
		{"IfcRelDefinesByProperties", "IfcRelDefines", []string{"RelatedObjects", "RelatingPropertyDefinition"}},
		{"IfcRelAssociates", "IfcRelationship", []string{"RelatedObjects"}},
		{"IfcRelAssociatesClassification", "IfcRelAssociates", []string{"RelatingClassification"}},
		{"IfcRelAssociatesMaterial", "IfcRelAssociates", []string{"RelatingMaterial"}},
		{"IfcRelDecomposes", "IfcRelationship", nil},
		{"IfcRelAggregates", "IfcRelDecomposes", []string{"RelatingObject", "RelatedObjects"}},

		{"IfcPropertyDefinition", "IfcRoot", nil},
		{"IfcPropertySetDefinition", "IfcPropertyDefinition", nil},
		{"IfcPropertySet", "IfcPropertySetDefinition", []string{"HasProperties"}},
		{"IfcQuantitySet", "IfcPropertySetDefinition", nil},
		{"IfcElementQuantity", "IfcQuantitySet", []string{"MethodOfMeasurement", "Quantities"}},

		{"IfcProperty", "", []string{"Name", "Description"}},
		{"IfcSimpleProperty", "IfcProperty", nil},
		{"IfcPropertySingleValue", "IfcSimpleProperty", []string{"NominalValue", "Unit"}},
		{"IfcPropertyEnumeratedValue", "IfcSimpleProperty", []string{"EnumerationValues", "EnumerationReference"}},
		{"IfcPropertyListValue", "IfcSimpleProperty", []string{"ListValues", "Unit"}},
		{"IfcPropertyBoundedValue", "IfcSimpleProperty", []string{"UpperBoundValue", "LowerBoundValue", "Unit"}},
		{"IfcComplexProperty", "IfcProperty", []string{"UsageName", "HasProperties"}},

		{"IfcPhysicalQuantity", "", []string{"Name", "Description"}},
		{"IfcPhysicalSimpleQuantity", "IfcPhysicalQuantity", []string{"Unit"}},
		{"IfcQuantityLength", "IfcPhysicalSimpleQuantity", []string{"LengthValue"}},
		{"IfcQuantityArea", "IfcPhysicalSimpleQuantity", []string{"AreaValue"}},
		{"IfcQuantityVolume", "IfcPhysicalSimpleQuantity", []string{"VolumeValue"}},
		{"IfcQuantityCount", "IfcPhysicalSimpleQuantity", []string{"CountValue"}},
		{"IfcQuantityWeight", "IfcPhysicalSimpleQuantity", []string{"WeightValue"}},
		{"IfcQuantityTime", "IfcPhysicalSimpleQuantity", []string{"TimeValue"}},
		{"IfcQuantityNumber", "IfcPhysicalSimpleQuantity", []string{"NumberValue"}},
		{"IfcPhysicalComplexQuantity", "IfcPhysicalQuantity", []string{"HasQuantities", "Discrimination", "Quality", "Usage"}},

		{"IfcMaterialDefinition", "", nil},
		{"IfcMaterialList", "", []string{"Materials"}},
		{"IfcMaterialLayerSetUsage", "", []string{"ForLayerSet", "LayerSetDirection", "DirectionSense", "OffsetFromReferenceLine"}},
		{"IfcMaterialConstituentSet", "IfcMaterialDefinition", []string{"Name", "Description", "MaterialConstituents"}},
		{"IfcMaterialConstituent", "IfcMaterialDefinition", []string{"Name", "Description", "Material", "Fraction", "Category"}},
		{"IfcMaterialProfileSet", "IfcMaterialDefinition", []string{"Name", "Description", "MaterialProfiles", "CompositeProfile"}},
		{"IfcMaterialProfile", "IfcMaterialDefinition", []string{"Name", "Description", "Material", "Profile", "Priority", "Category"}},
		{"IfcMaterialProfileSetUsage", "", []string{"ForProfileSet", "CardinalPoint", "ReferenceExtent"}},

		{"IfcExternalReference", "", nil},
		{"IfcClassification", "", []string{"Source", "Edition", "EditionDate", "Name"}},
	}

	ifc2x3Decls = []decl{
		{"IfcSpace", "IfcSpatialStructureElement", []string{"InteriorOrExteriorSpace", "ElevationWithFlooring"}},
		{"IfcMaterial", "IfcMaterialDefinition", []string{"Name"}},
		{"IfcMaterialLayer", "IfcMaterialDefinition", []string{"Material", "LayerThickness", "IsVentilated"}},
		{"IfcMaterialLayerSet", "IfcMaterialDefinition", []string{"MaterialLayers", "LayerSetName"}},
		{"IfcClassificationReference", "IfcExternalReference", []string{"Location", "ItemReference", "Name", "ReferencedSource"}},
	}

	ifc4Decls = []decl{
		{"IfcSpace", "IfcSpatialStructureElement", []string{"PredefinedType", "ElevationWithFlooring"}},
		{"IfcMaterial", "IfcMaterialDefinition", []string{"Name", "Description", "Category"}},
		{"IfcMaterialLayer", "IfcMaterialDefinition", []string{"Material", "LayerThickness", "IsVentilated", "Name", "Description", "Category", "Priority"}},
		{"IfcMaterialLayerSet", "IfcMaterialDefinition", []string{"MaterialLayers", "LayerSetName", "Description"}},
		{"IfcClassificationReference", "IfcExternalReference", []string{"Location", "Identification", "Name", "ReferencedSource", "Description", "Sort"}},
	}
)

// elementHierarchy lists IfcElement subtypes across IFC2X3, IFC4 and
// IFC4X3 as (name, supertype) pairs. None adds attributes read here.
var elementHierarchy = [][2]string{
	{"IfcBuildingElement", "IfcElement"},
	{"IfcBuiltElement", "IfcElement"},
	{"IfcCivilElement", "IfcElement"},
	{"IfcDistributionElement", "IfcElement"},
	{"IfcElementAssembly", "IfcElement"},
	{"IfcElementComponent", "IfcElement"},
	{"IfcEquipmentElement", "IfcElement"},
	{"IfcElectricalElement", "IfcElement"},
	{"IfcFeatureElement", "IfcElement"},
	{"IfcFurnishingElement", "IfcElement"},
	{"IfcGeographicElement", "IfcElement"},
	{"IfcGeotechnicalElement", "IfcElement"},
	{"IfcTransportElement", "IfcElement"},
	{"IfcVirtualElement", "IfcElement"},

	{"IfcBeam", "IfcBuildingElement"},
	{"IfcBeamStandardCase", "IfcBeam"},
	{"IfcBuildingElementComponent", "IfcBuildingElement"},
	{"IfcBuildingElementProxy", "IfcBuildingElement"},
	{"IfcChimney", "IfcBuildingElement"},
	{"IfcColumn", "IfcBuildingElement"},
	{"IfcColumnStandardCase", "IfcColumn"},
	{"IfcCovering", "IfcBuildingElement"},
	{"IfcCurtainWall", "IfcBuildingElement"},
	{"IfcDoor", "IfcBuildingElement"},
	{"IfcDoorStandardCase", "IfcDoor"},
	{"IfcFooting", "IfcBuildingElement"},
	{"IfcMember", "IfcBuildingElement"},
	{"IfcMemberStandardCase", "IfcMember"},
	{"IfcPile", "IfcBuildingElement"},
	{"IfcPlate", "IfcBuildingElement"},
	{"IfcPlateStandardCase", "IfcPlate"},
	{"IfcRailing", "IfcBuildingElement"},
	{"IfcRamp", "IfcBuildingElement"},
	{"IfcRampFlight", "IfcBuildingElement"},
	{"IfcRoof", "IfcBuildingElement"},
	{"IfcShadingDevice", "IfcBuildingElement"},
	{"IfcSlab", "IfcBuildingElement"},
	{"IfcSlabElementedCase", "IfcSlab"},
	{"IfcSlabStandardCase", "IfcSlab"},
	{"IfcStair", "IfcBuildingElement"},
	{"IfcStairFlight", "IfcBuildingElement"},
	{"IfcWall", "IfcBuildingElement"},
	{"IfcWallElementedCase", "IfcWall"},
	{"IfcWallStandardCase", "IfcWall"},
	{"IfcWindow", "IfcBuildingElement"},
	{"IfcWindowStandardCase", "IfcWindow"},

	{"IfcBearing", "IfcBuiltElement"},
	{"IfcCourse", "IfcBuiltElement"},
	{"IfcDeepFoundation", "IfcBuiltElement"},
	{"IfcCaissonFoundation", "IfcDeepFoundation"},
	{"IfcEarthworksElement", "IfcBuiltElement"},
	{"IfcEarthworksFill", "IfcEarthworksElement"},
	{"IfcReinforcedSoil", "IfcEarthworksElement"},
	{"IfcKerb", "IfcBuiltElement"},
	{"IfcMooringDevice", "IfcBuiltElement"},
	{"IfcNavigationElement", "IfcBuiltElement"},
	{"IfcPavement", "IfcBuiltElement"},
	{"IfcRail", "IfcBuiltElement"},
	{"IfcTrackElement", "IfcBuiltElement"},

	{"IfcDistributionControlElement", "IfcDistributionElement"},
	{"IfcDistributionFlowElement", "IfcDistributionElement"},
	{"IfcActuator", "IfcDistributionControlElement"},
	{"IfcAlarm", "IfcDistributionControlElement"},
	{"IfcController", "IfcDistributionControlElement"},
	{"IfcFlowInstrument", "IfcDistributionControlElement"},
	{"IfcProtectiveDeviceTrippingUnit", "IfcDistributionControlElement"},
	{"IfcSensor", "IfcDistributionControlElement"},
	{"IfcUnitaryControlElement", "IfcDistributionControlElement"},

	{"IfcDistributionChamberElement", "IfcDistributionFlowElement"},
	{"IfcEnergyConversionDevice", "IfcDistributionFlowElement"},
	{"IfcFlowController", "IfcDistributionFlowElement"},
	{"IfcFlowFitting", "IfcDistributionFlowElement"},
	{"IfcFlowMovingDevice", "IfcDistributionFlowElement"},
	{"IfcFlowSegment", "IfcDistributionFlowElement"},
	{"IfcFlowStorageDevice", "IfcDistributionFlowElement"},
	{"IfcFlowTerminal", "IfcDistributionFlowElement"},
	{"IfcFlowTreatmentDevice", "IfcDistributionFlowElement"},

	{"IfcAirToAirHeatRecovery", "IfcEnergyConversionDevice"},
	{"IfcBoiler", "IfcEnergyConversionDevice"},
	{"IfcBurner", "IfcEnergyConversionDevice"},
	{"IfcChiller", "IfcEnergyConversionDevice"},
	{"IfcCoil", "IfcEnergyConversionDevice"},
	{"IfcCondenser", "IfcEnergyConversionDevice"},
	{"IfcCooledBeam", "IfcEnergyConversionDevice"},
	{"IfcCoolingTower", "IfcEnergyConversionDevice"},
	{"IfcElectricGenerator", "IfcEnergyConversionDevice"},
	{"IfcElectricMotor", "IfcEnergyConversionDevice"},
	{"IfcEngine", "IfcEnergyConversionDevice"},
	{"IfcEvaporativeCooler", "IfcEnergyConversionDevice"},
	{"IfcEvaporator", "IfcEnergyConversionDevice"},
	{"IfcHeatExchanger", "IfcEnergyConversionDevice"},
	{"IfcHumidifier", "IfcEnergyConversionDevice"},
	{"IfcMotorConnection", "IfcEnergyConversionDevice"},
	{"IfcSolarDevice", "IfcEnergyConversionDevice"},
	{"IfcTransformer", "IfcEnergyConversionDevice"},
	{"IfcTubeBundle", "IfcEnergyConversionDevice"},
	{"IfcUnitaryEquipment", "IfcEnergyConversionDevice"},

	{"IfcAirTerminalBox", "IfcFlowController"},
	{"IfcDamper", "IfcFlowController"},
	{"IfcDistributionBoard", "IfcFlowController"},
	{"IfcElectricDistributionBoard", "IfcFlowController"},
	{"IfcElectricTimeControl", "IfcFlowController"},
	{"IfcFlowMeter", "IfcFlowController"},
	{"IfcProtectiveDevice", "IfcFlowController"},
	{"IfcSwitchingDevice", "IfcFlowController"},
	{"IfcValve", "IfcFlowController"},

	{"IfcCableCarrierFitting", "IfcFlowFitting"},
	{"IfcCableFitting", "IfcFlowFitting"},
	{"IfcDuctFitting", "IfcFlowFitting"},
	{"IfcJunctionBox", "IfcFlowFitting"},
	{"IfcPipeFitting", "IfcFlowFitting"},

	{"IfcCompressor", "IfcFlowMovingDevice"},
	{"IfcFan", "IfcFlowMovingDevice"},
	{"IfcPump", "IfcFlowMovingDevice"},

	{"IfcCableCarrierSegment", "IfcFlowSegment"},
	{"IfcCableSegment", "IfcFlowSegment"},
	{"IfcConveyorSegment", "IfcFlowSegment"},
	{"IfcDuctSegment", "IfcFlowSegment"},
	{"IfcPipeSegment", "IfcFlowSegment"},

	{"IfcElectricFlowStorageDevice", "IfcFlowStorageDevice"},
	{"IfcTank", "IfcFlowStorageDevice"},

	{"IfcAirTerminal", "IfcFlowTerminal"},
	{"IfcAudioVisualAppliance", "IfcFlowTerminal"},
	{"IfcCommunicationsAppliance", "IfcFlowTerminal"},
	{"IfcElectricAppliance", "IfcFlowTerminal"},
	{"IfcFireSuppressionTerminal", "IfcFlowTerminal"},
	{"IfcLamp", "IfcFlowTerminal"},
	{"IfcLightFixture", "IfcFlowTerminal"},
	{"IfcLiquidTerminal", "IfcFlowTerminal"},
	{"IfcMedicalDevice", "IfcFlowTerminal"},
	{"IfcMobileTelecommunicationsAppliance", "IfcFlowTerminal"},
	{"IfcOutlet", "IfcFlowTerminal"},
	{"IfcSanitaryTerminal", "IfcFlowTerminal"},
	{"IfcSignal", "IfcFlowTerminal"},
	{"IfcSpaceHeater", "IfcFlowTerminal"},
	{"IfcStackTerminal", "IfcFlowTerminal"},
	{"IfcWasteTerminal", "IfcFlowTerminal"},

	{"IfcDuctSilencer", "IfcFlowTreatmentDevice"},
	{"IfcFilter", "IfcFlowTreatmentDevice"},
	{"IfcInterceptor", "IfcFlowTreatmentDevice"},

	{"IfcBuildingElementPart", "IfcElementComponent"},
	{"IfcDiscreteAccessory", "IfcElementComponent"},
	{"IfcFastener", "IfcElementComponent"},
	{"IfcImpactProtectionDevice", "IfcElementComponent"},
	{"IfcMechanicalFastener", "IfcElementComponent"},
	{"IfcReinforcingElement", "IfcElementComponent"},
	{"IfcReinforcingBar", "IfcReinforcingElement"},
	{"IfcReinforcingMesh", "IfcReinforcingElement"},
	{"IfcTendon", "IfcReinforcingElement"},
	{"IfcTendonAnchor", "IfcReinforcingElement"},
	{"IfcTendonConduit", "IfcReinforcingElement"},
	{"IfcSign", "IfcElementComponent"},
	{"IfcVibrationDamper", "IfcElementComponent"},
	{"IfcVibrationIsolator", "IfcElementComponent"},

	{"IfcFeatureElementAddition", "IfcFeatureElement"},
	{"IfcFeatureElementSubtraction", "IfcFeatureElement"},
	{"IfcSurfaceFeature", "IfcFeatureElement"},
	{"IfcProjectionElement", "IfcFeatureElementAddition"},
	{"IfcOpeningElement", "IfcFeatureElementSubtraction"},
	{"IfcOpeningStandardCase", "IfcOpeningElement"},
	{"IfcVoidingFeature", "IfcFeatureElementSubtraction"},
	{"IfcEdgeFeature", "IfcFeatureElementSubtraction"},
	{"IfcChamferEdgeFeature", "IfcEdgeFeature"},
	{"IfcRoundedEdgeFeature", "IfcEdgeFeature"},

	{"IfcFurniture", "IfcFurnishingElement"},
	{"IfcSystemFurnitureElement", "IfcFurnishingElement"},
}

// elementTypes lists IfcElementType subtypes. None adds attributes read here.
var elementTypes = []string{
	"IfcBeamType", "IfcBuildingElementPartType", "IfcBuildingElementProxyType",
	"IfcChimneyType", "IfcColumnType", "IfcCoveringType", "IfcCurtainWallType",
	"IfcDoorType", "IfcFootingType", "IfcMemberType", "IfcPileType",
	"IfcPlateType", "IfcRailingType", "IfcRampFlightType", "IfcRampType",
	"IfcReinforcingBarType", "IfcReinforcingMeshType", "IfcRoofType",
	"IfcShadingDeviceType", "IfcSlabType", "IfcStairFlightType", "IfcStairType",
	"IfcWallType", "IfcWindowType", "IfcFurnitureType", "IfcFurnishingElementType",
	"IfcSystemFurnitureElementType", "IfcDuctSegmentType", "IfcDuctFittingType",
	"IfcPipeSegmentType", "IfcPipeFittingType", "IfcAirTerminalType",
	"IfcCableCarrierSegmentType", "IfcCableSegmentType", "IfcLightFixtureType",
	"IfcSanitaryTerminalType", "IfcValveType", "IfcPumpType", "IfcTankType",
	"IfcDiscreteAccessoryType", "IfcMechanicalFastenerType", "IfcFastenerType",
	"IfcElementAssemblyType", "IfcTransportElementType", "IfcCivilElementType",
	"IfcGeographicElementType", "IfcSpaceHeaterType", "IfcElectricApplianceType",
	"IfcOutletType", "IfcSwitchingDeviceType", "IfcDamperType", "IfcFanType",
	"IfcBoilerType", "IfcChillerType", "IfcCoilType", "IfcSensorType",
	"IfcActuatorType", "IfcControllerType", "IfcAlarmType",
}

func buildSchema(name string, decls ...[]decl) *schema {
	raw := make(map[string]decl)
	for _, group := range decls {
		for _, d := range group {
			raw[strings.ToUpper(d.name)] = d
		}
	}
	for _, pair := range elementHierarchy {
		raw[strings.ToUpper(pair[0])] = decl{name: pair[0], parent: pair[1]}
	}
	for _, n := range elementTypes {
		raw[strings.ToUpper(n)] = decl{name: n, parent: "IfcElementType"}
	}

	s := &schema{name: name, entities: make(map[string]*entityDef, len(raw))}
	var resolve func(upper string) *entityDef
	resolve = func(upper string) *entityDef {
		if d, ok := s.entities[upper]; ok {
			return d
		}
		d, ok := raw[upper]
		if !ok {
			return nil
		}
		def := &entityDef{name: d.name, upper: upper, index: make(map[string]int)}
		var inherited int
		if d.parent != "" {
			def.parent = resolve(strings.ToUpper(d.parent))
			if def.parent != nil {
				for k, v := range def.parent.index {
					def.index[k] = v
				}
				inherited = len(def.parent.index)
			}
		}
		for i, a := range d.attrs {
			def.index[a] = inherited + i
		}
		s.entities[upper] = def
		return def
	}
	for upper := range raw {
		resolve(upper)
	}
	return s
}

var (
	schemaIFC2X3 = buildSchema(SchemaIFC2X3, coreDecls, ifc2x3Decls)
	schemaIFC4   = buildSchema(SchemaIFC4, coreDecls, ifc4Decls)
)

// schemaFor picks the attribute table for a FILE_SCHEMA identifier.
// IFC4 and its addenda (IFC4X1..IFC4X3) share the IFC4 table; unknown
// identifiers default to IFC4.
func schemaFor(ids []string) *schema {
	for _, id := range ids {
		if strings.HasPrefix(strings.ToUpper(id), SchemaIFC2X3) {
			return schemaIFC2X3
		}
	}
	return schemaIFC4
}
