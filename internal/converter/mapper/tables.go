package mapper

import (
	"strconv"
	"strings"

	"gbxml-service/internal/converter/models"
)

// ============================================================
// Export type
// ============================================================

// ExportType selects the surface-type vocabulary of the target tool.
type ExportType string

const (
	GBXMLTAS ExportType = "tas"
	GBXMLIES ExportType = "ies"
)

// ParseExportType accepts "tas" and "ies" in any case; anything else falls
// back to TAS.
func ParseExportType(s string) ExportType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(GBXMLIES):
		return GBXMLIES
	default:
		return GBXMLTAS
	}
}

// ============================================================
// Surface types
// ============================================================

const (
	SurfaceAir   = "Air"
	SurfaceShade = "Shade"
)

var surfaceTypes = map[models.PanelType]string{
	models.PanelCeiling:            "Ceiling",
	models.PanelFloor:              "ExposedFloor",
	models.PanelFloorExposed:       "ExposedFloor",
	models.PanelFloorInternal:      "InteriorFloor",
	models.PanelFloorRaised:        "RaisedFloor",
	models.PanelRoof:               "Roof",
	models.PanelShade:              SurfaceShade,
	models.PanelSlabOnGrade:        "SlabOnGrade",
	models.PanelSolarPanel:         "SolarPanel",
	models.PanelUndergroundCeiling: "UndergroundCeiling",
	models.PanelUndergroundSlab:    "UndergroundSlab",
	models.PanelUndergroundWall:    "UndergroundWall",
	models.PanelWall:               "ExteriorWall",
	models.PanelWallExternal:       "ExteriorWall",
	models.PanelWallInternal:       "InteriorWall",
}

// Both supported tools currently read the same vocabulary.
var vocabularies = map[ExportType]map[models.PanelType]string{
	GBXMLTAS: surfaceTypes,
	GBXMLIES: surfaceTypes,
}

var panelTypes = map[string]models.PanelType{
	"Ceiling":            models.PanelCeiling,
	"ExposedFloor":       models.PanelFloorExposed,
	"InteriorFloor":      models.PanelFloorInternal,
	"RaisedFloor":        models.PanelFloorRaised,
	"Roof":               models.PanelRoof,
	SurfaceShade:         models.PanelShade,
	"SlabOnGrade":        models.PanelSlabOnGrade,
	"SolarPanel":         models.PanelSolarPanel,
	"UndergroundCeiling": models.PanelUndergroundCeiling,
	"UndergroundSlab":    models.PanelUndergroundSlab,
	"UndergroundWall":    models.PanelUndergroundWall,
	"ExteriorWall":       models.PanelWallExternal,
	"InteriorWall":       models.PanelWallInternal,
}

// SurfaceType maps a panel type to its gbXML surfaceType. Unknown and
// undefined types map to the adiabatic "Air".
func SurfaceType(t models.PanelType, exportType ExportType) string {
	vocab, ok := vocabularies[exportType]
	if !ok {
		vocab = surfaceTypes
	}
	if s, ok := vocab[t]; ok {
		return s
	}
	return SurfaceAir
}

// PanelTypeFromSurface is the inverse of SurfaceType for known strings.
func PanelTypeFromSurface(s string) models.PanelType {
	if t, ok := panelTypes[s]; ok {
		return t
	}
	return models.PanelUndefined
}

// ClassifySurface returns the surfaceType for a panel hosted by hostSpaces
// spaces of the current batch. A panel hosted by no space is shading.
func ClassifySurface(p *models.Panel, hostSpaces int, exportType ExportType) string {
	if p == nil {
		return SurfaceAir
	}
	if hostSpaces == 0 {
		return SurfaceShade
	}
	return SurfaceType(p.Type, exportType)
}

// ExposedToSun reports whether a surface of the given type sees the sky.
func ExposedToSun(surfaceType string) bool {
	switch surfaceType {
	case "ExteriorWall", "Roof", "ExposedFloor", "RaisedFloor", SurfaceShade, "SolarPanel":
		return true
	}
	return false
}

// ============================================================
// Opening types
// ============================================================

var openingTypes = map[models.OpeningType]string{
	models.OpeningDoor:               "NonSlidingDoor",
	models.OpeningFrame:              "Frame",
	models.OpeningGlazing:            "FixedWindow",
	models.OpeningWindow:             "FixedWindow",
	models.OpeningWindowWithFrame:    "FixedWindow",
	models.OpeningCurtainWall:        "FixedWindow",
	models.OpeningRooflight:          "OperableSkylight",
	models.OpeningRooflightWithFrame: "OperableSkylight",
	models.OpeningVehicleDoor:        "VehicleDoor",
}

var openingTypesBack = map[string]models.OpeningType{
	"NonSlidingDoor":   models.OpeningDoor,
	"Frame":            models.OpeningFrame,
	"FixedWindow":      models.OpeningWindow,
	"OperableSkylight": models.OpeningRooflight,
	"VehicleDoor":      models.OpeningVehicleDoor,
}

func OpeningTypeString(t models.OpeningType) string {
	if s, ok := openingTypes[t]; ok {
		return s
	}
	return SurfaceAir
}

func OpeningTypeFromString(s string) models.OpeningType {
	if t, ok := openingTypesBack[s]; ok {
		return t
	}
	return models.OpeningUndefined
}

// ============================================================
// Construction identifiers
// ============================================================

// ConstructionID derives an identifier from the construction name: the
// first character verbatim followed by the character codes of the rest.
// Nil constructions and empty names have no identifier.
func ConstructionID(c *models.Construction) (string, bool) {
	if c == nil || c.Name == "" {
		return "", false
	}
	runes := []rune(c.Name)

	var b strings.Builder
	b.WriteRune(runes[0])
	for _, r := range runes[1:] {
		b.WriteString(strconv.Itoa(int(r)))
	}
	return b.String(), true
}
