package gbxml

import "encoding/xml"

// ============================================================
// gbXML document structures
// ============================================================

const (
	Namespace     = "http://www.gbxml.org/schema"
	SchemaVersion = "0.37"
)

type GBXML struct {
	XMLName              xml.Name        `xml:"gbXML"`
	Xmlns                string          `xml:"xmlns,attr,omitempty"`
	Version              string          `xml:"version,attr,omitempty"`
	UseSIUnitsForResults string          `xml:"useSIUnitsForResults,attr,omitempty"`
	TemperatureUnit      string          `xml:"temperatureUnit,attr,omitempty"`
	LengthUnit           string          `xml:"lengthUnit,attr,omitempty"`
	AreaUnit             string          `xml:"areaUnit,attr,omitempty"`
	VolumeUnit           string          `xml:"volumeUnit,attr,omitempty"`
	Campus               Campus          `xml:"Campus"`
	DocumentHistory      DocumentHistory `xml:"DocumentHistory"`
}

type Campus struct {
	ID       string     `xml:"id,attr"`
	Location *Location  `xml:"Location,omitempty"`
	Building []Building `xml:"Building"`
	Surface  []Surface  `xml:"Surface"`
}

type Location struct {
	Name      string `xml:"Name,omitempty"`
	Latitude  string `xml:"Latitude,omitempty"`
	Longitude string `xml:"Longitude,omitempty"`
}

type Building struct {
	ID             string           `xml:"id,attr"`
	BuildingType   string           `xml:"buildingType,attr,omitempty"`
	Name           string           `xml:"Name,omitempty"`
	Area           string           `xml:"Area,omitempty"`
	BuildingStorey []BuildingStorey `xml:"BuildingStorey"`
	Space          []Space          `xml:"Space"`
	Surface        []Surface        `xml:"Surface,omitempty"`
}

type BuildingStorey struct {
	ID    string `xml:"id,attr"`
	Name  string `xml:"Name"`
	Level string `xml:"Level"`
}

type Space struct {
	ID                  string          `xml:"id,attr"`
	BuildingStoreyIDRef string          `xml:"buildingStoreyIdRef,attr,omitempty"`
	Name                string          `xml:"Name"`
	Area                string          `xml:"Area,omitempty"`
	Volume              string          `xml:"Volume,omitempty"`
	ShellGeometry       ShellGeometry   `xml:"ShellGeometry"`
	SpaceBoundary       []SpaceBoundary `xml:"SpaceBoundary"`
}

type ShellGeometry struct {
	ID          string      `xml:"id,attr,omitempty"`
	ClosedShell ClosedShell `xml:"ClosedShell"`
}

type ClosedShell struct {
	PolyLoop []PolyLoop `xml:"PolyLoop"`
}

type SpaceBoundary struct {
	SurfaceIDRef   string         `xml:"surfaceIdRef,attr,omitempty"`
	PlanarGeometry PlanarGeometry `xml:"PlanarGeometry"`
}

type Surface struct {
	ID                  string               `xml:"id,attr"`
	SurfaceType         string               `xml:"surfaceType,attr"`
	ExposedToSun        string               `xml:"exposedToSun,attr,omitempty"`
	ConstructionIDRef   string               `xml:"constructionIdRef,attr,omitempty"`
	Name                string               `xml:"Name,omitempty"`
	CADObjectID         string               `xml:"CADObjectId,omitempty"`
	AdjacentSpaceID     []AdjacentSpaceID    `xml:"AdjacentSpaceId"`
	RectangularGeometry *RectangularGeometry `xml:"RectangularGeometry,omitempty"`
	PlanarGeometry      PlanarGeometry       `xml:"PlanarGeometry"`
	Opening             []Opening            `xml:"Opening"`
}

type AdjacentSpaceID struct {
	SpaceIDRef string `xml:"spaceIdRef,attr"`
}

type RectangularGeometry struct {
	Azimuth        string         `xml:"Azimuth"`
	CartesianPoint CartesianPoint `xml:"CartesianPoint"`
	Tilt           string         `xml:"Tilt"`
	Height         string         `xml:"Height"`
	Width          string         `xml:"Width"`
	PolyLoop       *PolyLoop      `xml:"PolyLoop,omitempty"`
}

type PlanarGeometry struct {
	ID       string   `xml:"id,attr,omitempty"`
	PolyLoop PolyLoop `xml:"PolyLoop"`
}

type Opening struct {
	ID                  string               `xml:"id,attr"`
	OpeningType         string               `xml:"openingType,attr"`
	Name                string               `xml:"Name,omitempty"`
	RectangularGeometry *RectangularGeometry `xml:"RectangularGeometry,omitempty"`
	PlanarGeometry      PlanarGeometry       `xml:"PlanarGeometry"`
}

type PolyLoop struct {
	CartesianPoint []CartesianPoint `xml:"CartesianPoint"`
}

type CartesianPoint struct {
	Coordinate []string `xml:"Coordinate"`
}

type DocumentHistory struct {
	ProgramInfo ProgramInfo `xml:"ProgramInfo"`
	CreatedBy   CreatedBy   `xml:"CreatedBy"`
}

type ProgramInfo struct {
	ID          string `xml:"id,attr"`
	ProductName string `xml:"ProductName"`
	Version     string `xml:"Version,omitempty"`
}

type CreatedBy struct {
	ProgramID  string `xml:"programId,attr"`
	Date       string `xml:"date,attr"`
	CADModelID string `xml:"CADModelId,attr,omitempty"`
}
