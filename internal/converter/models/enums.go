package models

type PanelType string

const (
	PanelUndefined          PanelType = "Undefined"
	PanelCeiling            PanelType = "Ceiling"
	PanelFloor              PanelType = "Floor"
	PanelFloorExposed       PanelType = "FloorExposed"
	PanelFloorInternal      PanelType = "FloorInternal"
	PanelFloorRaised        PanelType = "FloorRaised"
	PanelRoof               PanelType = "Roof"
	PanelShade              PanelType = "Shade"
	PanelSlabOnGrade        PanelType = "SlabOnGrade"
	PanelSolarPanel         PanelType = "SolarPanel"
	PanelUndergroundCeiling PanelType = "UndergroundCeiling"
	PanelUndergroundSlab    PanelType = "UndergroundSlab"
	PanelUndergroundWall    PanelType = "UndergroundWall"
	PanelWall               PanelType = "Wall"
	PanelWallExternal       PanelType = "WallExternal"
	PanelWallInternal       PanelType = "WallInternal"
)

// IsFloor reports whether the panel type bounds a space from below.
func (t PanelType) IsFloor() bool {
	switch t {
	case PanelFloor, PanelFloorExposed, PanelFloorInternal, PanelFloorRaised,
		PanelSlabOnGrade, PanelUndergroundSlab:
		return true
	}
	return false
}

type OpeningType string

const (
	OpeningUndefined          OpeningType = "Undefined"
	OpeningDoor               OpeningType = "Door"
	OpeningFrame              OpeningType = "Frame"
	OpeningGlazing            OpeningType = "Glazing"
	OpeningWindow             OpeningType = "Window"
	OpeningWindowWithFrame    OpeningType = "WindowWithFrame"
	OpeningCurtainWall        OpeningType = "CurtainWall"
	OpeningRooflight          OpeningType = "Rooflight"
	OpeningRooflightWithFrame OpeningType = "RooflightWithFrame"
	OpeningVehicleDoor        OpeningType = "VehicleDoor"
)
