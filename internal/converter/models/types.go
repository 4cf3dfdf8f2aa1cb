package models

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Loop is an ordered, implicitly closed sequence of points.
type Loop []Point

// NewLoop copies points into a Loop, dropping a repeated closing point.
func NewLoop(points ...Point) Loop {
	if len(points) > 1 && points[0] == points[len(points)-1] {
		points = points[:len(points)-1]
	}
	out := make(Loop, len(points))
	copy(out, points)
	return out
}

// Reversed returns a copy of the loop with the point order flipped.
func (l Loop) Reversed() Loop {
	out := make(Loop, len(l))
	for i, p := range l {
		out[len(l)-1-i] = p
	}
	return out
}

// ============================================================
// Building elements
// ============================================================

type Construction struct {
	Name string `json:"name"`
}

type Opening struct {
	ID         string         `json:"id"`
	Name       string         `json:"name,omitempty"`
	Type       OpeningType    `json:"type"`
	Boundary   Loop           `json:"boundary"`
	CustomData map[string]any `json:"customData,omitempty"`
}

// Panel is a planar boundary element. AdjacentSpaces lists, in insertion
// order, the identifiers of the spaces the panel was recorded against; the
// first entry decides which side emits a shared partition.
type Panel struct {
	ID             string         `json:"id"`
	Name           string         `json:"name,omitempty"`
	Type           PanelType      `json:"type"`
	Boundary       Loop           `json:"boundary"`
	Openings       []Opening      `json:"openings,omitempty"`
	AdjacentSpaces []string       `json:"adjacentSpaces,omitempty"`
	Construction   *Construction  `json:"construction,omitempty"`
	CustomData     map[string]any `json:"customData,omitempty"`
}

type Level struct {
	Name      string  `json:"name"`
	Elevation float64 `json:"elevation"`
}

// Space is an enclosed volume. A partition shared with another space is the
// same *Panel referenced from both spaces.
type Space struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Level      *Level         `json:"level,omitempty"`
	Panels     []*Panel       `json:"panels"`
	CustomData map[string]any `json:"customData,omitempty"`
}

// SpaceName returns the custom "space name" metadata if one was recorded.
func (s *Space) SpaceName() (string, bool) {
	if name, ok := customSpaceName(s.CustomData); ok {
		return name, true
	}
	for _, p := range s.Panels {
		if p == nil {
			continue
		}
		if name, ok := customSpaceName(p.CustomData); ok {
			return name, true
		}
	}
	return "", false
}

func customSpaceName(data map[string]any) (string, bool) {
	raw, ok := data[KeySpaceCustomData]
	if !ok {
		return "", false
	}
	fields, ok := raw.(map[string]any)
	if !ok {
		return "", false
	}
	name, ok := fields[KeySAMSpaceName].(string)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// ============================================================
// Containers
// ============================================================

type Building struct {
	Name   string   `json:"name"`
	Spaces []*Space `json:"spaces"`
}

// DocumentBuilder groups everything that goes into one gbXML document.
type DocumentBuilder struct {
	Name       string   `json:"name"`
	Spaces     []*Space `json:"spaces"`
	Levels     []*Level `json:"levels,omitempty"`
	Shading    []*Panel `json:"shading,omitempty"`
	Unassigned []*Panel `json:"unassigned,omitempty"`
}

// ============================================================
// Custom data keys
// ============================================================

const (
	KeyRevitElementID  = "Revit_elementId"
	KeyFamilyName      = "Family Name"
	KeySpaceCustomData = "Space_Custom_Data"
	KeySAMSpaceName    = "SAM_SpaceName"
	KeyGBXMLID         = "gbXML-ID"
)
