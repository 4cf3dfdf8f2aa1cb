package mapper

import (
	"testing"

	"gbxml-service/internal/converter/models"
)

func TestSurfaceTypeRoundTrip(t *testing.T) {
	for s := range panelTypes {
		if got := SurfaceType(PanelTypeFromSurface(s), GBXMLTAS); got != s {
			t.Errorf("SurfaceType(PanelTypeFromSurface(%q)) = %q", s, got)
		}
	}
	for _, pt := range panelTypes {
		if got := PanelTypeFromSurface(SurfaceType(pt, GBXMLIES)); got != pt {
			t.Errorf("PanelTypeFromSurface(SurfaceType(%q)) = %q", pt, got)
		}
	}
}

func TestSurfaceTypeFallback(t *testing.T) {
	tests := []struct {
		in   models.PanelType
		want string
	}{
		{models.PanelUndefined, SurfaceAir},
		{"", SurfaceAir},
		{"Mystery", SurfaceAir},
		{models.PanelWall, "ExteriorWall"},
		{models.PanelFloor, "ExposedFloor"},
	}
	for _, tt := range tests {
		if got := SurfaceType(tt.in, GBXMLTAS); got != tt.want {
			t.Errorf("SurfaceType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := PanelTypeFromSurface("Air"); got != models.PanelUndefined {
		t.Errorf("PanelTypeFromSurface(Air) = %q", got)
	}
	if got := PanelTypeFromSurface("Nope"); got != models.PanelUndefined {
		t.Errorf("PanelTypeFromSurface(Nope) = %q", got)
	}
}

func TestOpeningTypeRoundTrip(t *testing.T) {
	for s := range openingTypesBack {
		if got := OpeningTypeString(OpeningTypeFromString(s)); got != s {
			t.Errorf("OpeningTypeString(OpeningTypeFromString(%q)) = %q", s, got)
		}
	}
	for _, ot := range openingTypesBack {
		if got := OpeningTypeFromString(OpeningTypeString(ot)); got != ot {
			t.Errorf("OpeningTypeFromString(OpeningTypeString(%q)) = %q", ot, got)
		}
	}
	if got := OpeningTypeString(models.OpeningUndefined); got != SurfaceAir {
		t.Errorf("undefined opening = %q, want Air", got)
	}
	if got := OpeningTypeString(models.OpeningCurtainWall); got != "FixedWindow" {
		t.Errorf("curtain wall = %q, want FixedWindow", got)
	}
	if got := OpeningTypeString(models.OpeningRooflightWithFrame); got != "OperableSkylight" {
		t.Errorf("framed rooflight = %q, want OperableSkylight", got)
	}
}

func TestClassifySurface(t *testing.T) {
	ext := &models.Panel{Type: models.PanelWallExternal}
	tests := []struct {
		name  string
		panel *models.Panel
		hosts int
		want  string
	}{
		{"hosted wall", ext, 1, "ExteriorWall"},
		{"shared wall", &models.Panel{Type: models.PanelWallInternal}, 2, "InteriorWall"},
		{"unhosted wall is shading", ext, 0, SurfaceShade},
		{"unhosted roof is shading", &models.Panel{Type: models.PanelRoof}, 0, SurfaceShade},
		{"untyped", &models.Panel{}, 1, SurfaceAir},
		{"nil", nil, 1, SurfaceAir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifySurface(tt.panel, tt.hosts, GBXMLTAS); got != tt.want {
				t.Errorf("ClassifySurface = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstructionID(t *testing.T) {
	tests := []struct {
		in     *models.Construction
		want   string
		wantOK bool
	}{
		{nil, "", false},
		{&models.Construction{}, "", false},
		{&models.Construction{Name: "A"}, "A", true},
		{&models.Construction{Name: "Wall"}, "W97108108", true},
		{&models.Construction{Name: "Ab 1"}, "A983249", true},
	}
	for _, tt := range tests {
		got, ok := ConstructionID(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ConstructionID(%+v) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}

	a, _ := ConstructionID(&models.Construction{Name: "Brick 215"})
	b, _ := ConstructionID(&models.Construction{Name: "Brick 215"})
	if a != b {
		t.Fatalf("identifiers differ for equal names: %q vs %q", a, b)
	}
}

func TestParseExportType(t *testing.T) {
	if ParseExportType("IES") != GBXMLIES || ParseExportType(" tas ") != GBXMLTAS || ParseExportType("other") != GBXMLTAS {
		t.Fatal("ParseExportType mismatch")
	}
}
