package mapper

import (
	"testing"
	"time"

	"gbxml-service/internal/converter/gbxml"
	"gbxml-service/internal/converter/geometry"
	"gbxml-service/internal/converter/models"
)

func pt(x, y, z float64) models.Point { return models.Point{X: x, Y: y, Z: z} }

// wall spans (x0,y0)-(x1,y1) in plan from z0 to z1.
func wall(id string, x0, y0, x1, y1, z0, z1 float64) *models.Panel {
	return &models.Panel{
		ID:       id,
		Name:     id,
		Type:     models.PanelWallExternal,
		Boundary: models.Loop{pt(x0, y0, z0), pt(x1, y1, z0), pt(x1, y1, z1), pt(x0, y0, z1)},
	}
}

func floor(id string, x0, y0, x1, y1, z float64) *models.Panel {
	return &models.Panel{
		ID:       id,
		Name:     id,
		Type:     models.PanelFloor,
		Boundary: models.Loop{pt(x0, y0, z), pt(x1, y0, z), pt(x1, y1, z), pt(x0, y1, z)},
	}
}

// fourWallRoom is a 4 x 3 x 3 room bounded by four exterior walls.
func fourWallRoom() *models.Space {
	return &models.Space{
		ID:    "room-1",
		Name:  "Room",
		Level: &models.Level{Name: "Ground", Elevation: 0},
		Panels: []*models.Panel{
			wall("south", 0, 0, 4, 0, 0, 3),
			wall("east", 4, 0, 4, 3, 0, 3),
			wall("north", 4, 3, 0, 3, 0, 3),
			wall("west", 0, 3, 0, 0, 0, 3),
		},
	}
}

// twoRooms returns unit cubes A ([0,1]) and B ([1,2]) along X. Each room has
// a floor, one outer wall and the partition at x=1. Every room carries its
// own copy of the partition recording the other room as adjacent.
func twoRooms() []*models.Space {
	partitionA := wall("partition", 1, 0, 1, 1, 0, 1)
	partitionA.Type = models.PanelWallInternal
	partitionA.AdjacentSpaces = []string{"B"}

	partitionB := wall("partition", 1, 1, 1, 0, 0, 1)
	partitionB.Type = models.PanelWallInternal
	partitionB.AdjacentSpaces = []string{"A"}

	ground := &models.Level{Name: "Ground", Elevation: 0}
	return []*models.Space{
		{
			ID: "A", Name: "A", Level: ground,
			Panels: []*models.Panel{floor("floor-a", 0, 0, 1, 1, 0), wall("west", 0, 1, 0, 0, 0, 1), partitionA},
		},
		{
			ID: "B", Name: "B", Level: ground,
			Panels: []*models.Panel{floor("floor-b", 1, 0, 2, 1, 0), wall("east", 2, 0, 2, 1, 0, 1), partitionB},
		},
	}
}

func testExporter() *Exporter {
	e := NewExporter(nil)
	e.Now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	e.NewName = func() string { return "Space-fallback" }
	return e
}

func loopOf(t *testing.T, s gbxml.Surface) models.Loop {
	t.Helper()
	loop := fromPolyLoop(s.PlanarGeometry.PolyLoop)
	if len(loop) < 3 {
		t.Fatalf("surface %s has %d points", s.ID, len(loop))
	}
	return loop
}

func surfaceByName(t *testing.T, doc *gbxml.GBXML, name string) []gbxml.Surface {
	t.Helper()
	var out []gbxml.Surface
	for _, s := range doc.Campus.Surface {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

// facesAway reports whether the loop's normal points away from p.
func facesAway(loop models.Loop, p models.Point) bool {
	c := geometry.Centre(loop)
	d := models.Point{X: c.X - p.X, Y: c.Y - p.Y, Z: c.Z - p.Z}
	n := geometry.Normal(loop)
	return n.X*d.X+n.Y*d.Y+n.Z*d.Z > 0
}
