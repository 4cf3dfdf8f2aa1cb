package mapper

import (
	"fmt"

	"gbxml-service/internal/converter/gbxml"
	"gbxml-service/internal/converter/geometry"
	"gbxml-service/internal/converter/models"
)

// ============================================================
// Space assembly
// ============================================================

// minShellLoops is the fewest valid loops an emitted shell may have.
const minShellLoops = 3

type assembler struct {
	env        geometry.EnvironmentQuery
	normalizer geometry.Normalizer
}

// space builds the Space record. Every valid panel loop is normalised against
// the space centre and appears both in the closed shell and as a space
// boundary referencing the surface emitted for that panel. A shell with
// fewer than three valid loops is emitted empty.
func (a assembler) space(s *models.Space, b *batch, idx surfaceIndex, storeys storeyIndex) (gbxml.Space, error) {
	centre := b.centre(s)
	id := b.spaceID(s)
	full := b.source(s)

	out := gbxml.Space{
		ID:            id,
		Name:          s.Name,
		Area:          geometry.FormatCoord(a.env.FloorArea(full)),
		Volume:        geometry.FormatCoord(a.env.Volume(full)),
		ShellGeometry: gbxml.ShellGeometry{ID: "ShellGeometry-" + id},
		SpaceBoundary: []gbxml.SpaceBoundary{},
	}
	if out.Name == "" {
		out.Name = s.ID
	}
	if s.Level != nil {
		out.BuildingStoreyIDRef = storeys.ref(s.Level)
	}

	var loops []gbxml.PolyLoop
	var bounds []gbxml.SpaceBoundary
	for _, p := range s.Panels {
		if p == nil || len(p.Boundary) < 3 {
			continue
		}
		loop, err := a.normalizer.Normalize(p.Boundary, centre)
		if err != nil {
			return gbxml.Space{}, fmt.Errorf("space %q panel %q: %w", s.ID, p.ID, err)
		}
		pl := toPolyLoop(loop)
		loops = append(loops, pl)
		bounds = append(bounds, gbxml.SpaceBoundary{
			SurfaceIDRef:   idx.byPanel[p],
			PlanarGeometry: gbxml.PlanarGeometry{PolyLoop: pl},
		})
	}

	if len(loops) < minShellLoops {
		return out, nil
	}
	out.ShellGeometry.ClosedShell.PolyLoop = loops
	out.SpaceBoundary = bounds
	return out, nil
}
