package mapper

import (
	"strconv"

	"gbxml-service/internal/converter/gbxml"
	"gbxml-service/internal/converter/models"

	"github.com/google/uuid"
)

// ============================================================
// Inverse reconstruction
// ============================================================

const (
	// minReadLoops is the fewest shell loops a space needs to be expanded.
	minReadLoops  = 4
	minLoopPoints = 3
)

// Reconstruction is the internal model recovered from a document. Panel
// types and adjacency are not recovered.
type Reconstruction struct {
	Name   string          `json:"name"`
	Panels []*models.Panel `json:"panels"`
	Spaces []*models.Space `json:"spaces"`
	Levels []*models.Level `json:"levels,omitempty"`
}

// Reconstruct reads surfaces and spaces back from a gbXML document. Every
// recovered element keeps its document identifier under the gbXML-ID custom
// data key. Malformed geometry is skipped, never fatal.
func Reconstruct(doc *gbxml.GBXML) *Reconstruction {
	r := &Reconstruction{Panels: []*models.Panel{}, Spaces: []*models.Space{}}
	if doc == nil {
		return r
	}

	for _, srf := range doc.Campus.Surface {
		if p, ok := readSurface(srf); ok {
			r.Panels = append(r.Panels, p)
		}
	}

	for _, b := range doc.Campus.Building {
		if r.Name == "" {
			r.Name = b.Name
		}
		for _, srf := range b.Surface {
			if p, ok := readSurface(srf); ok {
				r.Panels = append(r.Panels, p)
			}
		}

		levels := make(map[string]*models.Level, len(b.BuildingStorey))
		for _, st := range b.BuildingStorey {
			elevation, _ := strconv.ParseFloat(st.Level, 64)
			l := &models.Level{Name: st.Name, Elevation: elevation}
			levels[st.ID] = l
			r.Levels = append(r.Levels, l)
		}

		for _, xs := range b.Space {
			r.Spaces = append(r.Spaces, readSpace(xs, levels))
		}
	}
	return r
}

// Document wraps the reconstruction as a single document builder so it can
// be exported again.
func (r *Reconstruction) Document() *models.DocumentBuilder {
	return &models.DocumentBuilder{Name: r.Name, Spaces: r.Spaces, Levels: r.Levels}
}

func readSurface(srf gbxml.Surface) (*models.Panel, bool) {
	boundary := fromPolyLoop(srf.PlanarGeometry.PolyLoop)
	if len(boundary) < minLoopPoints {
		return nil, false
	}

	p := &models.Panel{
		ID:         uuid.NewString(),
		Name:       srf.Name,
		Type:       models.PanelUndefined,
		Boundary:   boundary,
		CustomData: map[string]any{models.KeyGBXMLID: srf.ID},
	}
	for _, o := range srf.Opening {
		loop := fromPolyLoop(o.PlanarGeometry.PolyLoop)
		if len(loop) < minLoopPoints {
			continue
		}
		p.Openings = append(p.Openings, models.Opening{
			ID:         uuid.NewString(),
			Name:       o.Name,
			Type:       OpeningTypeFromString(o.OpeningType),
			Boundary:   loop,
			CustomData: map[string]any{models.KeyGBXMLID: o.ID},
		})
	}
	return p, true
}

func readSpace(xs gbxml.Space, levels map[string]*models.Level) *models.Space {
	s := &models.Space{
		ID:         uuid.NewString(),
		Name:       xs.Name,
		Level:      levels[xs.BuildingStoreyIDRef],
		Panels:     []*models.Panel{},
		CustomData: map[string]any{models.KeyGBXMLID: xs.ID},
	}

	loops := xs.ShellGeometry.ClosedShell.PolyLoop
	if len(loops) < minReadLoops {
		return s
	}
	for _, pl := range loops {
		if len(pl.CartesianPoint) < minLoopPoints {
			continue
		}
		boundary := fromPolyLoop(pl)
		if len(boundary) < minLoopPoints {
			continue
		}
		s.Panels = append(s.Panels, &models.Panel{
			ID:       uuid.NewString(),
			Type:     models.PanelUndefined,
			Boundary: boundary,
		})
	}
	return s
}
