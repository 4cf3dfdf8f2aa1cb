package mapper

import (
	"fmt"
	"strconv"

	"gbxml-service/internal/converter/gbxml"
	"gbxml-service/internal/converter/geometry"
	"gbxml-service/internal/converter/models"
)

// ============================================================
// Surface index
// ============================================================

// surfaceIndex is the running emission state of one document: the next
// sequential surface number and the surface emitted for each panel.
type surfaceIndex struct {
	next       int
	byPanel    map[*models.Panel]string
	suppressed int
	skipped    int
}

func newSurfaceIndex() surfaceIndex {
	return surfaceIndex{byPanel: make(map[*models.Panel]string)}
}

// ============================================================
// Surface synthesis
// ============================================================

type synthesizer struct {
	normalizer geometry.Normalizer
	exportType ExportType
}

// spaceSurfaces emits the surfaces owned by one space, in panel order.
func (s synthesizer) spaceSurfaces(space *models.Space, b *batch, idx surfaceIndex) ([]gbxml.Surface, surfaceIndex, error) {
	centre := b.centre(space)
	var out []gbxml.Surface
	seen := make(map[*models.Panel]bool, len(space.Panels))

	for _, p := range space.Panels {
		if p == nil || seen[p] {
			continue
		}
		seen[p] = true
		if len(p.Boundary) < 3 {
			idx.skipped++
			continue
		}

		loop, err := s.normalise(p.Boundary, &centre)
		if err != nil {
			return nil, idx, fmt.Errorf("panel %q in space %q: %w", p.ID, space.ID, err)
		}

		adj := resolveAdjacency(p, loop, b)
		emit := adj.Emit
		twin, paired := b.twins[p]
		if paired {
			emit, err = s.twinEmits(p, adj.Emit, twin, b)
			if err != nil {
				return nil, idx, fmt.Errorf("panel %q in space %q: %w", p.ID, space.ID, err)
			}
		}
		if !emit {
			idx.suppressed++
			continue
		}
		if _, done := idx.byPanel[p]; done {
			idx.suppressed++
			continue
		}

		id := "Panel-" + strconv.Itoa(idx.next)
		srf, err := s.surface(p, id, loop, b.hosts[p], &centre)
		if err != nil {
			return nil, idx, fmt.Errorf("panel %q in space %q: %w", p.ID, space.ID, err)
		}
		srf.AdjacentSpaceID = adj.Refs

		idx.byPanel[p] = id
		if paired {
			idx.byPanel[twin] = id
		}
		idx.next++
		out = append(out, srf)
	}
	return out, idx, nil
}

// twinEmits evaluates the other copy of a partition from its own space so
// both copies agree on which one is written.
func (s synthesizer) twinEmits(p *models.Panel, emitP bool, twin *models.Panel, b *batch) (bool, error) {
	centre := b.centre(b.owners[twin])
	loop, err := s.normalise(twin.Boundary, &centre)
	if err != nil {
		return false, err
	}
	return pickTwin(p, emitP, twin, resolveAdjacency(twin, loop, b).Emit, b), nil
}

// shadingSurfaces emits panels that bound no space. Their loops keep the
// input winding since there is no inside to orient against.
func (s synthesizer) shadingSurfaces(panels []*models.Panel, idx surfaceIndex) ([]gbxml.Surface, surfaceIndex, error) {
	return s.looseSurfaces(panels, nil, idx)
}

// unassignedSurfaces emits panels the model could not place in a space.
// They keep the input winding; a panel recording spaces of the batch is
// classified by its type and references them, otherwise it is shading.
func (s synthesizer) unassignedSurfaces(panels []*models.Panel, b *batch, idx surfaceIndex) ([]gbxml.Surface, surfaceIndex, error) {
	return s.looseSurfaces(panels, b, idx)
}

func (s synthesizer) looseSurfaces(panels []*models.Panel, b *batch, idx surfaceIndex) ([]gbxml.Surface, surfaceIndex, error) {
	var out []gbxml.Surface
	for _, p := range panels {
		if p == nil {
			continue
		}
		if len(p.Boundary) < 3 {
			idx.skipped++
			continue
		}
		if _, done := idx.byPanel[p]; done {
			continue
		}
		loop, err := s.normalise(p.Boundary, nil)
		if err != nil {
			return nil, idx, fmt.Errorf("loose panel %q: %w", p.ID, err)
		}

		refs := []gbxml.AdjacentSpaceID{}
		if b != nil {
			refs = resolveAdjacency(p, loop, b).Refs
		}

		id := "Panel-" + strconv.Itoa(idx.next)
		srf, err := s.surface(p, id, loop, len(refs), nil)
		if err != nil {
			return nil, idx, fmt.Errorf("loose panel %q: %w", p.ID, err)
		}
		srf.AdjacentSpaceID = refs

		idx.byPanel[p] = id
		idx.next++
		out = append(out, srf)
	}
	return out, idx, nil
}

// surface builds the record for one panel whose loop is already normalised.
func (s synthesizer) surface(p *models.Panel, id string, loop models.Loop, hosts int, ref *models.Point) (gbxml.Surface, error) {
	surfaceType := ClassifySurface(p, hosts, s.exportType)

	srf := gbxml.Surface{
		ID:           id,
		SurfaceType:  surfaceType,
		ExposedToSun: strconv.FormatBool(ExposedToSun(surfaceType)),
		Name:         p.Name,
		CADObjectID:  cadObjectID(p),
		PlanarGeometry: gbxml.PlanarGeometry{
			ID:       "PlanarGeometry-" + id,
			PolyLoop: toPolyLoop(loop),
		},
		RectangularGeometry: rectangularGeometry(loop),
	}
	if srf.Name == "" {
		srf.Name = surfaceType
	}
	if cid, ok := ConstructionID(p.Construction); ok {
		srf.ConstructionIDRef = cid
	}

	for k, o := range p.Openings {
		if len(o.Boundary) < 3 {
			continue
		}
		oloop, err := s.normalise(o.Boundary, ref)
		if err != nil {
			return gbxml.Surface{}, fmt.Errorf("opening %q: %w", o.ID, err)
		}
		oid := fmt.Sprintf("%s-Opening-%d", id, k)
		srf.Opening = append(srf.Opening, gbxml.Opening{
			ID:                  oid,
			OpeningType:         OpeningTypeString(o.Type),
			Name:                o.Name,
			RectangularGeometry: rectangularGeometry(oloop),
			PlanarGeometry: gbxml.PlanarGeometry{
				ID:       "PlanarGeometry-" + oid,
				PolyLoop: toPolyLoop(oloop),
			},
		})
	}
	return srf, nil
}

func (s synthesizer) normalise(loop models.Loop, ref *models.Point) (models.Loop, error) {
	if ref == nil {
		if _, err := s.normalizer.Normalize(loop, geometry.Centre(loop)); err != nil {
			return nil, err
		}
		return append(models.Loop(nil), loop...), nil
	}
	return s.normalizer.Normalize(loop, *ref)
}

func rectangularGeometry(loop models.Loop) *gbxml.RectangularGeometry {
	o := geometry.Orient(loop)
	pl := toPolyLoop(loop)
	return &gbxml.RectangularGeometry{
		Azimuth:        geometry.FormatCoord(o.Azimuth),
		CartesianPoint: toCartesianPoint(geometry.Centre(loop)),
		Tilt:           geometry.FormatCoord(o.Tilt),
		Height:         geometry.FormatCoord(o.Height),
		Width:          geometry.FormatCoord(o.Width),
		PolyLoop:       &pl,
	}
}

// cadObjectID renders "<family>: <name> [<element id>]" when the panel
// carries authoring-tool metadata.
func cadObjectID(p *models.Panel) string {
	family, hasFamily := p.CustomData[models.KeyFamilyName]
	element, hasElement := p.CustomData[models.KeyRevitElementID]
	if !hasFamily && !hasElement {
		return ""
	}
	return fmt.Sprintf("%s: %s [%s]", stringify(family), p.Name, stringify(element))
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
