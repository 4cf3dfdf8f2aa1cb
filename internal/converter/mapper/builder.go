package mapper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gbxml-service/internal/converter/gbxml"
	"gbxml-service/internal/converter/geometry"
	"gbxml-service/internal/converter/models"

	"github.com/google/uuid"
)

// ============================================================
// Export detail
// ============================================================

type ExportDetail string

const (
	ExportFull             ExportDetail = "full"
	ExportBuildingShell    ExportDetail = "shell"
	ExportIndividualSpaces ExportDetail = "spaces"
)

var (
	ErrUnknownExportDetail = errors.New("unknown export detail")
	ErrNoSpaceWriter       = errors.New("individual space export needs a space writer")
)

// ParseExportDetail accepts the short names and the long
// names ("Full", "BuildingShell", "IndividualSpaces") in any case.
func ParseExportDetail(s string) (ExportDetail, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "":
		return ExportFull, nil
	case "shell", "buildingshell":
		return ExportBuildingShell, nil
	case "spaces", "individualspaces":
		return ExportIndividualSpaces, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownExportDetail, s)
}

// HistoryDateFormat is the layout of DocumentHistory/CreatedBy/@date.
const HistoryDateFormat = "2006-01-02T15:04:05"

const programID = "gbxml-service"

// SpaceWriter persists one per-space document and returns where it went.
type SpaceWriter interface {
	WriteSpace(ctx context.Context, project, spaceName string, doc *gbxml.GBXML) (string, error)
}

// ============================================================
// Results
// ============================================================

type Stats struct {
	Spaces     int `json:"spaces"`
	Surfaces   int `json:"surfaces"`
	Suppressed int `json:"suppressed"`
	Skipped    int `json:"skipped"`
}

func (s *Stats) add(o Stats) {
	s.Spaces += o.Spaces
	s.Surfaces += o.Surfaces
	s.Suppressed += o.Suppressed
	s.Skipped += o.Skipped
}

type SpaceFile struct {
	SpaceID string `json:"spaceId"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	Stats   Stats  `json:"stats"`
}

type Result struct {
	Detail   ExportDetail `json:"detail"`
	Document *gbxml.GBXML `json:"-"`
	Files    []SpaceFile  `json:"files,omitempty"`
	Stats    Stats        `json:"stats"`
}

// ============================================================
// Exporter
// ============================================================

type Exporter struct {
	Env        geometry.EnvironmentQuery
	Normalizer geometry.Normalizer
	ExportType ExportType
	Writer     SpaceWriter
	Logger     *slog.Logger
	Now        func() time.Time
	NewName    func() string
}

func NewExporter(writer SpaceWriter) *Exporter {
	return &Exporter{
		Env:        geometry.Environment{},
		ExportType: GBXMLTAS,
		Writer:     writer,
		Logger:     slog.Default(),
		Now:        time.Now,
		NewName:    fallbackSpaceName,
	}
}

func fallbackSpaceName() string {
	return "Space-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Export converts the input in the requested mode. Full and BuildingShell
// return one document; IndividualSpaces writes one document per externally
// exposed space through the Writer. An unknown mode fails before any work.
func (e *Exporter) Export(ctx context.Context, in models.Input, detail ExportDetail, project string) (*Result, error) {
	switch detail {
	case ExportFull, ExportBuildingShell, ExportIndividualSpaces:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExportDetail, detail)
	}

	docs, err := in.Resolve()
	if err != nil {
		return nil, err
	}

	switch detail {
	case ExportFull:
		return e.exportDocument(docs, ExportFull, false)
	case ExportBuildingShell:
		return e.exportDocument(docs, ExportBuildingShell, true)
	default:
		return e.exportSpaces(ctx, docs, project)
	}
}

func (e *Exporter) exportDocument(docs []*models.DocumentBuilder, detail ExportDetail, shellOnly bool) (*Result, error) {
	gbx, stats, err := e.compose(docs, shellOnly)
	if err != nil {
		return nil, err
	}
	e.Stamp(gbx)

	e.logger().Info("export_done",
		"detail", string(detail),
		"spaces", stats.Spaces,
		"surfaces", stats.Surfaces,
		"suppressed", stats.Suppressed,
	)
	return &Result{Detail: detail, Document: gbx, Stats: stats}, nil
}

func (e *Exporter) exportSpaces(ctx context.Context, docs []*models.DocumentBuilder, project string) (*Result, error) {
	if e.Writer == nil {
		return nil, ErrNoSpaceWriter
	}
	res := &Result{Detail: ExportIndividualSpaces}
	names := newNameSet(e.Writer, project)

	for _, d := range docs {
		b := newBatch(d.Spaces, e.env())
		for _, s := range b.spaces {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !hasExternalPanel(s, b) {
				continue
			}

			name, ok := s.SpaceName()
			if !ok {
				name = e.newName()
			}
			name = names.claim(name)

			single := &models.DocumentBuilder{Name: d.Name, Spaces: []*models.Space{s}}
			gbx, stats, err := e.compose([]*models.DocumentBuilder{single}, false)
			if err != nil {
				return nil, err
			}
			e.Stamp(gbx)

			path, err := e.Writer.WriteSpace(ctx, project, name, gbx)
			if err != nil {
				return nil, fmt.Errorf("write space %q: %w", name, err)
			}
			e.logger().Debug("space_written", "space", s.ID, "name", name, "path", path)

			res.Files = append(res.Files, SpaceFile{SpaceID: s.ID, Name: name, Path: path, Stats: stats})
			res.Stats.add(stats)
		}
	}

	e.logger().Info("export_done",
		"detail", string(ExportIndividualSpaces),
		"files", len(res.Files),
		"surfaces", res.Stats.Surfaces,
	)
	return res, nil
}

// compose builds the campus for a set of document builders. Surfaces are
// numbered in traversal order: space order, then panel order, then shading.
func (e *Exporter) compose(docs []*models.DocumentBuilder, shellOnly bool) (*gbxml.GBXML, Stats, error) {
	env := e.env()
	synth := synthesizer{normalizer: e.Normalizer, exportType: e.exportType()}
	asm := assembler{env: env, normalizer: e.Normalizer}

	type part struct {
		doc    *models.DocumentBuilder
		spaces []*models.Space
		origin map[*models.Space]*models.Space
	}
	parts := make([]part, 0, len(docs))
	var allSpaces []*models.Space
	var declared []*models.Level
	for _, d := range docs {
		pt := part{doc: d, spaces: d.Spaces}
		if shellOnly {
			pt.spaces, pt.origin = externalSpaces(d.Spaces, env)
		}
		parts = append(parts, pt)
		allSpaces = append(allSpaces, pt.spaces...)
		declared = append(declared, d.Levels...)
	}

	gbx := gbxml.New()
	storeys, storeyIDs := buildStoreys(spaceLevels(allSpaces, declared))
	building := gbxml.Building{
		ID:             "Building-1",
		BuildingType:   "Unknown",
		BuildingStorey: storeys,
	}

	var stats Stats
	var floorArea float64
	idx := newSurfaceIndex()
	taken := make(map[string]bool)

	for _, pt := range parts {
		if building.Name == "" {
			building.Name = pt.doc.Name
		}
		b := newBatchFrom(pt.spaces, pt.origin, env, taken)

		for _, s := range b.spaces {
			surfaces, next, err := synth.spaceSurfaces(s, b, idx)
			if err != nil {
				return nil, Stats{}, err
			}
			idx = next
			gbx.Campus.Surface = append(gbx.Campus.Surface, surfaces...)
		}

		shading, next, err := synth.shadingSurfaces(pt.doc.Shading, idx)
		if err != nil {
			return nil, Stats{}, err
		}
		idx = next
		gbx.Campus.Surface = append(gbx.Campus.Surface, shading...)

		if !shellOnly {
			loose, next, err := synth.unassignedSurfaces(pt.doc.Unassigned, b, idx)
			if err != nil {
				return nil, Stats{}, err
			}
			idx = next
			gbx.Campus.Surface = append(gbx.Campus.Surface, loose...)
		}

		for _, s := range b.spaces {
			xs, err := asm.space(s, b, idx, storeyIDs)
			if err != nil {
				return nil, Stats{}, err
			}
			building.Space = append(building.Space, xs)
			floorArea += env.FloorArea(b.source(s))
			stats.Spaces++
		}
	}

	building.Area = geometry.FormatCoord(floorArea)
	gbx.Campus.Building = []gbxml.Building{building}

	stats.Surfaces = idx.next
	stats.Suppressed = idx.suppressed
	stats.Skipped = idx.skipped
	return gbx, stats, nil
}

// Stamp writes the document history with the current time. Every export
// call stamps its own document.
func (e *Exporter) Stamp(gbx *gbxml.GBXML) {
	gbx.DocumentHistory = gbxml.DocumentHistory{
		ProgramInfo: gbxml.ProgramInfo{ID: programID, ProductName: programID},
		CreatedBy: gbxml.CreatedBy{
			ProgramID: programID,
			Date:      e.now().Format(HistoryDateFormat),
		},
	}
}

// ============================================================
// External elements
// ============================================================

func hasExternalPanel(s *models.Space, b *batch) bool {
	for _, p := range s.Panels {
		if p != nil && b.external(p, s) {
			return true
		}
	}
	return false
}

// externalSpaces keeps, for every space, only its externally exposed panels
// and drops spaces left with none. The input spaces are not modified; the
// returned map links each view back to its full space.
func externalSpaces(spaces []*models.Space, env geometry.EnvironmentQuery) ([]*models.Space, map[*models.Space]*models.Space) {
	b := newBatch(spaces, env)
	var out []*models.Space
	origin := make(map[*models.Space]*models.Space)
	for _, s := range b.spaces {
		var panels []*models.Panel
		for _, p := range s.Panels {
			if p != nil && b.external(p, s) {
				panels = append(panels, p)
			}
		}
		if len(panels) == 0 {
			continue
		}
		view := &models.Space{
			ID:         s.ID,
			Name:       s.Name,
			Level:      s.Level,
			Panels:     panels,
			CustomData: s.CustomData,
		}
		origin[view] = s
		out = append(out, view)
	}
	return out, origin
}

// ============================================================
// Per-space file names
// ============================================================

// spacePather is implemented by writers that can say where a name lands.
type spacePather interface {
	SpacePath(project, spaceName string) string
}

// nameSet hands out per-space file names that do not collide within one
// export. Names are compared by destination when the writer exposes it,
// so two names that map to one file are told apart too.
type nameSet struct {
	pather  spacePather
	project string
	used    map[string]bool
}

func newNameSet(w SpaceWriter, project string) *nameSet {
	ns := &nameSet{project: project, used: make(map[string]bool)}
	if p, ok := w.(spacePather); ok {
		ns.pather = p
	}
	return ns
}

func (ns *nameSet) key(name string) string {
	if ns.pather != nil {
		name = ns.pather.SpacePath(ns.project, name)
	}
	return strings.ToLower(name)
}

func (ns *nameSet) claim(name string) string {
	out := name
	for n := 2; ns.used[ns.key(out)]; n++ {
		out = fmt.Sprintf("%s-%d", name, n)
	}
	ns.used[ns.key(out)] = true
	return out
}

// ============================================================
// Defaults
// ============================================================

func (e *Exporter) env() geometry.EnvironmentQuery {
	if e.Env == nil {
		return geometry.Environment{}
	}
	return e.Env
}

func (e *Exporter) exportType() ExportType {
	if e.ExportType == "" {
		return GBXMLTAS
	}
	return e.ExportType
}

func (e *Exporter) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e *Exporter) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Exporter) newName() string {
	if e.NewName == nil {
		return fallbackSpaceName()
	}
	return e.NewName()
}
