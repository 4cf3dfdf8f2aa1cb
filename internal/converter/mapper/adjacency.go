package mapper

import (
	"sort"
	"strconv"
	"strings"

	"gbxml-service/internal/converter/gbxml"
	"gbxml-service/internal/converter/geometry"
	"gbxml-service/internal/converter/models"
)

// ============================================================
// Batch
// ============================================================

// batch is the set of spaces exported together. Adjacent-space identifiers
// only resolve against spaces of the same batch.
type batch struct {
	spaces  []*models.Space
	byID    map[string]*models.Space
	order   map[*models.Space]int
	origin  map[*models.Space]*models.Space
	centres map[*models.Space]models.Point
	ids     map[*models.Space]string
	hosts   map[*models.Panel]int
	owners  map[*models.Panel]*models.Space
	twins   map[*models.Panel]*models.Panel
}

func newBatch(spaces []*models.Space, env geometry.EnvironmentQuery) *batch {
	return newBatchFrom(spaces, nil, env, nil)
}

// newBatchFrom builds a batch whose spaces may be filtered views of other
// spaces. origin maps a view to its full space; centres, areas and volumes
// are taken from the full space so a view keeps the same inside. Document
// ids already in taken are not reused, and the ids assigned here are added.
func newBatchFrom(spaces []*models.Space, origin map[*models.Space]*models.Space, env geometry.EnvironmentQuery, taken map[string]bool) *batch {
	if taken == nil {
		taken = make(map[string]bool)
	}
	b := &batch{
		byID:    make(map[string]*models.Space, len(spaces)),
		order:   make(map[*models.Space]int, len(spaces)),
		origin:  origin,
		centres: make(map[*models.Space]models.Point, len(spaces)),
		ids:     make(map[*models.Space]string, len(spaces)),
		hosts:   make(map[*models.Panel]int),
		owners:  make(map[*models.Panel]*models.Space),
		twins:   make(map[*models.Panel]*models.Panel),
	}
	for _, s := range spaces {
		if s == nil {
			continue
		}
		b.order[s] = len(b.spaces)
		b.spaces = append(b.spaces, s)
		if _, ok := b.byID[s.ID]; !ok && s.ID != "" {
			b.byID[s.ID] = s
		}
		b.centres[s] = env.Centre(b.source(s))
		b.ids[s] = uniqueID(documentID(s), taken)

		counted := make(map[*models.Panel]bool, len(s.Panels))
		for _, p := range s.Panels {
			if p == nil || counted[p] {
				continue
			}
			counted[p] = true
			b.hosts[p]++
			if _, ok := b.owners[p]; !ok {
				b.owners[p] = s
			}
		}
	}
	b.pairTwins()
	return b
}

// source is the full space behind s.
func (b *batch) source(s *models.Space) *models.Space {
	if o, ok := b.origin[s]; ok && o != nil {
		return o
	}
	return s
}

// lookup resolves a space identifier, falling back to the space name.
func (b *batch) lookup(id string) (*models.Space, bool) {
	if s, ok := b.byID[id]; ok {
		return s, true
	}
	for _, s := range b.spaces {
		if s.Name != "" && s.Name == id {
			return s, true
		}
	}
	return nil, false
}

func (b *batch) centre(s *models.Space) models.Point {
	return b.centres[s]
}

// spaceID is the document identifier of a space. Adjacency references use
// it so they resolve against the emitted Space records.
func (b *batch) spaceID(s *models.Space) string {
	if id, ok := b.ids[s]; ok {
		return id
	}
	return documentID(s)
}

// external reports whether the panel is exposed to the outside from owner:
// no other space of the batch shares it or is recorded as its neighbour.
func (b *batch) external(p *models.Panel, owner *models.Space) bool {
	if b.hosts[p] > 1 {
		return false
	}
	for _, id := range p.AdjacentSpaces {
		if s, ok := b.lookup(id); ok && s != owner {
			return false
		}
	}
	return true
}

func documentID(s *models.Space) string {
	if s.Name != "" {
		return "Space-" + s.Name
	}
	return "Space-" + s.ID
}

func uniqueID(id string, taken map[string]bool) string {
	out := id
	for n := 2; taken[out]; n++ {
		out = id + "-" + strconv.Itoa(n)
	}
	taken[out] = true
	return out
}

// ============================================================
// Partition twins
// ============================================================

// pairTwins links separate copies of one partition: two panels hosted by
// different spaces with the same vertex set, where at least one copy records
// the other's space as adjacent. Groups of more than two are left alone.
func (b *batch) pairTwins() {
	groups := make(map[string][]*models.Panel)
	var keys []string
	for _, s := range b.spaces {
		for _, p := range s.Panels {
			if p == nil || b.hosts[p] != 1 || b.owners[p] != s || len(p.Boundary) < 3 {
				continue
			}
			k := vertexKey(p.Boundary)
			if _, ok := groups[k]; !ok {
				keys = append(keys, k)
			}
			groups[k] = append(groups[k], p)
		}
	}
	for _, k := range keys {
		g := groups[k]
		if len(g) != 2 {
			continue
		}
		p, q := g[0], g[1]
		if b.owners[p] == b.owners[q] {
			continue
		}
		if !b.records(p, b.owners[q]) && !b.records(q, b.owners[p]) {
			continue
		}
		b.twins[p] = q
		b.twins[q] = p
	}
}

func (b *batch) records(p *models.Panel, s *models.Space) bool {
	for _, id := range p.AdjacentSpaces {
		if got, ok := b.lookup(id); ok && got == s {
			return true
		}
	}
	return false
}

// vertexKey identifies a loop by its rounded vertices regardless of order.
func vertexKey(loop models.Loop) string {
	pts := make([]string, 0, len(loop))
	for _, p := range loop {
		pts = append(pts, strings.Join(geometry.FormatPoint(p), ","))
	}
	sort.Strings(pts)
	return strings.Join(pts, ";")
}

// ============================================================
// Adjacency resolution
// ============================================================

// Adjacency is the outcome of resolving one panel seen from one space.
type Adjacency struct {
	Emit bool
	Refs []gbxml.AdjacentSpaceID
}

// resolveAdjacency decides whether the panel, already normalised against its
// owning space, is emitted from this traversal. The first recorded adjacent
// space is the tie-break side: the surface is emitted only when its boundary
// is not clockwise relative to that space's centre, so a partition shared by
// two spaces is emitted from exactly one of them. A panel with no recorded
// adjacency, or whose first identifier is outside the batch, is exterior and
// always emitted. Unresolvable identifiers produce no reference.
func resolveAdjacency(p *models.Panel, normalised models.Loop, b *batch) Adjacency {
	adj := Adjacency{Refs: []gbxml.AdjacentSpaceID{}}
	for _, id := range p.AdjacentSpaces {
		if s, ok := b.lookup(id); ok {
			adj.Refs = append(adj.Refs, gbxml.AdjacentSpaceID{SpaceIDRef: b.spaceID(s)})
		}
	}

	if len(p.AdjacentSpaces) == 0 {
		adj.Emit = true
		return adj
	}
	first, ok := b.lookup(p.AdjacentSpaces[0])
	if !ok {
		adj.Emit = true
		return adj
	}
	adj.Emit = !geometry.IsClockwise(normalised, b.centre(first))
	return adj
}

// pickTwin settles which copy of a partition pair is written. When exactly
// one copy passes the winding test that copy wins; otherwise the copy owned
// by the earlier space does. Both copies reach the same answer.
func pickTwin(p *models.Panel, emitP bool, q *models.Panel, emitQ bool, b *batch) bool {
	if emitP != emitQ {
		return emitP
	}
	return b.order[b.owners[p]] < b.order[b.owners[q]]
}
