package models

// ============================================================
// Structural clone
// ============================================================

// Clone returns a deep copy of the document builder. Panel and level sharing
// between spaces is preserved: a *Panel referenced by two spaces in the
// source is a single *Panel referenced by the same two spaces in the copy.
func (d *DocumentBuilder) Clone() *DocumentBuilder {
	if d == nil {
		return nil
	}
	c := cloner{
		panels: make(map[*Panel]*Panel),
		levels: make(map[*Level]*Level),
	}

	out := &DocumentBuilder{Name: d.Name}
	for _, s := range d.Spaces {
		out.Spaces = append(out.Spaces, c.space(s))
	}
	for _, l := range d.Levels {
		out.Levels = append(out.Levels, c.level(l))
	}
	for _, p := range d.Shading {
		out.Shading = append(out.Shading, c.panel(p))
	}
	for _, p := range d.Unassigned {
		out.Unassigned = append(out.Unassigned, c.panel(p))
	}
	return out
}

type cloner struct {
	panels map[*Panel]*Panel
	levels map[*Level]*Level
}

func (c *cloner) space(s *Space) *Space {
	if s == nil {
		return nil
	}
	out := &Space{
		ID:         s.ID,
		Name:       s.Name,
		Level:      c.level(s.Level),
		CustomData: cloneData(s.CustomData),
	}
	for _, p := range s.Panels {
		out.Panels = append(out.Panels, c.panel(p))
	}
	return out
}

func (c *cloner) level(l *Level) *Level {
	if l == nil {
		return nil
	}
	if done, ok := c.levels[l]; ok {
		return done
	}
	cp := *l
	c.levels[l] = &cp
	return &cp
}

func (c *cloner) panel(p *Panel) *Panel {
	if p == nil {
		return nil
	}
	if done, ok := c.panels[p]; ok {
		return done
	}
	out := &Panel{
		ID:             p.ID,
		Name:           p.Name,
		Type:           p.Type,
		Boundary:       append(Loop(nil), p.Boundary...),
		AdjacentSpaces: append([]string(nil), p.AdjacentSpaces...),
		CustomData:     cloneData(p.CustomData),
	}
	if p.Construction != nil {
		cons := *p.Construction
		out.Construction = &cons
	}
	for _, o := range p.Openings {
		out.Openings = append(out.Openings, Opening{
			ID:         o.ID,
			Name:       o.Name,
			Type:       o.Type,
			Boundary:   append(Loop(nil), o.Boundary...),
			CustomData: cloneData(o.CustomData),
		})
	}
	c.panels[p] = out
	return out
}

func cloneData(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = cloneValue(v)
	}
	return cp
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneData(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
