package models

import (
	"errors"
	"fmt"
)

// ============================================================
// Export input
// ============================================================

type InputKind string

const (
	KindBuilding  InputKind = "building"
	KindSpaceList InputKind = "spaces"
	KindDocuments InputKind = "documents"
)

var ErrUnknownInputKind = errors.New("unknown input kind")

// Input is the closed set of objects an export accepts. Exactly one of the
// payload fields is read, selected by Kind.
type Input struct {
	Kind      InputKind          `json:"kind"`
	Name      string             `json:"name,omitempty"`
	Buildings []*Building        `json:"buildings,omitempty"`
	Spaces    []*Space           `json:"spaces,omitempty"`
	Documents []*DocumentBuilder `json:"documents,omitempty"`
}

// Resolve turns the input into document builders once, at the entry
// point. Each builder is a structural copy, so nothing done to it reaches
// the caller's objects. Panels that share an ID inside one copy are linked
// to a single instance so a partition listed under two spaces stays one
// partition.
func (in Input) Resolve() ([]*DocumentBuilder, error) {
	var docs []*DocumentBuilder

	switch in.Kind {
	case KindBuilding:
		for _, b := range in.Buildings {
			if b == nil {
				continue
			}
			docs = append(docs, &DocumentBuilder{Name: b.Name, Spaces: b.Spaces})
		}
	case KindSpaceList:
		docs = append(docs, &DocumentBuilder{Name: in.Name, Spaces: in.Spaces})
	case KindDocuments:
		for _, d := range in.Documents {
			if d != nil {
				docs = append(docs, d)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownInputKind, in.Kind)
	}

	for i, d := range docs {
		docs[i] = d.Clone()
		docs[i].link()
	}
	return docs, nil
}

func (d *DocumentBuilder) link() {
	seen := make(map[string]*Panel)
	for _, s := range d.Spaces {
		if s == nil {
			continue
		}
		for i, p := range s.Panels {
			if p == nil || p.ID == "" {
				continue
			}
			if first, ok := seen[p.ID]; ok {
				s.Panels[i] = first
				continue
			}
			seen[p.ID] = p
		}
	}
}
