package mapper

import (
	"strings"

	"gbxml-service/internal/converter/gbxml"
	"gbxml-service/internal/converter/geometry"
	"gbxml-service/internal/converter/models"
)

// ============================================================
// Level deduplication
// ============================================================

// levelKey compares names ignoring case and surrounding or repeated
// whitespace.
func levelKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// DistinctLevels returns one level per name, in order of first appearance.
func DistinctLevels(levels []*models.Level) []*models.Level {
	seen := make(map[string]bool, len(levels))
	var out []*models.Level
	for _, l := range levels {
		if l == nil {
			continue
		}
		key := levelKey(l.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}

// spaceLevels collects the levels of the spaces, followed by any declared
// levels no space refers to.
func spaceLevels(spaces []*models.Space, declared []*models.Level) []*models.Level {
	var all []*models.Level
	for _, s := range spaces {
		if s != nil && s.Level != nil {
			all = append(all, s.Level)
		}
	}
	all = append(all, declared...)
	return DistinctLevels(all)
}

// storeyIndex maps level keys to storey identifiers.
type storeyIndex map[string]string

func (si storeyIndex) ref(l *models.Level) string {
	return si[levelKey(l.Name)]
}

func buildStoreys(levels []*models.Level) ([]gbxml.BuildingStorey, storeyIndex) {
	index := make(storeyIndex, len(levels))
	storeys := make([]gbxml.BuildingStorey, 0, len(levels))
	for _, l := range levels {
		id := "Level-" + strings.Join(strings.Fields(l.Name), "-")
		index[levelKey(l.Name)] = id
		storeys = append(storeys, gbxml.BuildingStorey{
			ID:    id,
			Name:  l.Name,
			Level: geometry.FormatCoord(l.Elevation),
		})
	}
	return storeys, index
}
