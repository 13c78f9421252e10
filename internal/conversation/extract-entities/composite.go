package extractentities

import (
	"context"
	"sort"
	"strings"

	"storebot/internal/models"
)

// DefaultOrganizations seeds the organization list of the default extractor.
// The prose model has no ORG label, so organizations only come from this list.
var DefaultOrganizations = []string{
	"Microsoft", "Apple", "Google", "Amazon", "Samsung",
	"Sony", "Dell", "Lenovo", "Intel", "Nvidia",
}

// CompositeExtractor merges a statistical extractor with a gazetteer.
// Gazetteer matches win wherever the two overlap.
type CompositeExtractor struct {
	primary   Extractor
	gazetteer *GazetteerExtractor
}

func NewCompositeExtractor(primary Extractor, gazetteer *GazetteerExtractor) *CompositeExtractor {
	return &CompositeExtractor{primary: primary, gazetteer: gazetteer}
}

// Extract fails only when the primary extractor fails.
func (c *CompositeExtractor) Extract(ctx context.Context, text string) ([]models.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return []models.Entity{}, nil
	}

	primary, err := c.primary.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	merged := c.gazetteer.locate(text)
	known := len(merged)
	for _, l := range locateAll(text, primary) {
		if overlapsAny(l, merged[:known]) {
			continue
		}
		merged = append(merged, l)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].start < merged[j].start
	})
	return entitiesOf(merged), nil
}

// locateAll finds each entity in text, searching forward from the previous
// match. Entities that cannot be found are placed after everything else.
func locateAll(text string, entities []models.Entity) []located {
	found := make([]located, 0, len(entities))
	cursor := 0
	for _, e := range entities {
		idx := -1
		if e.Text != "" {
			if idx = strings.Index(text[cursor:], e.Text); idx >= 0 {
				idx += cursor
			} else {
				idx = strings.Index(text, e.Text)
			}
		}
		if idx < 0 {
			found = append(found, located{start: len(text), end: len(text), entity: e})
			continue
		}
		found = append(found, located{start: idx, end: idx + len(e.Text), entity: e})
		cursor = idx + len(e.Text)
	}
	return found
}

func overlapsAny(l located, others []located) bool {
	for _, o := range others {
		if l.start < o.end && o.start < l.end {
			return true
		}
	}
	return false
}
