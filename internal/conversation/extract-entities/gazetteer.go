package extractentities

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"storebot/internal/models"
)

type gazetteerTerm struct {
	pattern  *regexp.Regexp
	category models.Category
	label    string
}

// GazetteerExtractor recognizes a fixed list of known names.
// Matching is case-insensitive on whole words.
type GazetteerExtractor struct {
	terms []gazetteerTerm
}

func NewGazetteerExtractor(organizations, locations, people []string) *GazetteerExtractor {
	g := &GazetteerExtractor{}
	g.add(organizations, models.CategoryOrganization, "ORG")
	g.add(locations, models.CategoryLocation, "GPE")
	g.add(people, models.CategoryPerson, "PERSON")
	return g
}

func (g *GazetteerExtractor) add(names []string, category models.Category, label string) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		g.terms = append(g.terms, gazetteerTerm{
			pattern:  regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`),
			category: category,
			label:    label,
		})
	}
}

type span struct {
	start, end int
	term       gazetteerTerm
}

// located is an entity with its byte offsets in the source text.
type located struct {
	start, end int
	entity     models.Entity
}

// Extract returns every non-overlapping match ordered by position.
// When two matches start together the longer one wins.
func (g *GazetteerExtractor) Extract(ctx context.Context, text string) ([]models.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return []models.Entity{}, nil
	}
	return entitiesOf(g.locate(text)), nil
}

func (g *GazetteerExtractor) locate(text string) []located {
	var spans []span
	for _, term := range g.terms {
		for _, loc := range term.pattern.FindAllStringIndex(text, -1) {
			spans = append(spans, span{start: loc[0], end: loc[1], term: term})
		}
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	found := make([]located, 0, len(spans))
	covered := 0
	for _, s := range spans {
		if s.start < covered {
			continue
		}
		found = append(found, located{
			start: s.start,
			end:   s.end,
			entity: models.Entity{
				Text:     text[s.start:s.end],
				Category: s.term.category,
				Label:    s.term.label,
			},
		})
		covered = s.end
	}
	return found
}

func entitiesOf(found []located) []models.Entity {
	entities := make([]models.Entity, 0, len(found))
	for _, l := range found {
		entities = append(entities, l.entity)
	}
	return entities
}
