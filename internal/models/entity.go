// internal/models/entity.go
package models

// Category is the semantic class of a detected entity.
type Category string

const (
	CategoryOrganization Category = "ORGANIZATION"
	CategoryLocation     Category = "LOCATION"
	CategoryPerson       Category = "PERSON"
	CategoryOther        Category = "OTHER"
)

// Entity is a span of the question classified by the entity extractor.
type Entity struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
	Label    string   `json:"label,omitempty"` // upstream label, e.g. "GPE"
}

// CategoryFromLabel maps upstream NER labels onto the categories the resolver knows.
func CategoryFromLabel(label string) Category {
	switch label {
	case "ORG", "ORGANIZATION":
		return CategoryOrganization
	case "GPE", "LOC", "LOCATION":
		return CategoryLocation
	case "PERSON", "PER":
		return CategoryPerson
	default:
		return CategoryOther
	}
}
