// Package extractentities wraps named-entity recognition behind a single
// Extract call. The recognizer itself is always an existing library or service.
package extractentities

import (
	"context"
	"fmt"

	"storebot/internal/common/logger"
	"storebot/internal/models"
)

const (
	TaskType = "extract-entities"

	ProviderProse     = "prose"
	ProviderRemote    = "remote"
	ProviderGazetteer = "gazetteer"
	ProviderNone      = "none"
)

// Extractor returns the entities of text in source order.
// Empty text yields an empty slice and no error.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]models.Entity, error)
}

// New builds the extractor selected by config.Provider. The prose provider
// is paired with a gazetteer of organizations, which the model cannot label.
func New(config *Config, log logger.Logger) (Extractor, error) {
	switch config.Provider {
	case ProviderProse, "":
		organizations := config.Organizations
		if len(organizations) == 0 {
			organizations = DefaultOrganizations
		}
		gazetteer := NewGazetteerExtractor(organizations, config.Locations, config.People)
		return NewCompositeExtractor(NewProseExtractor(log), gazetteer), nil
	case ProviderRemote:
		if config.BaseURL == "" {
			return nil, fmt.Errorf("remote entity extractor requires a base URL")
		}
		return NewRemoteExtractor(config, log), nil
	case ProviderGazetteer:
		return NewGazetteerExtractor(config.Organizations, config.Locations, config.People), nil
	case ProviderNone:
		return NopExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown entity provider %q", config.Provider)
	}
}

// NopExtractor never finds anything. It leaves only the keyword rules active.
type NopExtractor struct{}

func (NopExtractor) Extract(context.Context, string) ([]models.Entity, error) {
	return []models.Entity{}, nil
}
