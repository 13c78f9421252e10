// Package app assembles the question-answering components from loaded
// configuration. Connections are opened by the caller.
package app

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storebot/internal/common/config"
	"storebot/internal/common/logger"
	"storebot/internal/common/observability"
	extractentities "storebot/internal/conversation/extract-entities"
	normalizetext "storebot/internal/conversation/normalize-text"
	resolveintent "storebot/internal/conversation/resolve-intent"
	storelookup "storebot/internal/data-access/store-lookup"
)

// Components is everything the server and the admin tool need to answer questions.
type Components struct {
	Extractor  extractentities.Extractor
	Lookup     *storelookup.Handler
	Normalizer *normalizetext.Handler
	Resolver   *resolveintent.Handler
}

// Build wires the extractor, lookup, normalizer and resolver. rdb may be nil.
func Build(cfg *config.Config, db *sql.DB, rdb *redis.Client, obs *observability.Observability, log logger.Logger) (*Components, error) {
	entity := cfg.NLP.Entity
	extractor, err := extractentities.New(&extractentities.Config{
		Provider:      entity.Provider,
		BaseURL:       entity.Remote.BaseURL,
		APIKey:        entity.Remote.APIKey,
		Timeout:       config.GetDuration(entity.Timeout),
		MaxRetries:    entity.MaxRetries,
		Organizations: entity.Gazetteer.Organizations,
		Locations:     entity.Gazetteer.Locations,
		People:        entity.Gazetteer.People,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("entity extractor: %w", err)
	}

	lookup := storelookup.NewHandler(&storelookup.Config{
		Timeout:  config.GetDuration(cfg.Lookup.Timeout),
		CacheTTL: cacheTTL(cfg.Lookup.CacheTTL),
	}, db, rdb, log)

	normalizer, err := normalizetext.NewHandler(normalizetext.LoadConfig(), log)
	if err != nil {
		return nil, fmt.Errorf("normalizer: %w", err)
	}

	resolver := resolveintent.NewHandler(&resolveintent.Config{
		ExtractTimeout: config.GetDuration(entity.Timeout),
	}, extractor, lookup, obs, log)

	return &Components{
		Extractor:  extractor,
		Lookup:     lookup,
		Normalizer: normalizer,
		Resolver:   resolver,
	}, nil
}

func cacheTTL(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
