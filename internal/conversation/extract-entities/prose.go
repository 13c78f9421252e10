package extractentities

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"

	apperrors "storebot/internal/common/errors"
	"storebot/internal/common/logger"
	"storebot/internal/models"
)

// ProseExtractor runs the prose averaged-perceptron NER model in process.
type ProseExtractor struct {
	logger logger.Logger
}

func NewProseExtractor(log logger.Logger) *ProseExtractor {
	return &ProseExtractor{
		logger: log.WithFields(map[string]interface{}{
			"taskType": TaskType,
			"provider": ProviderProse,
		}),
	}
}

type proseResult struct {
	entities []models.Entity
	err      error
}

// Extract tags text and returns its named entities. The model is not
// interruptible, so a cancelled ctx abandons the result rather than the work.
func (p *ProseExtractor) Extract(ctx context.Context, text string) ([]models.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return []models.Entity{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExtractionTimeout, err)
	}

	done := make(chan proseResult, 1)
	go func() {
		entities, err := proseEntities(text)
		done <- proseResult{entities: entities, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			p.logger.Warn("prose extraction failed", map[string]interface{}{"error": res.err.Error()})
			return nil, fmt.Errorf("%w: %v", apperrors.ErrExtractionFailed, res.err)
		}
		return res.entities, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExtractionTimeout, ctx.Err())
	}
}

func proseEntities(text string) ([]models.Entity, error) {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, err
	}

	found := doc.Entities()
	entities := make([]models.Entity, 0, len(found))
	for _, ent := range found {
		entities = append(entities, models.Entity{
			Text:     ent.Text,
			Category: models.CategoryFromLabel(ent.Label),
			Label:    ent.Label,
		})
	}
	return entities, nil
}
