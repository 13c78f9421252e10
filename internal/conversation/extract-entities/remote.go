package extractentities

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "storebot/internal/common/errors"
	httpclient "storebot/internal/common/http"
	"storebot/internal/common/logger"
	"storebot/internal/models"
)

const extractPath = "/api/ner/extract"

// RemoteExtractor delegates recognition to an external NER service.
type RemoteExtractor struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewRemoteExtractor(config *Config, log logger.Logger) *RemoteExtractor {
	r := &RemoteExtractor{
		config: config,
		logger: log.WithFields(map[string]interface{}{
			"taskType": TaskType,
			"provider": ProviderRemote,
		}),
	}
	r.client = httpclient.NewClient(config.Timeout, config.MaxRetries).OnRetry(func(attempt int, err error) {
		r.logger.Warn("entity service attempt failed", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})
	})
	return r
}

type remoteEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

type remoteResponse struct {
	Entities []remoteEntity `json:"entities"`
}

func (r *RemoteExtractor) Extract(ctx context.Context, text string) ([]models.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return []models.Entity{}, nil
	}

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExtractionFailed, err)
	}

	resp, err := r.client.DoWithRetry(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.BaseURL+extractPath, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if r.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+r.config.APIKey)
		}
		return req, nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrExtractionTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	var apiResponse remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", apperrors.ErrExtractionFailed, err)
	}

	entities := make([]models.Entity, 0, len(apiResponse.Entities))
	for _, e := range apiResponse.Entities {
		if strings.TrimSpace(e.Text) == "" {
			continue
		}
		entities = append(entities, models.Entity{
			Text:     e.Text,
			Category: models.CategoryFromLabel(strings.ToUpper(e.Label)),
			Label:    e.Label,
		})
	}
	return entities, nil
}
