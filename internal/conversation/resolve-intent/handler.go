// Package resolveintent turns a raw question into a single answer. Entity
// rules run first in the order organization, location, person; then the
// keyword table; then the fallback sentence.
package resolveintent

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "storebot/internal/common/errors"
	"storebot/internal/common/logger"
	"storebot/internal/common/metrics"
	"storebot/internal/common/observability"
	"storebot/internal/models"
)

const (
	TaskType = "resolve-intent"
)

// EntityExtractor finds named entities in source order.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) ([]models.Entity, error)
}

// StoreLookup is the subset of the lookup service the rules call.
type StoreLookup interface {
	FindProduct(ctx context.Context, fragment string) (*models.Product, error)
	FindEmployee(ctx context.Context, fragment string) (*models.Employee, error)
	FindOrdersForCustomer(ctx context.Context, fragment string) ([]models.Order, error)
	ListProductNames(ctx context.Context) ([]string, error)
}

var entityPriority = []struct {
	category models.Category
	rule     string
}{
	{models.CategoryOrganization, RuleOrganization},
	{models.CategoryLocation, RuleLocationEntity},
	{models.CategoryPerson, RulePerson},
}

type Handler struct {
	config    *Config
	extractor EntityExtractor
	lookup    StoreLookup
	rules     []Rule
	obs       *observability.Observability
	tracer    trace.Tracer
	logger    logger.Logger
}

// NewHandler wires the resolver. obs may be nil.
func NewHandler(config *Config, extractor EntityExtractor, lookup StoreLookup, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		extractor: extractor,
		lookup:    lookup,
		rules:     DefaultRules(),
		obs:       obs,
		tracer:    otel.Tracer("storebot/" + TaskType),
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Resolve always returns a user-facing sentence.
func (h *Handler) Resolve(ctx context.Context, question string) string {
	return h.resolve(ctx, question).Response
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInvalidRequestError("input cannot be nil")
	}
	return h.resolve(ctx, input.Question), nil
}

func (h *Handler) resolve(ctx context.Context, question string) *Output {
	start := time.Now()
	ctx, span := h.tracer.Start(ctx, "resolve")
	defer span.End()

	lowered := strings.ToLower(question)

	entities, extracted := h.extract(ctx, question)
	output := &Output{Entities: entities}

	if extracted {
		output.Response, output.Rule = h.entityPass(ctx, entities)
	}

	if output.Rule == "" {
		for _, rule := range h.rules {
			if rule.Matches(lowered) {
				output.Response = rule.Respond(ctx, h.lookup, question)
				output.Rule = rule.Name
				break
			}
		}
	}

	if output.Rule == "" {
		output.Response = FallbackResponse
		output.Rule = RuleFallback
	}

	elapsed := time.Since(start)
	span.SetAttributes(
		attribute.String("rule", output.Rule),
		attribute.Int("entities", len(entities)),
	)
	metrics.QuestionsResolved.WithLabelValues(output.Rule).Inc()
	metrics.ResolveDuration.WithLabelValues(output.Rule).Observe(elapsed.Seconds())
	h.obs.RecordResolution(ctx, output.Rule, elapsed)

	h.logger.Info("question resolved", map[string]interface{}{
		"rule":     output.Rule,
		"duration": elapsed.Milliseconds(),
	})

	return output
}

// extract reports false when the extractor failed, which skips the entity pass.
func (h *Handler) extract(ctx context.Context, question string) ([]models.Entity, bool) {
	if h.extractor == nil {
		return []models.Entity{}, false
	}

	extractCtx := ctx
	if h.config.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		extractCtx, cancel = context.WithTimeout(ctx, h.config.ExtractTimeout)
		defer cancel()
	}

	entities, err := h.extractor.Extract(extractCtx, question)
	if err != nil {
		code := apperrors.CodeOf(err)
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, apperrors.ErrExtractionTimeout) {
			code = apperrors.ErrCodeExtractionTimeout
		}
		metrics.ExtractionFailures.WithLabelValues(string(code)).Inc()
		h.logger.Warn("entity extraction failed, using keyword rules only", map[string]interface{}{
			"error":     err.Error(),
			"errorCode": string(code),
		})
		return []models.Entity{}, false
	}
	if entities == nil {
		entities = []models.Entity{}
	}

	h.logger.Debug("entities detected", map[string]interface{}{
		"count":    len(entities),
		"entities": entities,
	})
	return entities, true
}

// entityPass dispatches on the highest-priority category present, using the
// first entity of that category in text order.
func (h *Handler) entityPass(ctx context.Context, entities []models.Entity) (string, string) {
	for _, p := range entityPriority {
		for _, e := range entities {
			if e.Category != p.category {
				continue
			}
			switch p.category {
			case models.CategoryOrganization:
				return organizationResponse(e.Text), p.rule
			case models.CategoryLocation:
				return locationEntityResponse(e.Text), p.rule
			default:
				return renderEmployee(h.lookup.FindEmployee(ctx, e.Text)), p.rule
			}
		}
	}
	return "", ""
}
