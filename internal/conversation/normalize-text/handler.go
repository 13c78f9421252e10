// Package normalizetext lowercases, accent-folds, tokenizes and lemmatizes
// questions. Its output is diagnostic and never drives rule matching.
package normalizetext

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"storebot/internal/common/logger"
)

const (
	TaskType = "normalize-text"
)

type Handler struct {
	config     *Config
	lemmatizer *golem.Lemmatizer
	logger     logger.Logger
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	h := &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}

	if config.Lemmatize {
		lemmatizer, err := golem.New(en.New())
		if err != nil {
			return nil, fmt.Errorf("load lemmatizer dictionary: %w", err)
		}
		h.lemmatizer = lemmatizer
	}
	return h, nil
}

// Normalize lowercases text and, when enabled, strips combining accents.
func (h *Handler) Normalize(text string) string {
	lowered := strings.ToLower(text)
	if !h.config.FoldAccents {
		return lowered
	}
	// Chained transformers carry state, so each call gets its own.
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, lowered)
	if err != nil {
		return lowered
	}
	return folded
}

// Tokenize splits normalized text into word tokens.
func (h *Handler) Tokenize(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}

	tokens := make([]string, 0, len(doc.Tokens()))
	for _, tok := range doc.Tokens() {
		if !h.config.KeepPunct && !hasWordRune(tok.Text) {
			continue
		}
		tokens = append(tokens, tok.Text)
	}
	return tokens, nil
}

// Lemmas maps each token to its dictionary form. Unknown words pass through.
func (h *Handler) Lemmas(tokens []string) []string {
	lemmas := make([]string, len(tokens))
	for i, tok := range tokens {
		if h.lemmatizer == nil {
			lemmas[i] = tok
			continue
		}
		lemmas[i] = h.lemmatizer.Lemma(tok)
	}
	return lemmas
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized := h.Normalize(input.Text)
	tokens, err := h.Tokenize(normalized)
	if err != nil {
		h.logger.Warn("tokenization failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	return &Output{
		Normalized: normalized,
		Tokens:     tokens,
		Lemmas:     h.Lemmas(tokens),
	}, nil
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
