package extractentities

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "storebot/internal/common/errors"
	"storebot/internal/common/logger"
	"storebot/internal/models"
)

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func createRemoteConfig(baseURL string) *Config {
	return &Config{
		Provider:   ProviderRemote,
		BaseURL:    baseURL,
		Timeout:    2 * time.Second,
		MaxRetries: 2,
	}
}

// ==========================
// Factory
// ==========================

func TestNew_Providers(t *testing.T) {
	log := createTestLogger(t)

	tests := []struct {
		name    string
		config  *Config
		want    interface{}
		wantErr bool
	}{
		{name: "default is prose with organizations", config: &Config{}, want: &CompositeExtractor{}},
		{name: "prose", config: &Config{Provider: ProviderProse}, want: &CompositeExtractor{}},
		{name: "remote", config: createRemoteConfig("http://ner.local"), want: &RemoteExtractor{}},
		{name: "remote without url", config: &Config{Provider: ProviderRemote}, wantErr: true},
		{name: "gazetteer", config: &Config{Provider: ProviderGazetteer}, want: &GazetteerExtractor{}},
		{name: "none", config: &Config{Provider: ProviderNone}, want: NopExtractor{}},
		{name: "unknown", config: &Config{Provider: "spacy"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor, err := New(tt.config, log)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, extractor)
		})
	}
}

func TestNopExtractor(t *testing.T) {
	entities, err := NopExtractor{}.Extract(context.Background(), "Tell me about Microsoft")
	assert.NoError(t, err)
	assert.Empty(t, entities)
}

// ==========================
// Gazetteer
// ==========================

func TestGazetteerExtractor(t *testing.T) {
	g := NewGazetteerExtractor(
		[]string{"Microsoft", "Acme Corp"},
		[]string{"Paris", "New York"},
		[]string{"John Doe", "John"},
	)

	tests := []struct {
		name     string
		text     string
		expected []models.Entity
	}{
		{
			name: "single organization",
			text: "Tell me about Microsoft",
			expected: []models.Entity{
				{Text: "Microsoft", Category: models.CategoryOrganization, Label: "ORG"},
			},
		},
		{
			name: "ordered by position",
			text: "Does John Doe work at Acme Corp in new york?",
			expected: []models.Entity{
				{Text: "John Doe", Category: models.CategoryPerson, Label: "PERSON"},
				{Text: "Acme Corp", Category: models.CategoryOrganization, Label: "ORG"},
				{Text: "new york", Category: models.CategoryLocation, Label: "GPE"},
			},
		},
		{
			name:     "whole words only",
			text:     "Is Parisian food on the menu? Ask Johnny.",
			expected: []models.Entity{},
		},
		{
			name: "repeated mentions",
			text: "paris or Paris",
			expected: []models.Entity{
				{Text: "paris", Category: models.CategoryLocation, Label: "GPE"},
				{Text: "Paris", Category: models.CategoryLocation, Label: "GPE"},
			},
		},
		{
			name:     "empty",
			text:     "   ",
			expected: []models.Entity{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities, err := g.Extract(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, entities)
		})
	}
}

func TestGazetteerExtractor_IgnoresBlankTerms(t *testing.T) {
	g := NewGazetteerExtractor([]string{"", "  "}, nil, nil)
	entities, err := g.Extract(context.Background(), "anything at all")
	require.NoError(t, err)
	assert.Empty(t, entities)
}

// ==========================
// Remote
// ==========================

func TestRemoteExtractor_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ner/extract", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Tell me about Microsoft in Paris", body["text"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"entities":[{"text":"Microsoft","label":"ORG"},{"text":"Paris","label":"gpe"},{"text":"2024","label":"DATE"}]}`))
	}))
	defer server.Close()

	cfg := createRemoteConfig(server.URL)
	cfg.APIKey = "secret"
	r := NewRemoteExtractor(cfg, createTestLogger(t))

	entities, err := r.Extract(context.Background(), "Tell me about Microsoft in Paris")
	require.NoError(t, err)
	assert.Equal(t, []models.Entity{
		{Text: "Microsoft", Category: models.CategoryOrganization, Label: "ORG"},
		{Text: "Paris", Category: models.CategoryLocation, Label: "gpe"},
		{Text: "2024", Category: models.CategoryOther, Label: "DATE"},
	}, entities)
}

func TestRemoteExtractor_EmptyTextSkipsCall(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	r := NewRemoteExtractor(createRemoteConfig(server.URL), createTestLogger(t))
	entities, err := r.Extract(context.Background(), "")
	assert.NoError(t, err)
	assert.Empty(t, entities)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestRemoteExtractor_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Every attempt must carry the full body.
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["text"])

		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"entities":[]}`))
	}))
	defer server.Close()

	r := NewRemoteExtractor(createRemoteConfig(server.URL), createTestLogger(t))
	entities, err := r.Extract(context.Background(), "hello")
	require.NoError(t, err)
	assert.Empty(t, entities)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRemoteExtractor_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r := NewRemoteExtractor(createRemoteConfig(server.URL), createTestLogger(t))
	_, err := r.Extract(context.Background(), "hello")
	assert.ErrorIs(t, err, apperrors.ErrExtractionFailed)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRemoteExtractor_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	r := NewRemoteExtractor(createRemoteConfig(server.URL), createTestLogger(t))
	_, err := r.Extract(context.Background(), "hello")
	assert.ErrorIs(t, err, apperrors.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "status 401")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRemoteExtractor_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	cfg := createRemoteConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	r := NewRemoteExtractor(cfg, createTestLogger(t))

	_, err := r.Extract(context.Background(), "hello")
	assert.ErrorIs(t, err, apperrors.ErrExtractionTimeout)
	assert.NotErrorIs(t, err, apperrors.ErrExtractionFailed)
}

func TestRemoteExtractor_BadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"entities": "nope"`))
	}))
	defer server.Close()

	r := NewRemoteExtractor(createRemoteConfig(server.URL), createTestLogger(t))
	_, err := r.Extract(context.Background(), "hello")
	assert.ErrorIs(t, err, apperrors.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "decode error")
}

// ==========================
// Composite
// ==========================

type stubExtractor struct {
	entities []models.Entity
	err      error
}

func (s stubExtractor) Extract(context.Context, string) ([]models.Entity, error) {
	return s.entities, s.err
}

func TestCompositeExtractor_Merge(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		primary []models.Entity
		want    []models.Entity
	}{
		{
			name: "organization from list",
			text: "Tell me about Microsoft",
			want: []models.Entity{{Text: "Microsoft", Category: models.CategoryOrganization, Label: "ORG"}},
		},
		{
			name: "list wins over overlapping person",
			text: "Is Apple Inc. a partner?",
			primary: []models.Entity{
				{Text: "Apple Inc.", Category: models.CategoryPerson, Label: "PERSON"},
			},
			want: []models.Entity{{Text: "Apple", Category: models.CategoryOrganization, Label: "ORG"}},
		},
		{
			name: "merged in text order",
			text: "Jane Smith from Paris works with Google",
			primary: []models.Entity{
				{Text: "Jane Smith", Category: models.CategoryPerson, Label: "PERSON"},
				{Text: "Paris", Category: models.CategoryLocation, Label: "GPE"},
			},
			want: []models.Entity{
				{Text: "Jane Smith", Category: models.CategoryPerson, Label: "PERSON"},
				{Text: "Paris", Category: models.CategoryLocation, Label: "GPE"},
				{Text: "Google", Category: models.CategoryOrganization, Label: "ORG"},
			},
		},
		{
			name: "repeated entity located after the previous one",
			text: "Paris or Microsoft or Paris",
			primary: []models.Entity{
				{Text: "Paris", Category: models.CategoryLocation, Label: "GPE"},
				{Text: "Paris", Category: models.CategoryLocation, Label: "GPE"},
			},
			want: []models.Entity{
				{Text: "Paris", Category: models.CategoryLocation, Label: "GPE"},
				{Text: "Microsoft", Category: models.CategoryOrganization, Label: "ORG"},
				{Text: "Paris", Category: models.CategoryLocation, Label: "GPE"},
			},
		},
		{
			name: "entity missing from text goes last",
			text: "Microsoft",
			primary: []models.Entity{
				{Text: "Contoso", Category: models.CategoryOrganization, Label: "ORG"},
			},
			want: []models.Entity{
				{Text: "Microsoft", Category: models.CategoryOrganization, Label: "ORG"},
				{Text: "Contoso", Category: models.CategoryOrganization, Label: "ORG"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCompositeExtractor(stubExtractor{entities: tt.primary}, NewGazetteerExtractor(DefaultOrganizations, nil, nil))
			got, err := c.Extract(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompositeExtractor_PrimaryFailure(t *testing.T) {
	c := NewCompositeExtractor(stubExtractor{err: apperrors.ErrExtractionTimeout}, NewGazetteerExtractor(DefaultOrganizations, nil, nil))

	_, err := c.Extract(context.Background(), "Tell me about Microsoft")
	assert.ErrorIs(t, err, apperrors.ErrExtractionTimeout)
}

func TestCompositeExtractor_EmptyInput(t *testing.T) {
	c := NewCompositeExtractor(stubExtractor{err: apperrors.ErrExtractionFailed}, NewGazetteerExtractor(DefaultOrganizations, nil, nil))

	entities, err := c.Extract(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestNew_DefaultRecognizesOrganizations(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the NER model")
	}

	extractor, err := New(LoadConfig(), createTestLogger(t))
	require.NoError(t, err)

	entities, err := extractor.Extract(context.Background(), "Tell me about Microsoft")
	require.NoError(t, err)
	assert.Contains(t, entities, models.Entity{Text: "Microsoft", Category: models.CategoryOrganization, Label: "ORG"})
}

// ==========================
// Prose
// ==========================

func TestProseExtractor_EmptyInput(t *testing.T) {
	p := NewProseExtractor(createTestLogger(t))
	entities, err := p.Extract(context.Background(), " \t")
	assert.NoError(t, err)
	assert.Empty(t, entities)
}

func TestProseExtractor_CancelledContext(t *testing.T) {
	p := NewProseExtractor(createTestLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Extract(ctx, "Tell me about Microsoft")
	assert.ErrorIs(t, err, apperrors.ErrExtractionTimeout)
}

func TestProseExtractor_EntitiesComeFromText(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the NER model")
	}

	text := "Hello, I am John Smith and I live in Paris. Does Microsoft sell laptops?"
	p := NewProseExtractor(createTestLogger(t))

	entities, err := p.Extract(context.Background(), text)
	require.NoError(t, err)

	last := -1
	for _, e := range entities {
		idx := strings.Index(text, e.Text)
		assert.GreaterOrEqual(t, idx, 0, "entity %q not in text", e.Text)
		assert.Equal(t, models.CategoryFromLabel(e.Label), e.Category)
		assert.GreaterOrEqual(t, idx, last, "entities out of order")
		last = idx
	}
}
