package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "storebot/internal/common/errors"
	"storebot/internal/common/logger"
	normalizetext "storebot/internal/conversation/normalize-text"
	resolveintent "storebot/internal/conversation/resolve-intent"
	storelookup "storebot/internal/data-access/store-lookup"
	"storebot/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==========================
// Test Doubles
// ==========================

type fakeResolver struct {
	questions []string
	err       error
}

func (f *fakeResolver) Execute(_ context.Context, input *resolveintent.Input) (*resolveintent.Output, error) {
	f.questions = append(f.questions, input.Question)
	if f.err != nil {
		return nil, f.err
	}
	if strings.Contains(strings.ToLower(input.Question), "microsoft") {
		return &resolveintent.Output{
			Response: "You mentioned 'Microsoft'. How can I assist you with this organization?",
			Rule:     resolveintent.RuleOrganization,
			Entities: []models.Entity{{Text: "Microsoft", Category: models.CategoryOrganization, Label: "ORG"}},
		}, nil
	}
	return &resolveintent.Output{
		Response: resolveintent.HoursResponse,
		Rule:     resolveintent.RuleHours,
		Entities: []models.Entity{},
	}, nil
}

type fakeNormalizer struct {
	err error
}

func (f *fakeNormalizer) Execute(_ context.Context, input *normalizetext.Input) (*normalizetext.Output, error) {
	if f.err != nil {
		return nil, f.err
	}
	tokens := strings.Fields(strings.ToLower(input.Text))
	return &normalizetext.Output{Normalized: strings.ToLower(input.Text), Tokens: tokens, Lemmas: tokens}, nil
}

type fakeLookup struct {
	output *storelookup.Output
	err    error
	input  *storelookup.Input
}

func (f *fakeLookup) Execute(_ context.Context, input *storelookup.Input) (*storelookup.Output, error) {
	f.input = input
	return f.output, f.err
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error {
	return f.err
}

func newTestRouter(t *testing.T, opts Options) *gin.Engine {
	t.Helper()
	if opts.Resolver == nil {
		opts.Resolver = &fakeResolver{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	server, err := NewServer(opts)
	require.NoError(t, err)
	return server.Router()
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postForm(router http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ==========================
// HTML Form
// ==========================

func TestIndex_RendersForm(t *testing.T) {
	router := newTestRouter(t, Options{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="question"`)
	assert.NotContains(t, w.Body.String(), "Response:")
}

func TestForm_Question(t *testing.T) {
	resolver := &fakeResolver{}
	router := newTestRouter(t, Options{Resolver: resolver})

	w := postForm(router, url.Values{"question": {"What are your opening hours?"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Our business hours are Monday to Friday, 9am to 5pm.")
	assert.Equal(t, []string{"What are your opening hours?"}, resolver.questions)
}

func TestForm_LegacyField(t *testing.T) {
	resolver := &fakeResolver{}
	router := newTestRouter(t, Options{Resolver: resolver})

	w := postForm(router, url.Values{"pregunta": {"Tell me about Microsoft"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "You mentioned &#39;Microsoft&#39;.")
	assert.Equal(t, []string{"Tell me about Microsoft"}, resolver.questions)
}

func TestForm_EscapesQuestion(t *testing.T) {
	router := newTestRouter(t, Options{})

	w := postForm(router, url.Values{"question": {"<script>alert(1)</script>"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<script>")
}

// ==========================
// JSON API
// ==========================

func TestAsk_Success(t *testing.T) {
	router := newTestRouter(t, Options{Normalizer: &fakeNormalizer{}})

	w := postJSON(router, "/api/v1/ask", `{"question":"Tell me about Microsoft"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp askResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "You mentioned 'Microsoft'. How can I assist you with this organization?", resp.Response)
	assert.Equal(t, resolveintent.RuleOrganization, resp.Rule)
	require.Len(t, resp.Entities, 1)
	assert.Equal(t, models.CategoryOrganization, resp.Entities[0].Category)
	assert.Equal(t, []string{"tell", "me", "about", "microsoft"}, resp.Tokens)

	_, err := uuid.Parse(resp.RequestID)
	assert.NoError(t, err)
	assert.Equal(t, resp.RequestID, w.Header().Get(requestIDHeader))
}

func TestAsk_EmptyQuestionIsValid(t *testing.T) {
	router := newTestRouter(t, Options{})

	w := postJSON(router, "/api/v1/ask", `{"question":""}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAsk_NormalizerFailureIsNotFatal(t *testing.T) {
	router := newTestRouter(t, Options{Normalizer: &fakeNormalizer{err: errors.New("no model")}})

	w := postJSON(router, "/api/v1/ask", `{"question":"hours"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp askResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, resolveintent.HoursResponse, resp.Response)
	assert.Empty(t, resp.Tokens)
}

func TestAsk_InvalidBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `question=hours`},
		{"missing question", `{}`},
		{"wrong type", `{"question": 42}`},
		{"unknown field", `{"question":"hours","extra":true}`},
		{"too long", fmt.Sprintf(`{"question":%q}`, strings.Repeat("a", 1001))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{}
			router := newTestRouter(t, Options{Resolver: resolver})

			w := postJSON(router, "/api/v1/ask", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp struct {
				Error apperrors.StandardError `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, apperrors.ErrCodeInvalidRequest, resp.Error.Code)
			assert.Empty(t, resolver.questions)
		})
	}
}

func TestAsk_ResolverError(t *testing.T) {
	router := newTestRouter(t, Options{Resolver: &fakeResolver{err: errors.New("boom")}})

	w := postJSON(router, "/api/v1/ask", `{"question":"hours"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAsk_KeepsCallerRequestID(t *testing.T) {
	router := newTestRouter(t, Options{})
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewBufferString(`{"question":"hours"}`))
	req.Header.Set(requestIDHeader, id)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, id, w.Header().Get(requestIDHeader))
}

// ==========================
// Lookup API
// ==========================

func TestLookup_Success(t *testing.T) {
	lookup := &fakeLookup{output: &storelookup.Output{
		Data:     &models.Product{Name: "Laptop Y", Price: 1999.99, StockQuantity: 50},
		RowCount: 1,
	}}
	router := newTestRouter(t, Options{Lookup: lookup})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/lookup/product?q=laptop", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, &storelookup.Input{Kind: "product", Fragment: "laptop"}, lookup.input)
	assert.Contains(t, w.Body.String(), `"name":"Laptop Y"`)
	assert.Contains(t, w.Body.String(), `"rowCount":1`)
}

func TestLookup_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown kind", apperrors.NewInvalidQueryKindError("invoices"), http.StatusBadRequest},
		{"empty fragment", apperrors.ErrInvalidFragment, http.StatusBadRequest},
		{"store down", fmt.Errorf("%w: refused", apperrors.ErrLookupUnavailable), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, Options{Lookup: &fakeLookup{err: tt.err}})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/lookup/product", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestLookup_DisabledWithoutService(t *testing.T) {
	router := newTestRouter(t, Options{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/lookup/product?q=x", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ==========================
// Operational Endpoints
// ==========================

func TestHealth(t *testing.T) {
	router := newTestRouter(t, Options{ServiceName: "storebot", Version: "1.2.3"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"1.2.3"`)
}

func TestReady(t *testing.T) {
	tests := []struct {
		name   string
		store  Pinger
		cache  Pinger
		status int
	}{
		{"no dependencies", nil, nil, http.StatusOK},
		{"store up", fakePinger{}, nil, http.StatusOK},
		{"store down", fakePinger{err: errors.New("refused")}, nil, http.StatusServiceUnavailable},
		{"cache down only", fakePinger{}, fakePinger{err: errors.New("refused")}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, Options{Store: tt.store, Cache: tt.cache})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestReady_ReportsStoreError(t *testing.T) {
	router := newTestRouter(t, Options{Store: fakePinger{err: errors.New("refused")}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"postgres":"refused"`)
	assert.Contains(t, w.Body.String(), string(apperrors.ErrCodeDatabaseConnection))
}

func TestMetrics(t *testing.T) {
	router := newTestRouter(t, Options{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
