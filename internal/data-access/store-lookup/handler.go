package storelookup

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "storebot/internal/common/errors"
	"storebot/internal/common/logger"
	"storebot/internal/common/metrics"
	"storebot/internal/data-access/store-lookup/queries"
	"storebot/internal/models"
)

const (
	TaskType = "store-lookup"

	cacheKeyPrefix = "storebot:lookup:"
)

// Handler serves read-only lookups against the store. Every call checks out its
// own connection from the pool and returns it before the call ends.
type Handler struct {
	config *Config
	db     *sql.DB
	cache  *redis.Client
	logger logger.Logger
}

// NewHandler builds the lookup service. redisClient may be nil, which disables caching.
func NewHandler(config *Config, db *sql.DB, redisClient *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		cache:  redisClient,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// FindProduct returns the first product whose name contains fragment.
func (h *Handler) FindProduct(ctx context.Context, fragment string) (*models.Product, error) {
	p, rows, err := lookup[*models.Product](ctx, h, QueryKindProduct, fragment)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: product %q", apperrors.ErrNotFound, fragment)
	}
	return p, nil
}

// FindEmployee returns the first employee whose name contains fragment.
func (h *Handler) FindEmployee(ctx context.Context, fragment string) (*models.Employee, error) {
	e, rows, err := lookup[*models.Employee](ctx, h, QueryKindEmployee, fragment)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: employee %q", apperrors.ErrNotFound, fragment)
	}
	return e, nil
}

// FindOrdersForCustomer returns all orders of matching customers. No orders is not an error.
func (h *Handler) FindOrdersForCustomer(ctx context.Context, fragment string) ([]models.Order, error) {
	orders, _, err := lookup[[]models.Order](ctx, h, QueryKindOrdersByCustomer, fragment)
	return orders, err
}

// ListProductNames returns every product name in store order.
func (h *Handler) ListProductNames(ctx context.Context) ([]string, error) {
	names, _, err := lookup[[]string](ctx, h, QueryKindAllProducts, "")
	return names, err
}

// Execute runs an arbitrary query(kind, fragment) without caching.
// Zero matching rows is reported through RowCount, not as an error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}

	kind := models.QueryKind(input.Kind)
	if _, exists := queries.Registry[kind]; !exists {
		return nil, apperrors.NewInvalidQueryKindError(input.Kind)
	}

	fragment := strings.TrimSpace(input.Fragment)
	if kind != QueryKindAllProducts && fragment == "" {
		return nil, apperrors.ErrInvalidFragment
	}

	data, rowCount, execTime, err := h.query(ctx, kind, fragment)
	if err != nil {
		return nil, err
	}

	return &Output{
		Data:               data,
		RowCount:           rowCount,
		QueryExecutionTime: execTime,
	}, nil
}

// lookup trims the fragment, consults the cache, and falls back to the store.
func lookup[T any](ctx context.Context, h *Handler, kind models.QueryKind, fragment string) (T, int, error) {
	var zero T

	fragment = strings.TrimSpace(fragment)
	if kind != QueryKindAllProducts && fragment == "" {
		return zero, 0, apperrors.ErrInvalidFragment
	}

	key := cacheKeyPrefix + string(kind) + ":" + strings.ToLower(fragment)
	if cached, ok := cacheGet[T](ctx, h, key); ok {
		metrics.LookupCacheHits.WithLabelValues(string(kind)).Inc()
		return cached, 1, nil
	}

	data, rowCount, _, err := h.query(ctx, kind, fragment)
	if err != nil {
		return zero, 0, err
	}
	if rowCount == 0 {
		return zero, 0, nil
	}

	value, ok := data.(T)
	if !ok {
		return zero, 0, fmt.Errorf("unexpected result type %T for %s", data, kind)
	}

	h.cacheSet(ctx, key, value)
	return value, rowCount, nil
}

func (h *Handler) query(ctx context.Context, kind models.QueryKind, fragment string) (interface{}, int, int64, error) {
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		metrics.LookupDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	}()

	conn, err := h.db.Conn(ctx)
	if err != nil {
		return nil, 0, 0, h.unavailable(kind, fragment, fmt.Errorf("acquire connection: %w", err))
	}
	defer conn.Close()

	data, rowCount, execTime, err := queries.Execute(ctx, conn, kind, fragment)
	if err != nil {
		if errors.Is(err, queries.ErrUnknownQueryKind) {
			return nil, 0, 0, apperrors.NewInvalidQueryKindError(string(kind))
		}
		return nil, 0, 0, h.unavailable(kind, fragment, err)
	}

	h.logger.Debug("lookup completed", map[string]interface{}{
		"kind":          string(kind),
		"fragment":      fragment,
		"rowCount":      rowCount,
		"executionTime": execTime,
	})

	return data, rowCount, execTime, nil
}

func (h *Handler) unavailable(kind models.QueryKind, fragment string, err error) error {
	metrics.LookupFailures.WithLabelValues(string(kind)).Inc()
	h.logger.Warn("lookup failed", map[string]interface{}{
		"kind":     string(kind),
		"fragment": fragment,
		"error":    err.Error(),
	})
	return fmt.Errorf("%w: %s: %v", apperrors.ErrLookupUnavailable, kind, err)
}

func cacheGet[T any](ctx context.Context, h *Handler, key string) (T, bool) {
	var value T
	if h.cache == nil || h.config.CacheTTL <= 0 {
		return value, false
	}

	raw, err := h.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			h.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return value, false
	}

	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		h.logger.Warn("cache entry corrupt", map[string]interface{}{"key": key, "error": err.Error()})
		return value, false
	}
	return value, true
}

func (h *Handler) cacheSet(ctx context.Context, key string, value interface{}) {
	if h.cache == nil || h.config.CacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
