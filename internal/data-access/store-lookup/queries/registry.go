// internal/data-access/store-lookup/queries/registry.go
package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"storebot/internal/models"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryKind = errors.New("unknown query kind")
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// QueryFunc returns: data, rowCount, error. A rowCount of zero means nothing matched.
type QueryFunc func(ctx context.Context, q Querier, fragment string) (interface{}, int, error)

var Registry = map[models.QueryKind]QueryFunc{
	models.QueryKindProduct:          ProductByName,
	models.QueryKindEmployee:         EmployeeByName,
	models.QueryKindOrdersByCustomer: OrdersByCustomer,
	models.QueryKindAllProducts:      AllProductNames,
}

// Execute runs the registered query and reports its execution time in milliseconds.
func Execute(ctx context.Context, q Querier, kind models.QueryKind, fragment string) (interface{}, int, int64, error) {
	fn, exists := Registry[kind]
	if !exists {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownQueryKind, kind)
	}
	start := time.Now()
	data, rows, err := fn(ctx, q, fragment)
	return data, rows, time.Since(start).Milliseconds(), err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching fragment anywhere in the column.
func containsPattern(fragment string) string {
	return "%" + likeEscaper.Replace(fragment) + "%"
}
