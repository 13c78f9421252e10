// internal/data-access/store-lookup/models.go
package storelookup

import "storebot/internal/models"

// Input is a generic query(kind, fragment) request.
type Input struct {
	Kind     string `json:"kind"`
	Fragment string `json:"fragment,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryKind = models.QueryKind

var (
	QueryKindProduct          = models.QueryKindProduct
	QueryKindEmployee         = models.QueryKindEmployee
	QueryKindOrdersByCustomer = models.QueryKindOrdersByCustomer
	QueryKindAllProducts      = models.QueryKindAllProducts
)
