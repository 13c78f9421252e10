// internal/models/query_types.go
package models

type QueryKind string

const (
	QueryKindProduct          QueryKind = "product"
	QueryKindEmployee         QueryKind = "employee"
	QueryKindOrdersByCustomer QueryKind = "orders_by_customer"
	QueryKindAllProducts      QueryKind = "all_products"
)
