// internal/models/store.go
package models

import "time"

// Product is a row of the products table.
type Product struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
}

// Employee is a row of the employees table.
type Employee struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Email    string `json:"email"`
}

// Order is an orders row joined with its customer's name.
type Order struct {
	CustomerName string    `json:"customerName"`
	OrderID      int64     `json:"orderId"`
	OrderDate    time.Time `json:"orderDate"`
	Total        float64   `json:"total"`
}
