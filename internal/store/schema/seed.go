package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type seedTable struct {
	name    string
	columns []string
	rows    [][]interface{}
	// serial is true when the first column is a SERIAL id whose sequence
	// must be advanced past the explicit ids.
	serial bool
}

var seedTables = []seedTable{
	{
		name:    "categories",
		columns: []string{"id", "name"},
		serial:  true,
		rows: [][]interface{}{
			{1, "Electronics"},
			{2, "Accessories"},
			{3, "Gaming"},
			{4, "Home Appliances"},
		},
	},
	{
		name:    "suppliers",
		columns: []string{"id", "name", "contact_email"},
		serial:  true,
		rows: [][]interface{}{
			{1, "Supplier A", "supplierA@example.com"},
			{2, "Supplier B", "supplierB@example.com"},
			{3, "Supplier C", "supplierC@example.com"},
			{4, "Supplier D", "supplierD@example.com"},
		},
	},
	{
		name:    "products",
		columns: []string{"id", "name", "description", "price", "stock_quantity", "category_id"},
		serial:  true,
		rows: [][]interface{}{
			{1, "Smartphone X", "High-end smartphone with advanced camera", 999.99, 100, 1},
			{2, "Laptop Y", "Powerful laptop for gaming and video editing", 1999.99, 50, 1},
			{3, "Smartwatch Z", "Advanced smartwatch with fitness tracking", 299.99, 50, 2},
			{4, "Gaming Mouse", "High-precision gaming mouse", 99.99, 200, 3},
			{5, "Wireless Headphones", "Premium wireless headphones with long battery life", 149.99, 150, 2},
			{6, "Refrigerator", "Energy-efficient refrigerator with advanced features", 999.99, 20, 4},
			{7, "Washing Machine", "High-capacity washing machine with multiple cycles", 499.99, 30, 4},
		},
	},
	{
		name:    "product_suppliers",
		columns: []string{"product_id", "supplier_id"},
		rows: [][]interface{}{
			{1, 1}, {2, 2}, {3, 1}, {4, 3}, {5, 2}, {6, 4}, {7, 3},
		},
	},
	{
		name:    "customers",
		columns: []string{"id", "name", "email", "phone"},
		serial:  true,
		rows: [][]interface{}{
			{1, "John Doe", "john@example.com", "123-456-7890"},
			{2, "Jane Smith", "jane.smith@example.com", "987-654-3210"},
			{3, "Michael Brown", "michael.brown@example.com", "555-123-4567"},
			{4, "Emily Johnson", "emily.johnson@example.com", "111-222-3333"},
			{5, "David Lee", "david.lee@example.com", "444-555-6666"},
		},
	},
	{
		name:    "orders",
		columns: []string{"id", "customer_id", "order_date", "total"},
		serial:  true,
		rows: [][]interface{}{
			{1, 1, "2025-03-01", 999.99},
			{2, 2, "2025-03-15", 299.99},
			{3, 3, "2025-03-20", 99.99},
			{4, 4, "2025-03-25", 149.99},
			{5, 5, "2025-03-30", 499.99},
			{6, 1, "2025-04-01", 1999.99},
			{7, 2, "2025-04-05", 99.99},
			{8, 3, "2025-04-10", 149.99},
			{9, 4, "2025-04-15", 299.99},
		},
	},
	{
		name:    "order_items",
		columns: []string{"id", "order_id", "product_id", "quantity"},
		serial:  true,
		rows: [][]interface{}{
			{1, 1, 1, 1},
			{2, 2, 3, 1},
			{3, 3, 4, 1},
			{4, 4, 5, 1},
			{5, 5, 6, 1},
			{6, 6, 2, 1},
			{7, 7, 4, 1},
			{8, 8, 5, 1},
			{9, 9, 3, 1},
		},
	},
	{
		name:    "product_reviews",
		columns: []string{"id", "product_id", "customer_id", "review", "rating"},
		serial:  true,
		rows: [][]interface{}{
			{1, 1, 1, "Excellent product!", 5},
			{2, 3, 2, "Good but not great.", 3},
			{3, 4, 3, "Perfect for gaming!", 5},
			{4, 5, 4, "Comfortable headphones.", 4},
			{5, 6, 5, "Great refrigerator!", 5},
		},
	},
	{
		name:    "employees",
		columns: []string{"id", "name", "position", "email"},
		serial:  true,
		rows: [][]interface{}{
			{1, "Jane Smith", "Sales Manager", "jane.smith@example.com"},
			{2, "John Doe", "Support Specialist", "john.doe@example.com"},
			{3, "Emily Johnson", "Marketing Manager", "emily.johnson@example.com"},
			{4, "Michael Brown", "Sales Representative", "michael.brown@example.com"},
		},
	},
	{
		name:    "employee_roles",
		columns: []string{"id", "role_name"},
		serial:  true,
		rows: [][]interface{}{
			{1, "Sales Manager"},
			{2, "Support Specialist"},
			{3, "Marketing Manager"},
			{4, "Sales Representative"},
		},
	},
	{
		name:    "employee_role_assignments",
		columns: []string{"employee_id", "role_id"},
		rows: [][]interface{}{
			{1, 1}, {2, 2}, {3, 3}, {4, 4},
		},
	},
}

func (t seedTable) insertSQL() string {
	placeholders := make([]string, len(t.columns))
	for i := range t.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		t.name, strings.Join(t.columns, ", "), strings.Join(placeholders, ", "))
}

func (t seedTable) resetSequenceSQL() string {
	return fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT COALESCE(MAX(id), 1) FROM %s))",
		t.name, t.name)
}

// Seed inserts the sample store data and returns the number of new rows.
// Rows that already exist are left untouched, so Seed can run repeatedly.
func Seed(ctx context.Context, db *sql.DB) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	var inserted int64
	for _, table := range seedTables {
		stmt, err := tx.PrepareContext(ctx, table.insertSQL())
		if err != nil {
			return 0, fmt.Errorf("prepare %s insert: %w", table.name, err)
		}

		for _, row := range table.rows {
			res, err := stmt.ExecContext(ctx, row...)
			if err != nil {
				stmt.Close()
				return 0, fmt.Errorf("seed %s: %w", table.name, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += n
			}
		}
		stmt.Close()

		if table.serial {
			if _, err := tx.ExecContext(ctx, table.resetSequenceSQL()); err != nil {
				return 0, fmt.Errorf("reset %s sequence: %w", table.name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return inserted, nil
}
