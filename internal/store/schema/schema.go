// Package schema creates, seeds and inspects the store tables.
package schema

import (
	"context"
	"database/sql"
	"fmt"
)

// Statements are applied in order; each is safe to re-run.
var Statements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id   SERIAL PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		id            SERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		contact_email TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id             SERIAL PRIMARY KEY,
		name           TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		price          NUMERIC(10,2) NOT NULL,
		stock_quantity INTEGER NOT NULL DEFAULT 0,
		category_id    INTEGER REFERENCES categories (id)
	)`,
	`CREATE TABLE IF NOT EXISTS product_suppliers (
		product_id  INTEGER NOT NULL REFERENCES products (id),
		supplier_id INTEGER NOT NULL REFERENCES suppliers (id),
		PRIMARY KEY (product_id, supplier_id)
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id    SERIAL PRIMARY KEY,
		name  TEXT NOT NULL,
		email TEXT,
		phone TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id          SERIAL PRIMARY KEY,
		customer_id INTEGER NOT NULL REFERENCES customers (id),
		order_date  DATE NOT NULL,
		total       NUMERIC(10,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id         SERIAL PRIMARY KEY,
		order_id   INTEGER NOT NULL REFERENCES orders (id),
		product_id INTEGER NOT NULL REFERENCES products (id),
		quantity   INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS product_reviews (
		id          SERIAL PRIMARY KEY,
		product_id  INTEGER NOT NULL REFERENCES products (id),
		customer_id INTEGER NOT NULL REFERENCES customers (id),
		review      TEXT,
		rating      INTEGER CHECK (rating BETWEEN 1 AND 5)
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id       SERIAL PRIMARY KEY,
		name     TEXT NOT NULL,
		position TEXT NOT NULL,
		email    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS employee_roles (
		id        SERIAL PRIMARY KEY,
		role_name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS employee_role_assignments (
		employee_id INTEGER NOT NULL REFERENCES employees (id),
		role_id     INTEGER NOT NULL REFERENCES employee_roles (id),
		PRIMARY KEY (employee_id, role_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders (customer_id)`,
}

// Migrate creates every table in a single transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// ListTables returns the base tables of the public schema by name.
func ListTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}
