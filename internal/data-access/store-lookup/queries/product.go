// internal/data-access/store-lookup/queries/product.go
package queries

import (
	"context"

	"storebot/internal/models"
)

// ProductByName returns the first product, by id, whose name contains fragment.
func ProductByName(ctx context.Context, q Querier, fragment string) (interface{}, int, error) {
	if fragment == "" {
		return nil, 0, ErrMissingParam
	}

	rows, err := q.QueryContext(ctx, `
		SELECT name, description, price, stock_quantity
		FROM products
		WHERE name ILIKE $1
		ORDER BY id
		LIMIT 1`, containsPattern(fragment))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, 0, rows.Err()
	}

	var p models.Product
	if err := rows.Scan(&p.Name, &p.Description, &p.Price, &p.StockQuantity); err != nil {
		return nil, 0, err
	}
	return &p, 1, rows.Err()
}

// AllProductNames lists every product name in store order.
func AllProductNames(ctx context.Context, q Querier, _ string) (interface{}, int, error) {
	rows, err := q.QueryContext(ctx, `SELECT name FROM products ORDER BY id`)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, 0, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return names, len(names), nil
}
