// internal/data-access/store-lookup/queries/order.go
package queries

import (
	"context"

	"storebot/internal/models"
)

// OrdersByCustomer returns every order placed by customers whose name contains fragment.
func OrdersByCustomer(ctx context.Context, q Querier, fragment string) (interface{}, int, error) {
	if fragment == "" {
		return nil, 0, ErrMissingParam
	}

	rows, err := q.QueryContext(ctx, `
		SELECT c.name, o.id, o.order_date, o.total
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE c.name ILIKE $1
		ORDER BY o.id`, containsPattern(fragment))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.CustomerName, &o.OrderID, &o.OrderDate, &o.Total); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return orders, len(orders), nil
}
