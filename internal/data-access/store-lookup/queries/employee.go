// internal/data-access/store-lookup/queries/employee.go
package queries

import (
	"context"

	"storebot/internal/models"
)

// EmployeeByName returns the first employee, by id, whose name contains fragment.
func EmployeeByName(ctx context.Context, q Querier, fragment string) (interface{}, int, error) {
	if fragment == "" {
		return nil, 0, ErrMissingParam
	}

	rows, err := q.QueryContext(ctx, `
		SELECT name, position, email
		FROM employees
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

	var e models.Employee
	if err := rows.Scan(&e.Name, &e.Position, &e.Email); err != nil {
		return nil, 0, err
	}
	return &e, 1, rows.Err()
}
