package employee

import "context"

type EmployeeRepository interface {
	// GetByID returns the employee with its company, excluding soft-deleted rows.
	GetByID(ctx context.Context, id string) (Employee, error)
}
