package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			e.id, e.company_id, e.first_name, e.last_name, e.created_at, e.deleted_at,
			c.id, c.name, c.created_at, c.deleted_at
		FROM employees e
		JOIN companies c ON c.id = e.company_id
		WHERE e.id = $1 AND e.deleted_at IS NULL
	`

	var (
		emp employee.Employee
		co  company.Company
	)
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID,
		&emp.CompanyID,
		&emp.FirstName,
		&emp.LastName,
		&emp.CreatedAt,
		&emp.DeletedAt,
		&co.ID,
		&co.Name,
		&co.CreatedAt,
		&co.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}

	emp.Company = &co
	return emp, nil
}
