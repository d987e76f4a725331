package attendance

import (
	"context"
	"time"
)

// ListQuery is the repository form of a validated filter intersected with a scope.
type ListQuery struct {
	Scope      Scope
	FromDate   *time.Time
	ToDate     *time.Time
	EmployeeID *string
	Limit      int
	Offset     int
}

type AttendanceRepository interface {
	// Create fails with ErrDuplicateAttendance when the employee already has a record for the date.
	Create(ctx context.Context, a Attendance) (Attendance, error)

	// GetByID returns a non-deleted record joined with employee and company.
	// When forUpdate is set the row is locked for the surrounding transaction.
	GetByID(ctx context.Context, id string, forUpdate bool) (Attendance, error)

	// GetByEmployeeAndDate returns nil when the employee has no record for date.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, forUpdate bool) (*Attendance, error)

	// ListOpenBefore returns records without a check-out dated before date,
	// restricted to employeeID when set, oldest first.
	ListOpenBefore(ctx context.Context, employeeID *string, date time.Time, forUpdate bool) ([]Attendance, error)

	// Update writes the mutable columns of a.
	Update(ctx context.Context, a Attendance) (Attendance, error)

	// SoftDelete stamps deleted_at.
	SoftDelete(ctx context.Context, id string) error

	// List returns one page and the total count read from the same snapshot.
	List(ctx context.Context, q ListQuery) ([]Attendance, int64, error)
}
