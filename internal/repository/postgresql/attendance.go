package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.check_in_time, a.check_in_photo, a.check_in_location,
	a.check_out_time, a.check_out_photo, a.check_out_location,
	a.created_at, a.updated_at, a.deleted_at`

// attendanceReturning mirrors attendanceColumns for statements without the "a" alias.
const attendanceReturning = `
	id, employee_id, date, check_in_time, check_in_photo, check_in_location,
	check_out_time, check_out_photo, check_out_location,
	created_at, updated_at, deleted_at`

const joinedAttendanceSelect = `
	SELECT ` + attendanceColumns + `,
		e.id, e.company_id, e.first_name, e.last_name, e.created_at, e.deleted_at,
		c.id, c.name, c.created_at, c.deleted_at
	FROM attendances a
	JOIN employees e ON e.id = a.employee_id
	JOIN companies c ON c.id = e.company_id`

func attendanceFields(att *attendance.Attendance) []any {
	return []any{
		&att.ID, &att.EmployeeID, &att.Date, &att.CheckInTime, &att.CheckInPhoto, &att.CheckInLocation,
		&att.CheckOutTime, &att.CheckOutPhoto, &att.CheckOutLocation,
		&att.CreatedAt, &att.UpdatedAt, &att.DeletedAt,
	}
}

func scanJoinedAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		att attendance.Attendance
		emp employee.Employee
		co  company.Company
	)
	dest := append(attendanceFields(&att),
		&emp.ID, &emp.CompanyID, &emp.FirstName, &emp.LastName, &emp.CreatedAt, &emp.DeletedAt,
		&co.ID, &co.Name, &co.CreatedAt, &co.DeletedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return attendance.Attendance{}, err
	}
	emp.Company = &co
	att.Employee = &emp
	return att, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, err
	}

	query := `
		INSERT INTO attendances (
			id, employee_id, date, check_in_time, check_in_photo, check_in_location,
			check_out_time, check_out_photo, check_out_location
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + attendanceReturning

	var created attendance.Attendance
	err = q.QueryRow(ctx, query,
		id.String(),
		newAttendance.EmployeeID,
		newAttendance.Date,
		newAttendance.CheckInTime,
		newAttendance.CheckInPhoto,
		newAttendance.CheckInLocation,
		newAttendance.CheckOutTime,
		newAttendance.CheckOutPhoto,
		newAttendance.CheckOutLocation,
	).Scan(attendanceFields(&created)...)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrDuplicateAttendance
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return created, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string, forUpdate bool) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := joinedAttendanceSelect + `
		WHERE a.id = $1 AND a.deleted_at IS NULL`
	if forUpdate {
		query += " FOR UPDATE OF a"
	}

	att, err := scanJoinedAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, forUpdate bool) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := joinedAttendanceSelect + `
		WHERE a.employee_id = $1
		  AND a.date = $2
		  AND a.deleted_at IS NULL`
	if forUpdate {
		query += " FOR UPDATE OF a"
	}

	att, err := scanJoinedAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// ListOpenBefore implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenBefore(ctx context.Context, employeeID *string, date time.Time, forUpdate bool) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := joinedAttendanceSelect + `
		WHERE a.deleted_at IS NULL
		  AND a.check_out_time IS NULL
		  AND a.date < $1`
	args := []interface{}{date}
	if employeeID != nil {
		query += " AND a.employee_id = $2"
		args = append(args, *employeeID)
	}
	query += " ORDER BY a.date, a.id"
	if forUpdate {
		query += " FOR UPDATE OF a"
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query open attendances: %w", err)
	}
	defer rows.Close()

	var open []attendance.Attendance
	for rows.Next() {
		att, err := scanJoinedAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		open = append(open, att)
	}
	return open, rows.Err()
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_in_photo = $2,
			check_in_location = $3,
			check_out_time = $4,
			check_out_photo = $5,
			check_out_location = $6,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + attendanceReturning

	var updated attendance.Attendance
	err := q.QueryRow(ctx, query,
		att.ID,
		att.CheckInPhoto,
		att.CheckInLocation,
		att.CheckOutTime,
		att.CheckOutPhoto,
		att.CheckOutLocation,
	).Scan(attendanceFields(&updated)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return updated, nil
}

// SoftDelete implements attendance.AttendanceRepository.
func (a *attendanceRepository) SoftDelete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `
		UPDATE attendances
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// List implements attendance.AttendanceRepository. The page and the count run
// in one repeatable-read transaction so the total always matches the page.
func (a *attendanceRepository) List(ctx context.Context, lq attendance.ListQuery) ([]attendance.Attendance, int64, error) {
	baseWhere := "a.deleted_at IS NULL"
	args := []interface{}{}
	argIdx := 1

	addFilter := func(clause string, value interface{}) {
		baseWhere += fmt.Sprintf(" AND "+clause, argIdx)
		args = append(args, value)
		argIdx++
	}

	// Visibility scope
	if lq.Scope.ID != nil {
		addFilter("a.id = $%d", *lq.Scope.ID)
	}
	if lq.Scope.EmployeeID != nil {
		addFilter("a.employee_id = $%d", *lq.Scope.EmployeeID)
	}
	if lq.Scope.CompanyID != nil {
		addFilter("e.company_id = $%d", *lq.Scope.CompanyID)
	}

	// Filters
	if lq.EmployeeID != nil {
		addFilter("a.employee_id = $%d", *lq.EmployeeID)
	}
	if lq.FromDate != nil {
		addFilter("a.date >= $%d", *lq.FromDate)
	}
	if lq.ToDate != nil {
		addFilter("a.date <= $%d", *lq.ToDate)
	}

	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + baseWhere

	selectQuery := joinedAttendanceSelect + fmt.Sprintf(`
		WHERE %s
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $%d OFFSET $%d`, baseWhere, argIdx, argIdx+1)

	var (
		attendances = []attendance.Attendance{}
		total       int64
	)

	err := WithTransaction(ctx, a.db, snapshotRead, func(ctx context.Context) error {
		q := GetQuerier(ctx, a.db)

		if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
			return fmt.Errorf("failed to count attendances: %w", err)
		}

		rows, err := q.Query(ctx, selectQuery, append(args, lq.Limit, lq.Offset)...)
		if err != nil {
			return fmt.Errorf("failed to query attendances: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			att, err := scanJoinedAttendance(rows)
			if err != nil {
				return fmt.Errorf("failed to scan attendance: %w", err)
			}
			attendances = append(attendances, att)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	return attendances, total, nil
}
