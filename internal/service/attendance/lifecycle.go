package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/file"
)

// RecordAction implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecordAction(ctx context.Context, p auth.Principal, req attendance.RecordActionRequest) (attendance.AttendanceResponse, attendance.Transition, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, "", err
	}

	if p.Role != user.RoleUser || !p.HasEmployee() {
		return attendance.AttendanceResponse{}, "", fmt.Errorf("%w: only employees can check in or out", attendance.ErrUnauthorized)
	}
	if req.EmployeeID != nil && *req.EmployeeID != p.EmployeeID {
		return attendance.AttendanceResponse{}, "", fmt.Errorf("%w: cannot act for another employee", attendance.ErrUnauthorized)
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, p.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.AttendanceResponse{}, "", err
		}
		return attendance.AttendanceResponse{}, "", fmt.Errorf("failed to get employee: %w", err)
	}

	now := a.now()
	day := attendance.DayOf(now, a.loc)

	var (
		result     attendance.Attendance
		transition attendance.Transition
		uploaded   []string
	)

	err = a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// Only today's record may stay open.
		if _, err := a.closeStale(ctx, &emp.ID, day); err != nil {
			return err
		}

		existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, day.Date(), true)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}

		switch attendance.StateOf(existing) {
		case attendance.StateClosed:
			return attendance.ErrDayAlreadyClosed

		case attendance.StateNone:
			checkIn := now
			if req.CheckInTime != nil {
				checkIn = *req.CheckInTime
			}
			if !day.Contains(checkIn) {
				return validator.ValidationErrors{{Field: "checkInTime", Message: "checkInTime must fall within the current day"}}
			}

			photo, err := a.uploadPhoto(ctx, emp.ID, day.Date(), file.PhotoCheckIn, req.CheckInPhoto, &uploaded)
			if err != nil {
				return err
			}

			result, err = a.AttendanceRepository.Create(ctx, attendance.Attendance{
				EmployeeID:      emp.ID,
				Date:            day.Date(),
				CheckInTime:     checkIn,
				CheckInPhoto:    photo,
				CheckInLocation: req.CheckInLocation,
			})
			if err != nil {
				if errors.Is(err, attendance.ErrDuplicateAttendance) {
					return err
				}
				return fmt.Errorf("failed to create attendance: %w", err)
			}
			transition = attendance.TransitionCheckedIn

		case attendance.StateOpen:
			checkOut := now
			if req.CheckOutTime != nil {
				checkOut = *req.CheckOutTime
			}
			if checkOut.Before(existing.CheckInTime) {
				return validator.ValidationErrors{{Field: "checkOutTime", Message: "checkOutTime must not precede checkInTime"}}
			}

			photo, err := a.uploadPhoto(ctx, emp.ID, day.Date(), file.PhotoCheckOut, req.CheckOutPhoto, &uploaded)
			if err != nil {
				return err
			}

			existing.CheckOutTime = &checkOut
			existing.CheckOutPhoto = photo
			existing.CheckOutLocation = req.CheckOutLocation

			result, err = a.AttendanceRepository.Update(ctx, *existing)
			if err != nil {
				return fmt.Errorf("failed to check out: %w", err)
			}
			transition = attendance.TransitionCheckedOut
		}
		return nil
	})
	if err != nil {
		a.discardPhotos(ctx, uploaded)
		return attendance.AttendanceResponse{}, "", err
	}

	result.Employee = &emp
	return a.toResponse(ctx, result), transition, nil
}

// CloseStaleRecords implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CloseStaleRecords(ctx context.Context) (int, error) {
	var closed int
	err := a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		closed, err = a.closeStale(ctx, nil, a.today())
		return err
	})
	if err != nil {
		return 0, err
	}
	if closed > 0 {
		slog.InfoContext(ctx, "Closed stale attendances", "count", closed)
	}
	return closed, nil
}

// closeStale checks out open records dated before today at the end of their
// own day. employeeID narrows the sweep to one employee.
func (a *AttendanceServiceImpl) closeStale(ctx context.Context, employeeID *string, today attendance.Day) (int, error) {
	stale, err := a.AttendanceRepository.ListOpenBefore(ctx, employeeID, today.Date(), true)
	if err != nil {
		return 0, fmt.Errorf("failed to get stale attendances: %w", err)
	}

	for i, rec := range stale {
		checkOut := attendance.DayOfDate(rec.Date, a.loc).End
		if checkOut.Before(rec.CheckInTime) {
			checkOut = rec.CheckInTime
		}
		rec.CheckOutTime = &checkOut

		if _, err := a.AttendanceRepository.Update(ctx, rec); err != nil {
			return i, fmt.Errorf("failed to close stale attendance %s: %w", rec.ID, err)
		}
	}
	return len(stale), nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, p auth.Principal) (attendance.AttendanceResponse, error) {
	if !p.HasEmployee() {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	rec, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, p.EmployeeID, a.today().Date(), false)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if rec == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	return a.toResponse(ctx, *rec), nil
}
