package attendance

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/file"
)

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, p auth.Principal, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	scope, err := ScopeFor(p, nil)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	from, to := filter.DateRange()
	records, total, err := a.AttendanceRepository.List(ctx, attendance.ListQuery{
		Scope:      scope,
		FromDate:   from,
		ToDate:     to,
		EmployeeID: filter.EmployeeID,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	data := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		data = append(data, a.toResponse(ctx, rec))
	}

	return attendance.ListAttendanceResponse{
		Data: data,
		Meta: attendance.NewPageMeta(total, filter.Limit, filter.Offset),
	}, nil
}

// Get implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Get(ctx context.Context, p auth.Principal, id string) (attendance.AttendanceResponse, error) {
	rec, err := a.getAuthorized(ctx, p, id, attendance.ActionView, false)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return a.toResponse(ctx, rec), nil
}

// Update implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Update(ctx context.Context, p auth.Principal, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var (
		result   attendance.Attendance
		uploaded []string
		replaced []string
	)

	err := a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := a.getAuthorized(ctx, p, req.ID, attendance.ActionUpdate, true)
		if err != nil {
			return err
		}

		if req.CheckInTime != nil && !req.CheckInTime.Equal(rec.CheckInTime) {
			return attendance.ErrCheckInImmutable
		}

		if req.CheckOutTime != nil {
			switch {
			case rec.CheckOutTime != nil && !req.CheckOutTime.Equal(*rec.CheckOutTime):
				return attendance.ErrAlreadyCheckedOut
			case req.CheckOutTime.Before(rec.CheckInTime):
				return validator.ValidationErrors{{Field: "checkOutTime", Message: "checkOutTime must not precede checkInTime"}}
			}
			rec.CheckOutTime = req.CheckOutTime
		}

		if req.CheckInLocation != nil {
			rec.CheckInLocation = req.CheckInLocation
		}
		if req.CheckOutLocation != nil {
			rec.CheckOutLocation = req.CheckOutLocation
		}

		if req.CheckInPhoto != nil {
			photo, err := a.uploadPhoto(ctx, rec.EmployeeID, rec.Date, file.PhotoCheckIn, req.CheckInPhoto, &uploaded)
			if err != nil {
				return err
			}
			if rec.CheckInPhoto != nil {
				replaced = append(replaced, *rec.CheckInPhoto)
			}
			rec.CheckInPhoto = photo
		}
		if req.CheckOutPhoto != nil {
			photo, err := a.uploadPhoto(ctx, rec.EmployeeID, rec.Date, file.PhotoCheckOut, req.CheckOutPhoto, &uploaded)
			if err != nil {
				return err
			}
			if rec.CheckOutPhoto != nil {
				replaced = append(replaced, *rec.CheckOutPhoto)
			}
			rec.CheckOutPhoto = photo
		}

		emp := rec.Employee
		result, err = a.AttendanceRepository.Update(ctx, rec)
		if err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		result.Employee = emp
		return nil
	})
	if err != nil {
		a.discardPhotos(ctx, uploaded)
		return attendance.AttendanceResponse{}, err
	}

	a.discardPhotos(ctx, replaced)
	return a.toResponse(ctx, result), nil
}

// Delete implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Delete(ctx context.Context, p auth.Principal, id string) error {
	return a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := a.getAuthorized(ctx, p, id, attendance.ActionDelete, true); err != nil {
			return err
		}
		if err := a.AttendanceRepository.SoftDelete(ctx, id); err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) {
				return err
			}
			return fmt.Errorf("failed to delete attendance: %w", err)
		}
		return nil
	})
}

func (a *AttendanceServiceImpl) getAuthorized(ctx context.Context, p auth.Principal, id string, action attendance.Action, forUpdate bool) (attendance.Attendance, error) {
	if !validator.IsValidUUID(id) {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}

	rec, err := a.AttendanceRepository.GetByID(ctx, id, forUpdate)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Attendance{}, err
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	if err := Authorize(rec, p, action); err != nil {
		return attendance.Attendance{}, err
	}
	return rec, nil
}
