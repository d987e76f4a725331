package attendance

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/file"
)

const photoURLExpiry = 15 * time.Minute

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	employee.EmployeeRepository
	fileService file.FileService

	loc *time.Location
	now func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		fileService:          fileService,
		loc:                  loc,
		now:                  time.Now,
	}
}

func (a *AttendanceServiceImpl) today() attendance.Day {
	return attendance.DayOf(a.now(), a.loc)
}

func (a *AttendanceServiceImpl) toResponse(ctx context.Context, rec attendance.Attendance) attendance.AttendanceResponse {
	return attendance.ToResponse(rec, func(key string) string {
		url, err := a.fileService.GetFileURL(ctx, key, photoURLExpiry)
		if err != nil {
			slog.WarnContext(ctx, "failed to resolve attendance photo url", "key", key, "error", err)
			return key
		}
		return url
	})
}

// uploadPhoto stores payload when present. Stored keys are appended to uploaded
// so the caller can remove them if the surrounding write fails.
func (a *AttendanceServiceImpl) uploadPhoto(ctx context.Context, employeeID string, day time.Time, kind file.PhotoKind, payload *string, uploaded *[]string) (*string, error) {
	if payload == nil {
		return nil, nil
	}
	key, err := a.fileService.UploadAttendancePhoto(ctx, employeeID, day, kind, *payload)
	if err != nil {
		return nil, err
	}
	*uploaded = append(*uploaded, key)
	return &key, nil
}

// discardPhotos removes stored photos best-effort.
func (a *AttendanceServiceImpl) discardPhotos(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := a.fileService.DeleteFile(ctx, key); err != nil {
			slog.ErrorContext(ctx, "failed to delete orphaned attendance photo", "key", key, "error", err)
		}
	}
}
