package attendance

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
)

type AttendanceService interface {
	// RecordAction checks the principal in, or out if today's record is open.
	RecordAction(ctx context.Context, p auth.Principal, req RecordActionRequest) (AttendanceResponse, Transition, error)

	// GetTodayStatus returns the principal's record for today.
	GetTodayStatus(ctx context.Context, p auth.Principal) (AttendanceResponse, error)

	// CloseStaleRecords checks out every open record from a previous day at
	// the end of that day and reports how many were closed.
	CloseStaleRecords(ctx context.Context) (int, error)

	List(ctx context.Context, p auth.Principal, filter AttendanceFilter) (ListAttendanceResponse, error)
	Get(ctx context.Context, p auth.Principal, id string) (AttendanceResponse, error)
	Update(ctx context.Context, p auth.Principal, req UpdateAttendanceRequest) (AttendanceResponse, error)
	Delete(ctx context.Context, p auth.Principal, id string) error
}
