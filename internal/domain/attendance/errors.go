package attendance

import "errors"

var (
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrDayAlreadyClosed    = errors.New("attendance for today is already complete")
	ErrDuplicateAttendance = errors.New("attendance for this employee and day already exists")
	ErrAlreadyCheckedOut   = errors.New("attendance has already been checked out")
	ErrCheckInImmutable    = errors.New("check-in time cannot be changed")
	ErrUnauthorized        = errors.New("unauthorized to access this attendance record")
)
