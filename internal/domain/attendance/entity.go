package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

type Attendance struct {
	ID               string
	EmployeeID       string
	Date             time.Time
	CheckInTime      time.Time
	CheckInPhoto     *string
	CheckInLocation  *string
	CheckOutTime     *time.Time
	CheckOutPhoto    *string
	CheckOutLocation *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time

	// Employee is populated by joined reads only.
	Employee *employee.Employee
}

// State is the position of one employee-day in the check-in/check-out lifecycle.
type State string

const (
	StateNone   State = "NONE"
	StateOpen   State = "OPEN"
	StateClosed State = "CLOSED"
)

// StateOf derives the lifecycle state from the day's record, nil meaning no record.
func StateOf(a *Attendance) State {
	switch {
	case a == nil || a.DeletedAt != nil:
		return StateNone
	case a.CheckOutTime == nil:
		return StateOpen
	default:
		return StateClosed
	}
}

// Transition reports which half of the lifecycle an action performed.
type Transition string

const (
	TransitionCheckedIn  Transition = "CHECKED_IN"
	TransitionCheckedOut Transition = "CHECKED_OUT"
)

// Action names what a principal wants to do with a single record.
type Action string

const (
	ActionView   Action = "view"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Day is the half-open interval [Start, End) of one calendar day in a fixed location.
type Day struct {
	Start time.Time
	End   time.Time
}

// DayOf returns the calendar day containing t, evaluated in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return Day{Start: start, End: start.AddDate(0, 0, 1)}
}

// DayOfDate returns the day in loc for a calendar date read from the date column.
func DayOfDate(date time.Time, loc *time.Location) Day {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return Day{Start: start, End: start.AddDate(0, 0, 1)}
}

// Date is the calendar date stored in the date column, as UTC midnight.
func (d Day) Date() time.Time {
	return time.Date(d.Start.Year(), d.Start.Month(), d.Start.Day(), 0, 0, 0, 0, time.UTC)
}

func (d Day) Contains(t time.Time) bool {
	return !t.Before(d.Start) && t.Before(d.End)
}

// Scope is the visibility constraint applied to attendance reads and writes.
// Nil fields do not restrict.
type Scope struct {
	ID         *string
	EmployeeID *string
	// CompanyID matches through the owning employee.
	CompanyID *string
}

// Matches reports whether a joined record satisfies the scope.
func (s Scope) Matches(a Attendance) bool {
	if s.ID != nil && a.ID != *s.ID {
		return false
	}
	if s.EmployeeID != nil && a.EmployeeID != *s.EmployeeID {
		return false
	}
	if s.CompanyID != nil && (a.Employee == nil || a.Employee.CompanyID != *s.CompanyID) {
		return false
	}
	return true
}
