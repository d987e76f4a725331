package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	maxLocationLength = 255
)

// RecordActionRequest is a check-in or check-out submission. Which half applies
// is decided by the current state of the day, not by the payload.
type RecordActionRequest struct {
	EmployeeID       *string    `json:"employeeId,omitempty"`
	CheckInTime      *time.Time `json:"checkInTime,omitempty"`
	CheckInPhoto     *string    `json:"checkInPhoto,omitempty"`
	CheckInLocation  *string    `json:"checkInLocation,omitempty"`
	CheckOutTime     *time.Time `json:"checkOutTime,omitempty"`
	CheckOutPhoto    *string    `json:"checkOutPhoto,omitempty"`
	CheckOutLocation *string    `json:"checkOutLocation,omitempty"`
}

func (r *RecordActionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs.Add("employeeId", "employeeId must be a valid UUID")
	}
	validateLocation(&errs, "checkInLocation", r.CheckInLocation)
	validateLocation(&errs, "checkOutLocation", r.CheckOutLocation)
	validatePhoto(&errs, "checkInPhoto", r.CheckInPhoto)
	validatePhoto(&errs, "checkOutPhoto", r.CheckOutPhoto)

	return errs.Err()
}

// UpdateAttendanceRequest corrects fields of an existing record.
type UpdateAttendanceRequest struct {
	ID               string     `json:"-"`
	CheckInTime      *time.Time `json:"checkInTime,omitempty"`
	CheckInPhoto     *string    `json:"checkInPhoto,omitempty"`
	CheckInLocation  *string    `json:"checkInLocation,omitempty"`
	CheckOutTime     *time.Time `json:"checkOutTime,omitempty"`
	CheckOutPhoto    *string    `json:"checkOutPhoto,omitempty"`
	CheckOutLocation *string    `json:"checkOutLocation,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.CheckInTime == nil && r.CheckInPhoto == nil && r.CheckInLocation == nil &&
		r.CheckOutTime == nil && r.CheckOutPhoto == nil && r.CheckOutLocation == nil {
		errs.Add("body", "at least one field must be provided")
	}
	validateLocation(&errs, "checkInLocation", r.CheckInLocation)
	validateLocation(&errs, "checkOutLocation", r.CheckOutLocation)
	validatePhoto(&errs, "checkInPhoto", r.CheckInPhoto)
	validatePhoto(&errs, "checkOutPhoto", r.CheckOutPhoto)

	return errs.Err()
}

type AttendanceFilter struct {
	FromDate   *string // YYYY-MM-DD, inclusive
	ToDate     *string // YYYY-MM-DD, inclusive
	EmployeeID *string
	Limit      int
	Offset     int
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	var from, to time.Time
	var fromOK, toOK bool
	if f.FromDate != nil {
		if from, fromOK = validator.IsValidDate(*f.FromDate); !fromOK {
			errs.Add("fromDate", "fromDate must be in YYYY-MM-DD format")
		}
	}
	if f.ToDate != nil {
		if to, toOK = validator.IsValidDate(*f.ToDate); !toOK {
			errs.Add("toDate", "toDate must be in YYYY-MM-DD format")
		}
	}
	if fromOK && toOK && to.Before(from) {
		errs.Add("toDate", "toDate must not be before fromDate")
	}

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employeeId", "employeeId must be a valid UUID")
	}

	if f.Limit < 1 {
		errs.Add("limit", "limit must be at least 1")
	} else if f.Limit > MaxLimit {
		errs.Add("limit", "limit must not exceed 100")
	}
	if f.Offset < 0 {
		errs.Add("offset", "offset must not be negative")
	}

	return errs.Err()
}

// DateRange returns the parsed bounds. Call after Validate.
func (f *AttendanceFilter) DateRange() (from, to *time.Time) {
	if f.FromDate != nil {
		if t, ok := validator.IsValidDate(*f.FromDate); ok {
			from = &t
		}
	}
	if f.ToDate != nil {
		if t, ok := validator.IsValidDate(*f.ToDate); ok {
			to = &t
		}
	}
	return from, to
}

type AttendanceResponse struct {
	ID               string                    `json:"id"`
	EmployeeID       string                    `json:"employeeId"`
	Date             string                    `json:"date"`
	State            State                     `json:"state"`
	CheckInTime      time.Time                 `json:"checkInTime"`
	CheckInPhoto     *string                   `json:"checkInPhoto"`
	CheckInLocation  *string                   `json:"checkInLocation"`
	CheckOutTime     *time.Time                `json:"checkOutTime"`
	CheckOutPhoto    *string                   `json:"checkOutPhoto"`
	CheckOutLocation *string                   `json:"checkOutLocation"`
	CreatedAt        time.Time                 `json:"createdAt"`
	UpdatedAt        time.Time                 `json:"updatedAt"`
	Employee         *employee.EmployeeSummary `json:"employee,omitempty"`
}

// ToResponse maps a record to its API form. photoURL resolves stored photo
// references and may be nil.
func ToResponse(a Attendance, photoURL func(string) string) AttendanceResponse {
	resp := AttendanceResponse{
		ID:               a.ID,
		EmployeeID:       a.EmployeeID,
		Date:             a.Date.Format(validator.DateLayout),
		State:            StateOf(&a),
		CheckInTime:      a.CheckInTime,
		CheckInPhoto:     resolve(a.CheckInPhoto, photoURL),
		CheckInLocation:  a.CheckInLocation,
		CheckOutTime:     a.CheckOutTime,
		CheckOutPhoto:    resolve(a.CheckOutPhoto, photoURL),
		CheckOutLocation: a.CheckOutLocation,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
	if a.Employee != nil {
		s := a.Employee.Summary()
		resp.Employee = &s
	}
	return resp
}

type PageMeta struct {
	Total      int64 `json:"total"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
}

// NewPageMeta derives page numbers from an offset window. limit must be positive.
func NewPageMeta(total int64, limit, offset int) PageMeta {
	return PageMeta{
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		Page:       offset/limit + 1,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}
}

type ListAttendanceResponse struct {
	Data []AttendanceResponse
	Meta PageMeta
}

func validateLocation(errs *validator.ValidationErrors, field string, v *string) {
	if v != nil && len(*v) > maxLocationLength {
		errs.Add(field, field+" must not exceed 255 characters")
	}
}

func validatePhoto(errs *validator.ValidationErrors, field string, v *string) {
	if v != nil && validator.IsEmpty(*v) {
		errs.Add(field, field+" must not be empty when provided")
	}
}

func resolve(ref *string, photoURL func(string) string) *string {
	if ref == nil || photoURL == nil {
		return ref
	}
	url := photoURL(*ref)
	return &url
}
