package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
)

type Employee struct {
	ID        string
	CompanyID string
	FirstName string
	LastName  string
	CreatedAt time.Time
	DeletedAt *time.Time

	// Company is populated by joined reads only.
	Company *company.Company
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func (e Employee) IsDeleted() bool { return e.DeletedAt != nil }

// EmployeeSummary is the display form embedded in attendance responses.
type EmployeeSummary struct {
	ID        string                  `json:"id"`
	FirstName string                  `json:"firstName"`
	LastName  string                  `json:"lastName"`
	FullName  string                  `json:"fullName"`
	CompanyID string                  `json:"companyId"`
	Company   *company.CompanySummary `json:"company,omitempty"`
}

func (e Employee) Summary() EmployeeSummary {
	s := EmployeeSummary{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		FullName:  e.FullName(),
		CompanyID: e.CompanyID,
	}
	if e.Company != nil {
		c := e.Company.Summary()
		s.Company = &c
	}
	return s
}
