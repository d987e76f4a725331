package attendance

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

// ScopeFor returns the visibility constraint for p, optionally pinned to recordID.
// Roles outside the closed set, and principals missing the identity their role
// is scoped by, get no scope at all.
func ScopeFor(p auth.Principal, recordID *string) (attendance.Scope, error) {
	scope := attendance.Scope{ID: recordID}

	switch p.Role {
	case user.RoleUser:
		if !p.HasEmployee() {
			return attendance.Scope{}, fmt.Errorf("%w: principal has no employee", attendance.ErrUnauthorized)
		}
		employeeID := p.EmployeeID
		scope.EmployeeID = &employeeID
	case user.RoleCompanyOwner:
		if !p.HasCompany() {
			return attendance.Scope{}, fmt.Errorf("%w: principal has no company", attendance.ErrUnauthorized)
		}
		companyID := p.CompanyID
		scope.CompanyID = &companyID
	case user.RoleSuperAdmin:
	default:
		return attendance.Scope{}, fmt.Errorf("%w: role %q", attendance.ErrUnauthorized, p.Role)
	}

	return scope, nil
}

// Authorize checks that p may perform action on rec. rec must carry its employee
// for company-scoped principals.
func Authorize(rec attendance.Attendance, p auth.Principal, action attendance.Action) error {
	scope, err := ScopeFor(p, &rec.ID)
	if err != nil {
		return err
	}
	if !scope.Matches(rec) {
		return fmt.Errorf("%w: cannot %s record %s", attendance.ErrUnauthorized, action, rec.ID)
	}
	return nil
}
