package auth

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

// Principal is the authenticated identity attached to a request.
// EmployeeID and CompanyID are empty when the token carries none.
type Principal struct {
	UserID     string
	EmployeeID string
	CompanyID  string
	Role       user.Role
}

func (p Principal) HasEmployee() bool { return p.EmployeeID != "" }

func (p Principal) HasCompany() bool { return p.CompanyID != "" }

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
