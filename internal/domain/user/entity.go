package user

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleUser         Role = "USER"          // Employee acting on their own records
	RoleCompanyOwner Role = "COMPANY_OWNER" // Sees every employee of one company
	RoleSuperAdmin   Role = "SUPER_ADMIN"   // Platform operator, unrestricted
)

// legacyRoles maps role names still present in older tokens and rows.
var legacyRoles = map[string]Role{
	"CLIENT": RoleCompanyOwner,
	"ADMIN":  RoleSuperAdmin,
}

// ParseRole accepts the canonical role names and their legacy spellings.
func ParseRole(s string) (Role, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	switch Role(normalized) {
	case RoleUser, RoleCompanyOwner, RoleSuperAdmin:
		return Role(normalized), nil
	}
	if role, ok := legacyRoles[normalized]; ok {
		return role, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleCompanyOwner, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string
	Email        string
	PasswordHash *string
	GoogleID     *string
	Role         Role
	EmployeeID   *string
	CompanyID    *string
}
