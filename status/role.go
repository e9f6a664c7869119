package status

import (
	"fmt"
	"strings"
)

// Role identifies which side of an agreement a node reports as.
type Role int

const (
	// RoleProvider is the side delivering work under an agreement
	RoleProvider Role = iota

	// RoleRequestor is the side paying for work under an agreement
	RoleRequestor
)

// InvalidRoleError is returned when a role slug or storage
// discriminant cannot be mapped to a known role.
type InvalidRoleError struct {
	Value string
}

func (e *InvalidRoleError) Error() string {
	return fmt.Sprintf("invalid agreement role: %s", e.Value)
}

// ParseRole maps a case-insensitive path slug ("provider" or "requestor")
// to a Role.
func ParseRole(slug string) (Role, error) {
	switch strings.ToLower(slug) {
	case "provider":
		return RoleProvider, nil
	case "requestor":
		return RoleRequestor, nil
	default:
		return Role(0), &InvalidRoleError{Value: slug}
	}
}

// DecodeRole maps the single-character storage discriminant ("P" or "R")
// to a Role.
func DecodeRole(code string) (Role, error) {
	switch code {
	case "P":
		return RoleProvider, nil
	case "R":
		return RoleRequestor, nil
	default:
		return Role(0), &InvalidRoleError{Value: code}
	}
}

// Code returns the single-character storage discriminant for the role.
func (r Role) Code() string {
	switch r {
	case RoleProvider:
		return "P"
	case RoleRequestor:
		return "R"
	}
	return ""
}

func (r Role) String() string {
	switch r {
	case RoleProvider:
		return "provider"
	case RoleRequestor:
		return "requestor"
	}
	return ""
}
