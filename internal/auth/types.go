package auth

import (
	"fmt"
	"strings"
	"time"
)

// Role is the access level a user holds inside their organization.
// The set is fixed; there is no custom role machinery.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleViewer Role = "VIEWER"
)

// ParseRole normalizes and validates a role string.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleOwner:
		return RoleOwner, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleViewer:
		return RoleViewer, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User is a stored identity belonging to exactly one organization.
type User struct {
	ID           string    `json:"id"`
	OrgID        string    `json:"org_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the verified, request-scoped view of a User, rebuilt from
// token claims on every request. It is never persisted; the claims reflect
// the identity at issuance time and do not track later changes.
type Principal struct {
	SubjectID string
	Email     string
	Role      Role
	OrgID     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
