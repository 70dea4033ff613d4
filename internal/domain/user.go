package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// DefaultRole is assigned when registration omits a role.
const DefaultRole = RoleStudent

// ParseRole accepts the wire values and their long-form aliases.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultRole, nil
	case "admin", "administrator":
		return RoleAdmin, nil
	case "teacher", "instructor":
		return RoleTeacher, nil
	case "student", "learner":
		return RoleStudent, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User represents an account of the platform. PasswordHash is only populated
// on records read from the credential store and never leaves the service layer.
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	IsActive     bool
	AvatarURL    string
	CreatedAt    time.Time
}

// Public returns a copy of the user without the password hash.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.PasswordHash = ""
	return &cp
}

// NormalizeEmail is the canonical form used as the identity key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
