package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

// ParseRole accepts only the three known roles, case-insensitively.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCandidate:
		return RoleCandidate, true
	case RoleRecruiter:
		return RoleRecruiter, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// SelfRegisterRole is the role granted at sign-up. Only "recruiter" can be
// requested; everything else, admin included, falls back to candidate.
func SelfRegisterRole(requested string) Role {
	if r, ok := ParseRole(requested); ok && r == RoleRecruiter {
		return RoleRecruiter
	}
	return RoleCandidate
}

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Resume       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) HasResume() bool {
	return u.Resume != nil && strings.TrimSpace(*u.Resume) != ""
}
