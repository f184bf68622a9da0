// Package authz holds the access policy for the API: which role may invoke
// which operation, and how resource ownership is checked before a mutation.
package authz

import (
	"hiresight/internal/domain/user"

	"github.com/google/uuid"
)

type Capability string

const (
	CapCreateJob               Capability = "job:create"
	CapListOwnJobs             Capability = "job:list_own"
	CapApply                   Capability = "application:create"
	CapListReceivedApplication Capability = "application:list_received"
	CapUpdateApplicationStatus Capability = "application:update_status"
	CapUploadResume            Capability = "resume:upload"
)

// policy is the complete role -> capability table. There is no hierarchy:
// admin holds exactly what is listed here.
var policy = map[user.Role]map[Capability]struct{}{
	user.RoleCandidate: set(
		CapListOwnJobs,
		CapApply,
		CapUploadResume,
	),
	user.RoleRecruiter: set(
		CapCreateJob,
		CapListOwnJobs,
		CapApply,
		CapListReceivedApplication,
		CapUpdateApplicationStatus,
		CapUploadResume,
	),
	user.RoleAdmin: set(
		CapListOwnJobs,
		CapApply,
		CapUploadResume,
	),
}

func set(caps ...Capability) map[Capability]struct{} {
	m := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		m[c] = struct{}{}
	}
	return m
}

// Allows reports whether role holds capability. Unknown roles hold nothing.
func Allows(role user.Role, capability Capability) bool {
	caps, ok := policy[role]
	if !ok {
		return false
	}
	_, ok = caps[capability]
	return ok
}

// Principal is the caller identity recovered from a verified credential.
type Principal struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Role   user.Role
}
