package authz

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("resource not found")
)

// Require is the role gate.
func Require(p Principal, capability Capability) error {
	if !Allows(p.Role, capability) {
		return ErrForbidden
	}
	return nil
}

// OwnerLoader resolves the owning user of the target resource. It must
// return an error wrapping ErrNotFound when the resource, or the parent that
// carries the owner field, does not exist.
type OwnerLoader func(ctx context.Context) (uuid.UUID, error)

// RequireOwner is the ownership gate. A missing resource always wins over an
// ownership mismatch.
func RequireOwner(ctx context.Context, p Principal, load OwnerLoader) error {
	if load == nil {
		return ErrNotFound
	}
	owner, err := load(ctx)
	if err != nil {
		return err
	}
	if owner == uuid.Nil || owner.String() != p.UserID.String() {
		return ErrForbidden
	}
	return nil
}
