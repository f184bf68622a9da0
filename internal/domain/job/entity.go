package job

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("job not found")

type Type string

const (
	TypeFullTime   Type = "Full-time"
	TypeInternship Type = "Internship"
	TypeContract   Type = "Contract"
)

// ParseType maps an empty value to the Full-time default.
func ParseType(s string) (Type, bool) {
	switch Type(strings.TrimSpace(s)) {
	case "", TypeFullTime:
		return TypeFullTime, true
	case TypeInternship:
		return TypeInternship, true
	case TypeContract:
		return TypeContract, true
	default:
		return "", false
	}
}

// Job is owned by the recruiter in CreatedBy; the owner is fixed at creation.
type Job struct {
	ID          uuid.UUID
	Title       string
	Company     string
	Location    string
	JobType     Type
	Skills      []string
	Description string
	SalaryRange *string
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ListFilter struct {
	CreatedBy *uuid.UUID
	Limit     int
	Offset    int
}

type Repository interface {
	Create(ctx context.Context, j Job) error
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	List(ctx context.Context, f ListFilter) ([]Job, error)
	Count(ctx context.Context, f ListFilter) (int, error)
}
