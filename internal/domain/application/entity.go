package application

import (
	"context"
	"errors"
	"time"

	"hiresight/internal/domain/job"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("application not found")
	ErrDuplicate = errors.New("application already exists")
)

type Status string

const (
	StatusApplied     Status = "Applied"
	StatusUnderReview Status = "Under Review"
	StatusAccepted    Status = "Accepted"
	StatusRejected    Status = "Rejected"
)

// ParseStatus is exact-match: the stored values are the wire values.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusApplied, StatusUnderReview, StatusAccepted, StatusRejected:
		return Status(s), true
	default:
		return "", false
	}
}

// CanTransition allows every move between known statuses, including back to
// Applied. Recruiters may correct a status freely.
func CanTransition(from, to Status) bool {
	_, okFrom := ParseStatus(string(from))
	_, okTo := ParseStatus(string(to))
	return okFrom && okTo
}

type Application struct {
	ID             uuid.UUID
	JobID          uuid.UUID
	ApplicantEmail string
	ResumeLink     *string
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WithJob is an application with its parent job loaded. Job is nil when the
// parent row no longer exists.
type WithJob struct {
	Application
	Job *job.Job
}

type Repository interface {
	Create(ctx context.Context, a Application) error
	GetByID(ctx context.Context, id uuid.UUID) (Application, error)
	ExistsForApplicant(ctx context.Context, jobID uuid.UUID, email string) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	ListByApplicant(ctx context.Context, email string) ([]WithJob, error)
	ListByJobOwner(ctx context.Context, ownerID uuid.UUID) ([]WithJob, error)
}
