package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"hiresight/internal/authz"
	"hiresight/internal/domain/application"
	"hiresight/internal/domain/job"
	"hiresight/internal/domain/user"

	"github.com/google/uuid"
)

// ApplicationNotifier receives best-effort events after a write commits.
// Implementations must not block.
type ApplicationNotifier interface {
	ApplicationCreated(ownerID uuid.UUID, a application.Application, j job.Job)
	ApplicationStatusChanged(a application.Application, j job.Job)
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, p authz.Principal, jobID string) (application.Application, error)
	List(ctx context.Context, email string, p *authz.Principal) ([]application.WithJob, error)
	UpdateStatus(ctx context.Context, p authz.Principal, id string, status string) error
}

type Applications struct {
	apps     application.Repository
	jobs     job.Repository
	users    user.Repository
	notifier ApplicationNotifier
	logger   *log.Logger

	now func() time.Time
}

func NewApplicationUsecase(apps application.Repository, jobs job.Repository, users user.Repository, notifier ApplicationNotifier, logger *log.Logger) *Applications {
	return &Applications{
		apps:     apps,
		jobs:     jobs,
		users:    users,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (u *Applications) Apply(ctx context.Context, p authz.Principal, jobIDRaw string) (application.Application, error) {
	if err := authz.Require(p, authz.CapApply); err != nil {
		return application.Application{}, ErrForbidden
	}

	jobIDRaw = strings.TrimSpace(jobIDRaw)
	if jobIDRaw == "" {
		return application.Application{}, ErrJobIDRequired
	}
	jobID, err := uuid.Parse(jobIDRaw)
	if err != nil {
		return application.Application{}, ErrJobNotFound
	}

	applicant, err := u.users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return application.Application{}, ErrResumeRequired
		}
		return application.Application{}, ErrInternal
	}
	if !applicant.HasResume() {
		return application.Application{}, ErrResumeRequired
	}

	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return application.Application{}, ErrJobNotFound
		}
		return application.Application{}, ErrInternal
	}

	exists, err := u.apps.ExistsForApplicant(ctx, jobID, applicant.Email)
	if err != nil {
		return application.Application{}, ErrInternal
	}
	if exists {
		return application.Application{}, ErrAlreadyApplied
	}

	now := u.now().UTC()
	resume := *applicant.Resume
	a := application.Application{
		ID:             uuid.New(),
		JobID:          jobID,
		ApplicantEmail: applicant.Email,
		ResumeLink:     &resume,
		Status:         application.StatusApplied,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// The pre-check above is not atomic; the unique index turns the losing
	// side of a concurrent submission into ErrDuplicate here.
	if err := u.apps.Create(ctx, a); err != nil {
		switch {
		case errors.Is(err, application.ErrDuplicate):
			return application.Application{}, ErrAlreadyApplied
		case errors.Is(err, job.ErrNotFound):
			return application.Application{}, ErrJobNotFound
		default:
			return application.Application{}, ErrInternal
		}
	}

	if u.notifier != nil {
		u.notifier.ApplicationCreated(j.CreatedBy, a, j)
	}
	return a, nil
}

// List resolves which applications the caller sees. An explicit email wins;
// otherwise recruiters see applications to their jobs and everyone else sees
// their own. Anonymous callers get an empty list.
func (u *Applications) List(ctx context.Context, email string, p *authz.Principal) ([]application.WithJob, error) {
	var (
		out []application.WithJob
		err error
	)
	email = strings.TrimSpace(email)
	switch {
	case email != "":
		out, err = u.apps.ListByApplicant(ctx, email)
	case p == nil:
		return []application.WithJob{}, nil
	case authz.Allows(p.Role, authz.CapListReceivedApplication):
		out, err = u.apps.ListByJobOwner(ctx, p.UserID)
	default:
		out, err = u.apps.ListByApplicant(ctx, p.Email)
	}
	if err != nil {
		return nil, ErrInternal
	}
	if out == nil {
		out = []application.WithJob{}
	}
	return out, nil
}

func (u *Applications) UpdateStatus(ctx context.Context, p authz.Principal, idRaw string, statusRaw string) error {
	if err := authz.Require(p, authz.CapUpdateApplicationStatus); err != nil {
		return ErrForbidden
	}

	status, ok := application.ParseStatus(statusRaw)
	if !ok {
		return ErrInvalidStatus
	}

	id, err := uuid.Parse(strings.TrimSpace(idRaw))
	if err != nil {
		return ErrInvalidApplicationID
	}

	var (
		current application.Application
		parent  job.Job
	)
	err = authz.RequireOwner(ctx, p, func(ctx context.Context) (uuid.UUID, error) {
		a, err := u.apps.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, application.ErrNotFound) {
				return uuid.Nil, fmt.Errorf("application %s: %w", id, authz.ErrNotFound)
			}
			return uuid.Nil, err
		}
		j, err := u.jobs.GetByID(ctx, a.JobID)
		if err != nil {
			if errors.Is(err, job.ErrNotFound) {
				return uuid.Nil, fmt.Errorf("job %s of application %s: %w", a.JobID, id, authz.ErrNotFound)
			}
			return uuid.Nil, err
		}
		current, parent = a, j
		return j.CreatedBy, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, authz.ErrNotFound):
			return ErrApplicationNotFound
		case errors.Is(err, authz.ErrForbidden):
			return ErrNotAllowed
		default:
			return ErrInternal
		}
	}

	if !application.CanTransition(current.Status, status) {
		return ErrInvalidStatus
	}

	if err := u.apps.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return ErrApplicationNotFound
		}
		return ErrInternal
	}

	if u.notifier != nil {
		current.Status = status
		current.UpdatedAt = u.now().UTC()
		u.notifier.ApplicationStatusChanged(current, parent)
	}
	return nil
}
