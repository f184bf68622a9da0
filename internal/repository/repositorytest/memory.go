// Package repositorytest provides in-memory repositories for tests. They
// enforce the same uniqueness rules as the SQL schema.
package repositorytest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"hiresight/internal/domain/application"
	"hiresight/internal/domain/job"
	"hiresight/internal/domain/user"

	"github.com/google/uuid"
)

type Users struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]user.User
	email map[string]uuid.UUID
}

func NewUsers() *Users {
	return &Users{
		byID:  map[uuid.UUID]user.User{},
		email: map[string]uuid.UUID{},
	}
}

func (r *Users) Create(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, ok := r.email[key]; ok {
		return user.ErrEmailTaken
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.UpdatedAt = u.CreatedAt
	r.byID[u.ID] = u
	r.email[key] = u.ID
	return nil
}

func (r *Users) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.email[strings.ToLower(email)]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *Users) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.email[strings.ToLower(email)]
	return ok, nil
}

func (r *Users) UpdateResume(_ context.Context, id uuid.UUID, resume string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Resume = &resume
	u.UpdatedAt = time.Now().UTC()
	r.byID[id] = u
	return nil
}

// Len returns the number of stored users.
func (r *Users) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type Jobs struct {
	mu   sync.Mutex
	byID map[uuid.UUID]job.Job
}

func NewJobs() *Jobs {
	return &Jobs{byID: map[uuid.UUID]job.Job{}}
}

func (r *Jobs) Create(_ context.Context, j job.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}
	j.UpdatedAt = j.CreatedAt
	r.byID[j.ID] = j
	return nil
}

func (r *Jobs) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.byID[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	return j, nil
}

func (r *Jobs) List(_ context.Context, f job.ListFilter) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.filtered(f)
	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	start := f.Offset
	if start < 0 {
		start = 0
	}
	if start >= len(all) {
		return []job.Job{}, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return append([]job.Job(nil), all[start:end]...), nil
}

func (r *Jobs) Count(_ context.Context, f job.ListFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.filtered(f)), nil
}

// Delete removes a job without touching its applications, leaving them
// dangling.
func (r *Jobs) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

func (r *Jobs) filtered(f job.ListFilter) []job.Job {
	out := make([]job.Job, 0, len(r.byID))
	for _, j := range r.byID {
		if f.CreatedBy != nil && j.CreatedBy != *f.CreatedBy {
			continue
		}
		out = append(out, j)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID.String() > out[b].ID.String()
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out
}

type Applications struct {
	mu   sync.Mutex
	jobs *Jobs
	byID map[uuid.UUID]application.Application
}

// NewApplications joins against jobs for the listing methods and for the
// foreign key check on Create.
func NewApplications(jobs *Jobs) *Applications {
	return &Applications{
		jobs: jobs,
		byID: map[uuid.UUID]application.Application{},
	}
}

func (r *Applications) Create(ctx context.Context, a application.Application) error {
	if _, err := r.jobs.GetByID(ctx, a.JobID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(a.ApplicantEmail)
	for _, existing := range r.byID {
		if existing.JobID == a.JobID && strings.ToLower(existing.ApplicantEmail) == email {
			return application.ErrDuplicate
		}
	}
	a.ApplicantEmail = email
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.UpdatedAt = a.CreatedAt
	r.byID[a.ID] = a
	return nil
}

func (r *Applications) GetByID(_ context.Context, id uuid.UUID) (application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return application.Application{}, application.ErrNotFound
	}
	return a, nil
}

func (r *Applications) ExistsForApplicant(_ context.Context, jobID uuid.UUID, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = strings.ToLower(email)
	for _, a := range r.byID {
		if a.JobID == jobID && a.ApplicantEmail == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *Applications) UpdateStatus(_ context.Context, id uuid.UUID, status application.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return application.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	r.byID[id] = a
	return nil
}

func (r *Applications) ListByApplicant(ctx context.Context, email string) ([]application.WithJob, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.list(ctx, func(a application.Application, j *job.Job) bool {
		return a.ApplicantEmail == email
	})
}

func (r *Applications) ListByJobOwner(ctx context.Context, ownerID uuid.UUID) ([]application.WithJob, error) {
	return r.list(ctx, func(a application.Application, j *job.Job) bool {
		return j != nil && j.CreatedBy == ownerID
	})
}

// Len returns the number of stored applications.
func (r *Applications) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *Applications) list(ctx context.Context, keep func(application.Application, *job.Job) bool) ([]application.WithJob, error) {
	r.mu.Lock()
	apps := make([]application.Application, 0, len(r.byID))
	for _, a := range r.byID {
		apps = append(apps, a)
	}
	r.mu.Unlock()

	out := make([]application.WithJob, 0)
	for _, a := range apps {
		var jp *job.Job
		if j, err := r.jobs.GetByID(ctx, a.JobID); err == nil {
			jp = &j
		}
		if keep(a, jp) {
			out = append(out, application.WithJob{Application: a, Job: jp})
		}
	}
	sort.Slice(out, func(x, y int) bool {
		return out[x].CreatedAt.After(out[y].CreatedAt)
	})
	return out, nil
}
