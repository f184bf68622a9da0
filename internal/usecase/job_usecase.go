package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"hiresight/internal/authz"
	"hiresight/internal/domain/job"

	"github.com/google/uuid"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type CreateJobInput struct {
	Title       string
	Company     string
	Location    string
	JobType     string
	Skills      []string
	Description string
	SalaryRange *string
}

type JobListParams struct {
	Page  int
	Limit int
	// Owner restricts the listing to jobs created by this caller.
	Owner *authz.Principal
}

type JobPage struct {
	Jobs        []job.Job `json:"jobs"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
	TotalJobs   int       `json:"totalJobs"`
}

type JobUsecase interface {
	Create(ctx context.Context, p authz.Principal, in CreateJobInput) (job.Job, error)
	List(ctx context.Context, params JobListParams) (JobPage, error)
	Get(ctx context.Context, id uuid.UUID) (job.Job, error)
}

type Jobs struct {
	jobs   job.Repository
	cache  JobCache
	ttl    time.Duration
	logger *log.Logger

	now func() time.Time
}

func NewJobUsecase(jobs job.Repository, cache JobCache, ttl time.Duration, logger *log.Logger) *Jobs {
	return &Jobs{jobs: jobs, cache: cache, ttl: ttl, logger: logger, now: time.Now}
}

func (u *Jobs) Create(ctx context.Context, p authz.Principal, in CreateJobInput) (job.Job, error) {
	if err := authz.Require(p, authz.CapCreateJob); err != nil {
		return job.Job{}, ErrForbidden
	}

	title := strings.TrimSpace(in.Title)
	company := strings.TrimSpace(in.Company)
	location := strings.TrimSpace(in.Location)
	description := strings.TrimSpace(in.Description)
	skills := cleanSkills(in.Skills)
	if title == "" || company == "" || location == "" || description == "" || len(skills) == 0 {
		return job.Job{}, ErrJobFieldsMissing
	}

	jobType, ok := job.ParseType(in.JobType)
	if !ok {
		return job.Job{}, ErrInvalidJobType
	}

	var salary *string
	if in.SalaryRange != nil {
		if s := strings.TrimSpace(*in.SalaryRange); s != "" {
			salary = &s
		}
	}

	now := u.now().UTC()
	j := job.Job{
		ID:          uuid.New(),
		Title:       title,
		Company:     company,
		Location:    location,
		JobType:     jobType,
		Skills:      skills,
		Description: description,
		SalaryRange: salary,
		CreatedBy:   p.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.jobs.Create(ctx, j); err != nil {
		return job.Job{}, ErrInternal
	}

	if u.cache != nil {
		if err := u.cache.DeleteByPattern(ctx, jobsListCachePattern); err != nil && u.logger != nil {
			u.logger.Printf("[Jobs] Cache invalidate failed: %v", err)
		}
	}
	return j, nil
}

func (u *Jobs) List(ctx context.Context, params JobListParams) (JobPage, error) {
	page, limit := NormalizePage(params.Page, params.Limit)

	f := job.ListFilter{Limit: limit, Offset: (page - 1) * limit}
	if params.Owner != nil {
		if err := authz.Require(*params.Owner, authz.CapListOwnJobs); err != nil {
			return JobPage{}, ErrForbidden
		}
		owner := params.Owner.UserID
		f.CreatedBy = &owner
	}

	cacheKey := ""
	if f.CreatedBy == nil && u.cache != nil {
		cacheKey = JobsListCacheKey(page, limit)
		var cached JobPage
		hit, err := u.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && hit {
			if u.logger != nil {
				u.logger.Printf("[Jobs] Cache HIT: %s", cacheKey)
			}
			return cached, nil
		}
		if u.logger != nil {
			u.logger.Printf("[Jobs] Cache MISS: %s", cacheKey)
		}
	}

	items, err := u.jobs.List(ctx, f)
	if err != nil {
		return JobPage{}, ErrInternal
	}
	total, err := u.jobs.Count(ctx, f)
	if err != nil {
		return JobPage{}, ErrInternal
	}

	out := JobPage{
		Jobs:        items,
		CurrentPage: page,
		TotalPages:  totalPages(total, limit),
		TotalJobs:   total,
	}
	if out.Jobs == nil {
		out.Jobs = []job.Job{}
	}

	if cacheKey != "" {
		_ = u.cache.SetJSON(ctx, cacheKey, out, u.ttl)
	}
	return out, nil
}

func (u *Jobs) Get(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, ErrInternal
	}
	return j, nil
}

// NormalizePage falls back to the defaults for non-positive values and caps
// the page size.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func totalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
