package repository

import (
	"context"
	"strings"
	"time"

	"hiresight/internal/database"
	"hiresight/internal/database/postgres"
	"hiresight/internal/domain/application"
	"hiresight/internal/domain/job"

	"github.com/google/uuid"
)

const applicationColumns = `a.id, a.job_id, a.applicant_email, a.resume_link, a.status, a.created_at, a.updated_at`

// The LEFT JOIN keeps applications whose job row is gone; their job columns
// come back NULL and WithJob.Job stays nil.
const applicationWithJobSelect = `SELECT ` + applicationColumns + `,
	j.id, j.title, j.company, j.location, j.job_type, j.skills, j.description, j.salary_range, j.created_by, j.created_at, j.updated_at
	FROM applications a
	LEFT JOIN jobs j ON j.id = a.job_id`

type PostgresApplicationRepository struct {
	db database.Querier
}

func NewPostgresApplicationRepository(db database.Querier) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (id, job_id, applicant_email, resume_link, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		a.ID, a.JobID, strings.ToLower(a.ApplicantEmail), a.ResumeLink, string(a.Status), a.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "applications_job_applicant_key") {
			return application.ErrDuplicate
		}
		if postgres.IsForeignKeyViolation(err) {
			return job.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	row := r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.id = $1`, id)
	var (
		a      application.Application
		status string
	)
	if err := row.Scan(&a.ID, &a.JobID, &a.ApplicantEmail, &a.ResumeLink, &status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if postgres.IsNoRows(err) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	return a, nil
}

func (r *PostgresApplicationRepository) ExistsForApplicant(ctx context.Context, jobID uuid.UUID, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND applicant_email = $2)`,
		jobID, strings.ToLower(email),
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status) error {
	n, err := r.db.Exec(ctx,
		`UPDATE applications SET status = $1, updated_at = now() WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *PostgresApplicationRepository) ListByApplicant(ctx context.Context, email string) ([]application.WithJob, error) {
	return r.listWithJob(ctx,
		applicationWithJobSelect+` WHERE a.applicant_email = $1 ORDER BY a.created_at DESC, a.id DESC`,
		strings.ToLower(strings.TrimSpace(email)),
	)
}

func (r *PostgresApplicationRepository) ListByJobOwner(ctx context.Context, ownerID uuid.UUID) ([]application.WithJob, error) {
	return r.listWithJob(ctx,
		applicationWithJobSelect+` WHERE j.created_by = $1 ORDER BY a.created_at DESC, a.id DESC`,
		ownerID,
	)
}

func (r *PostgresApplicationRepository) listWithJob(ctx context.Context, query string, args ...any) ([]application.WithJob, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.WithJob, 0)
	for rows.Next() {
		it, err := scanApplicationWithJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanApplicationWithJob(row database.Row) (application.WithJob, error) {
	var (
		it     application.WithJob
		status string

		jobID       *uuid.UUID
		title       *string
		company     *string
		location    *string
		jobType     *string
		skills      []string
		description *string
		salaryRange *string
		createdBy   *uuid.UUID
		jobCreated  *time.Time
		jobUpdated  *time.Time
	)
	if err := row.Scan(
		&it.ID, &it.JobID, &it.ApplicantEmail, &it.ResumeLink, &status, &it.CreatedAt, &it.UpdatedAt,
		&jobID, &title, &company, &location, &jobType, &skills, &description, &salaryRange, &createdBy, &jobCreated, &jobUpdated,
	); err != nil {
		return application.WithJob{}, err
	}
	it.Status = application.Status(status)

	if jobID != nil {
		j := job.Job{
			ID:          *jobID,
			Title:       deref(title),
			Company:     deref(company),
			Location:    deref(location),
			JobType:     job.Type(deref(jobType)),
			Skills:      skills,
			Description: deref(description),
			SalaryRange: salaryRange,
		}
		if j.Skills == nil {
			j.Skills = []string{}
		}
		if createdBy != nil {
			j.CreatedBy = *createdBy
		}
		if jobCreated != nil {
			j.CreatedAt = *jobCreated
		}
		if jobUpdated != nil {
			j.UpdatedAt = *jobUpdated
		}
		it.Job = &j
	}
	return it, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
