package repository

import (
	"context"
	"fmt"
	"strings"

	"hiresight/internal/database"
	"hiresight/internal/database/postgres"
	"hiresight/internal/domain/job"

	"github.com/google/uuid"
)

const jobColumns = `id, title, company, location, job_type, skills, description, salary_range, created_by, created_at, updated_at`

type PostgresJobRepository struct {
	db database.Querier
}

func NewPostgresJobRepository(db database.Querier) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) error {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO jobs (id, title, company, location, job_type, skills, description, salary_range, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		j.ID, j.Title, j.Company, j.Location, string(j.JobType), skills, j.Description, j.SalaryRange, j.CreatedBy, j.CreatedAt,
	)
	return err
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) List(ctx context.Context, f job.ListFilter) ([]job.Job, error) {
	where, args := jobListWhere(f)

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	q := fmt.Sprintf(
		`SELECT %s FROM jobs %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		jobColumns, where, len(args)-1, len(args),
	)
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) Count(ctx context.Context, f job.ListFilter) (int, error) {
	where, args := jobListWhere(f)
	var c int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM jobs `+where, args...).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func jobListWhere(f job.ListFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.CreatedBy != nil {
		args = append(args, *f.CreatedBy)
		conds = append(conds, fmt.Sprintf("created_by = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanJob(row database.Row) (job.Job, error) {
	var (
		j       job.Job
		jobType string
	)
	if err := row.Scan(
		&j.ID, &j.Title, &j.Company, &j.Location, &jobType, &j.Skills,
		&j.Description, &j.SalaryRange, &j.CreatedBy, &j.CreatedAt, &j.UpdatedAt,
	); err != nil {
		return job.Job{}, err
	}
	j.JobType = job.Type(jobType)
	if j.Skills == nil {
		j.Skills = []string{}
	}
	return j, nil
}
