package dto

import (
	"time"

	"hiresight/internal/domain/job"
	"hiresight/internal/usecase"
)

type CreateJobRequest struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	JobType     string   `json:"jobType"`
	Skills      []string `json:"skills"`
	Description string   `json:"description"`
	SalaryRange *string  `json:"salaryRange"`
}

func (r CreateJobRequest) Input() usecase.CreateJobInput {
	return usecase.CreateJobInput{
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		JobType:     r.JobType,
		Skills:      r.Skills,
		Description: r.Description,
		SalaryRange: r.SalaryRange,
	}
}

// JobResponse keeps the "_id" key existing clients read.
type JobResponse struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	JobType     string    `json:"jobType"`
	Skills      []string  `json:"skills"`
	Description string    `json:"description"`
	SalaryRange *string   `json:"salaryRange,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type JobListResponse struct {
	Jobs        []JobResponse `json:"jobs"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
	TotalJobs   int           `json:"totalJobs"`
}

func NewJobResponse(j job.Job) JobResponse {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	return JobResponse{
		ID:          j.ID.String(),
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		JobType:     string(j.JobType),
		Skills:      skills,
		Description: j.Description,
		SalaryRange: j.SalaryRange,
		CreatedBy:   j.CreatedBy.String(),
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

func NewJobListResponse(p usecase.JobPage) JobListResponse {
	items := make([]JobResponse, 0, len(p.Jobs))
	for _, j := range p.Jobs {
		items = append(items, NewJobResponse(j))
	}
	return JobListResponse{
		Jobs:        items,
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		TotalJobs:   p.TotalJobs,
	}
}
