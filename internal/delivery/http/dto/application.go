package dto

import (
	"time"

	"hiresight/internal/domain/application"
)

type ApplyRequest struct {
	JobID string `json:"jobId"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ApplicationResponse struct {
	ID             string    `json:"_id"`
	Job            string    `json:"job"`
	ApplicantEmail string    `json:"applicantEmail"`
	ResumeLink     *string   `json:"resumeLink"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ApplicationWithJobResponse embeds the parent job, or null when the job no
// longer exists.
type ApplicationWithJobResponse struct {
	ID             string       `json:"_id"`
	Job            *JobResponse `json:"job"`
	ApplicantEmail string       `json:"applicantEmail"`
	ResumeLink     *string      `json:"resumeLink"`
	Status         string       `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

func NewApplicationResponse(a application.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:             a.ID.String(),
		Job:            a.JobID.String(),
		ApplicantEmail: a.ApplicantEmail,
		ResumeLink:     a.ResumeLink,
		Status:         string(a.Status),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func NewApplicationListResponse(items []application.WithJob) []ApplicationWithJobResponse {
	out := make([]ApplicationWithJobResponse, 0, len(items))
	for _, it := range items {
		var j *JobResponse
		if it.Job != nil {
			jr := NewJobResponse(*it.Job)
			j = &jr
		}
		out = append(out, ApplicationWithJobResponse{
			ID:             it.ID.String(),
			Job:            j,
			ApplicantEmail: it.ApplicantEmail,
			ResumeLink:     it.ResumeLink,
			Status:         string(it.Status),
			CreatedAt:      it.CreatedAt,
			UpdatedAt:      it.UpdatedAt,
		})
	}
	return out
}
