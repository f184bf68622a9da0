package ws

import (
	"encoding/json"
	"time"

	"hiresight/internal/domain/application"
	"hiresight/internal/domain/job"

	"github.com/google/uuid"
)

const (
	EventApplicationCreated       = "application_created"
	EventApplicationStatusChanged = "application_status_changed"
)

type ApplicationEvent struct {
	Type           string `json:"type"`
	ApplicationID  string `json:"applicationId"`
	JobID          string `json:"jobId"`
	JobTitle       string `json:"jobTitle"`
	Company        string `json:"company"`
	ApplicantEmail string `json:"applicantEmail"`
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
}

// Notifier publishes application events to connected users.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) ApplicationCreated(ownerID uuid.UUID, a application.Application, j job.Job) {
	if ownerID == uuid.Nil {
		return
	}
	n.publish(Target{UserID: ownerID}, EventApplicationCreated, a, j)
}

func (n *Notifier) ApplicationStatusChanged(a application.Application, j job.Job) {
	n.publish(Target{Email: a.ApplicantEmail}, EventApplicationStatusChanged, a, j)
}

func (n *Notifier) publish(target Target, eventType string, a application.Application, j job.Job) {
	if n == nil || n.hub == nil {
		return
	}
	b, err := json.Marshal(ApplicationEvent{
		Type:           eventType,
		ApplicationID:  a.ID.String(),
		JobID:          a.JobID.String(),
		JobTitle:       j.Title,
		Company:        j.Company,
		ApplicantEmail: a.ApplicantEmail,
		Status:         string(a.Status),
		Timestamp:      n.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	n.hub.Send(target, b)
}
