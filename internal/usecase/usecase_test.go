package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"hiresight/internal/authz"
	"hiresight/internal/domain/application"
	"hiresight/internal/domain/job"
	"hiresight/internal/domain/user"
	"hiresight/internal/repository/repositorytest"

	"github.com/google/uuid"
)

type fixture struct {
	users *repositorytest.Users
	jobs  *repositorytest.Jobs
	apps  *repositorytest.Applications
}

func newFixture() fixture {
	jobs := repositorytest.NewJobs()
	return fixture{
		users: repositorytest.NewUsers(),
		jobs:  jobs,
		apps:  repositorytest.NewApplications(jobs),
	}
}

func (f fixture) addUser(t *testing.T, role user.Role, email string, resume string) authz.Principal {
	t.Helper()
	u := user.User{
		ID:           uuid.New(),
		Name:         "user " + email,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}
	if resume != "" {
		u.Resume = &resume
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return authz.Principal{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (f fixture) addJob(t *testing.T, owner uuid.UUID, title string, createdAt time.Time) job.Job {
	t.Helper()
	j := job.Job{
		ID:          uuid.New(),
		Title:       title,
		Company:     "Acme",
		Location:    "Remote",
		JobType:     job.TypeFullTime,
		Skills:      []string{"Go"},
		Description: "desc",
		CreatedBy:   owner,
		CreatedAt:   createdAt,
	}
	if err := f.jobs.Create(context.Background(), j); err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return j
}

type recordingNotifier struct {
	mu      sync.Mutex
	created []uuid.UUID
	changed []application.Status
}

func (n *recordingNotifier) ApplicationCreated(ownerID uuid.UUID, _ application.Application, _ job.Job) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, ownerID)
}

func (n *recordingNotifier) ApplicationStatusChanged(a application.Application, _ job.Job) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed = append(n.changed, a.Status)
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]any
	gets    int
	hits    int
	deletes []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]any{}}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	c.hits++
	*(out.(*JobPage)) = v.(JobPage)
	return true, nil
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes = append(c.deletes, pattern)
	c.entries = map[string]any{}
	return nil
}

type memoryResumeStore struct {
	uploads []string
	err     error
}

func (s *memoryResumeStore) UploadResume(_ context.Context, filename string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	s.uploads = append(s.uploads, filename)
	return "https://cdn.example.com/resumes/" + filename, nil
}
