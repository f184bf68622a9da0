package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hiresight/internal/config"
	"hiresight/internal/delivery/http/middleware"
	"hiresight/internal/domain/user"
	"hiresight/internal/repository/repositorytest"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type nopResumeStore struct{}

func (nopResumeStore) UploadResume(_ context.Context, filename string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	return "https://files.example.com/" + filename, nil
}

type testServer struct {
	t     *testing.T
	app   *App
	users *repositorytest.Users
	jobs  *repositorytest.Jobs
	apps  *repositorytest.Applications
}

func newTestServer(t *testing.T, db stubPinger) *testServer {
	t.Helper()
	return newTestServerWith(t, db, nil)
}

func newTestServerWith(t *testing.T, db stubPinger, override func(*config.Config)) *testServer {
	t.Helper()

	var cfg config.Config
	cfg.App.AppName = "hiresight-test"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = 7 * 24 * time.Hour
	cfg.Upload.ResumeMaxBytes = 1 << 20
	cfg.RateLimit.AuthLimit = 1000
	cfg.RateLimit.AuthWindow = time.Minute
	if override != nil {
		override(&cfg)
	}

	users := repositorytest.NewUsers()
	jobs := repositorytest.NewJobs()
	apps := repositorytest.NewApplications(jobs)

	a, err := New(Deps{
		Config:       cfg,
		Logger:       log.New(io.Discard, "", 0),
		Users:        users,
		Jobs:         jobs,
		Applications: apps,
		DB:           db,
		Resumes:      nopResumeStore{},
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return &testServer{t: t, app: a, users: users, jobs: jobs, apps: apps}
}

func (s *testServer) do(method, path, body, cookie string) *http.Response {
	s.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", middleware.TokenCookieName+"="+cookie)
	}
	resp, err := s.app.Fiber.Test(req)
	if err != nil {
		s.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func (s *testServer) expect(resp *http.Response, status int) []byte {
	s.t.Helper()
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != status {
		s.t.Fatalf("expected %d, got %d body=%s", status, resp.StatusCode, b)
	}
	return b
}

func (s *testServer) expectError(resp *http.Response, status int, msg string) {
	s.t.Helper()
	b := s.expect(resp, status)
	var out struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		s.t.Fatalf("decode error body %s: %v", b, err)
	}
	if out.Error != msg {
		s.t.Fatalf("expected error %q, got %q", msg, out.Error)
	}
}

func (s *testServer) signUp(name, email, role string) string {
	s.t.Helper()
	body, _ := json.Marshal(map[string]string{"name": name, "email": email, "password": "secret123", "role": role})
	s.expect(s.do("POST", "/api/auth/register", string(body), ""), 201)

	resp := s.do("POST", "/api/auth/login", `{"email":"`+email+`","password":"secret123"}`, "")
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		s.t.Fatalf("login %s: status %d", email, resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == middleware.TokenCookieName {
			return c.Value
		}
	}
	s.t.Fatalf("login %s: no token cookie", email)
	return ""
}

func (s *testServer) postJob(cookie string) string {
	s.t.Helper()
	b := s.expect(s.do("POST", "/api/jobs",
		`{"title":"Backend Engineer","company":"Acme","location":"Remote","jobType":"Contract","skills":["Go","SQL"],"description":"Build APIs"}`,
		cookie), 201)
	var out struct {
		ID      string   `json:"_id"`
		JobType string   `json:"jobType"`
		Skills  []string `json:"skills"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		s.t.Fatalf("decode job: %v", err)
	}
	if out.ID == "" || out.JobType != "Contract" || len(out.Skills) != 2 {
		s.t.Fatalf("unexpected job %s", b)
	}
	return out.ID
}

func (s *testServer) giveResume(email string) {
	s.t.Helper()
	u, err := s.users.GetByEmail(context.Background(), email)
	if err != nil {
		s.t.Fatalf("get user: %v", err)
	}
	if err := s.users.UpdateResume(context.Background(), u.ID, "https://files.example.com/cv.pdf"); err != nil {
		s.t.Fatalf("update resume: %v", err)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, stubPinger{})
	b := s.expect(s.do("GET", "/api/health", "", ""), 200)
	if !bytes.Contains(b, []byte(`"status":"ok"`)) {
		t.Fatalf("unexpected body %s", b)
	}

	down := newTestServer(t, stubPinger{err: errors.New("connection refused")})
	down.expectError(down.do("GET", "/api/health", "", ""), 500, "internal server error")
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, stubPinger{})

	s.expect(s.do("POST", "/api/auth/register", `{"name":"Ann","email":"Ann@Example.com","password":"pw123456"}`, ""), 201)
	s.expectError(s.do("POST", "/api/auth/register", `{"name":"Ann","email":"ann@example.com","password":"other"}`, ""), 409, "User with this email already exists")
	s.expectError(s.do("POST", "/api/auth/register", `{"name":"","email":"x@example.com","password":"pw"}`, ""), 400, "Please provide all required fields")
	s.expect(s.do("POST", "/api/auth/register", `{"name":"Eve","email":"eve@example.com","password":"pw","admin":true}`, ""), 400)
	if s.users.Len() != 1 {
		t.Fatalf("expected exactly one stored user, got %d", s.users.Len())
	}

	u, err := s.users.GetByEmail(context.Background(), "ann@example.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.Role != user.RoleCandidate {
		t.Fatalf("expected default candidate role, got %s", u.Role)
	}

	s.expectError(s.do("POST", "/api/auth/login", `{"email":"ann@example.com","password":"wrong"}`, ""), 400, "Invalid Credentials")
	s.expectError(s.do("POST", "/api/auth/login", `{"email":"nobody@example.com","password":"pw123456"}`, ""), 400, "Invalid Credentials")

	resp := s.do("POST", "/api/auth/login", `{"email":"ann@example.com","password":"pw123456"}`, "")
	b := s.expect(resp, 200)
	if !bytes.Contains(b, []byte(`"role":"candidate"`)) {
		t.Fatalf("unexpected login body %s", b)
	}
	setCookie := resp.Header.Get("Set-Cookie")
	for _, want := range []string{"token=", "HttpOnly", "Path=/", "SameSite=Strict", "Max-Age=604800"} {
		if !strings.Contains(strings.ToLower(setCookie), strings.ToLower(want)) {
			t.Fatalf("cookie %q missing %q", setCookie, want)
		}
	}
	if strings.Contains(strings.ToLower(setCookie), "secure") {
		t.Fatalf("cookie must not be Secure outside production: %q", setCookie)
	}
}

func TestAdminCannotSelfRegister(t *testing.T) {
	s := newTestServer(t, stubPinger{})
	s.expect(s.do("POST", "/api/auth/register", `{"name":"Mal","email":"mal@example.com","password":"pw","role":"admin"}`, ""), 201)
	u, err := s.users.GetByEmail(context.Background(), "mal@example.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.Role != user.RoleCandidate {
		t.Fatalf("expected candidate, got %s", u.Role)
	}
}

func TestMeAndLogout(t *testing.T) {
	s := newTestServer(t, stubPinger{})

	b := s.expect(s.do("GET", "/api/auth/me", "", ""), 200)
	if strings.TrimSpace(string(b)) != `{"loggedIn":false}` {
		t.Fatalf("unexpected anonymous me %s", b)
	}
	b = s.expect(s.do("GET", "/api/auth/me", "", "not-a-jwt"), 200)
	if !bytes.Contains(b, []byte(`"loggedIn":false`)) {
		t.Fatalf("unexpected me with bad cookie %s", b)
	}

	cookie := s.signUp("Cara", "cara@example.com", "")
	b = s.expect(s.do("GET", "/api/auth/me", "", cookie), 200)
	var me struct {
		LoggedIn bool    `json:"loggedIn"`
		Email    string  `json:"email"`
		Role     string  `json:"role"`
		Resume   *string `json:"resume"`
	}
	if err := json.Unmarshal(b, &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if !me.LoggedIn || me.Email != "cara@example.com" || me.Role != "candidate" || me.Resume != nil {
		t.Fatalf("unexpected me %s", b)
	}
	if bytes.Contains(b, []byte("password")) {
		t.Fatalf("me leaks password material: %s", b)
	}

	resp := s.do("POST", "/api/auth/logout", "", cookie)
	s.expect(resp, 200)
	sc := strings.ToLower(resp.Header.Get("Set-Cookie"))
	if !strings.Contains(sc, "token=;") || !strings.Contains(sc, "expires=") {
		t.Fatalf("logout cookie not cleared: %q", sc)
	}
}

func TestJobs(t *testing.T) {
	s := newTestServer(t, stubPinger{})
	recruiter := s.signUp("Rex", "rex@example.com", "recruiter")
	candidate := s.signUp("Cid", "cid@example.com", "candidate")

	s.expectError(s.do("POST", "/api/jobs", `{"title":"x"}`, ""), 401, "Unauthorized")
	s.expectError(s.do("POST", "/api/jobs", `{"title":"x"}`, candidate), 403, "Forbidden")
	s.expectError(s.do("POST", "/api/jobs", `{"title":"Only title","skills":["Go"]}`, recruiter), 400, "Missing required fields")
	s.expectError(s.do("POST", "/api/jobs",
		`{"title":"t","company":"c","location":"l","jobType":"Temporary","skills":["Go"],"description":"d"}`, recruiter), 400, "Invalid job type")

	id := s.postJob(recruiter)

	b := s.expect(s.do("GET", "/api/jobs/"+id, "", ""), 200)
	if !bytes.Contains(b, []byte(`"_id":"`+id+`"`)) {
		t.Fatalf("unexpected job %s", b)
	}
	s.expectError(s.do("GET", "/api/jobs/not-a-uuid", "", ""), 400, "Invalid job ID")
	s.expectError(s.do("GET", "/api/jobs/00000000-0000-0000-0000-000000000001", "", ""), 404, "Job not found")

	for i := 0; i < 2; i++ {
		s.postJob(recruiter)
	}
	var page struct {
		Jobs        []json.RawMessage `json:"jobs"`
		CurrentPage int               `json:"currentPage"`
		TotalPages  int               `json:"totalPages"`
		TotalJobs   int               `json:"totalJobs"`
	}
	b = s.expect(s.do("GET", "/api/jobs?page=2&limit=2", "", ""), 200)
	if err := json.Unmarshal(b, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Jobs) != 1 || page.CurrentPage != 2 || page.TotalPages != 2 || page.TotalJobs != 3 {
		t.Fatalf("unexpected page %s", b)
	}

	b = s.expect(s.do("GET", "/api/jobs?page=abc&limit=-3", "", ""), 200)
	if err := json.Unmarshal(b, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.CurrentPage != 1 || len(page.Jobs) != 3 {
		t.Fatalf("expected defaults for invalid paging, got %s", b)
	}

	s.expectError(s.do("GET", "/api/jobs?mine=true", "", ""), 401, "Unauthorized")
	s.expectError(s.do("GET", "/api/jobs?mine=true", "", "garbage"), 401, "Invalid token")
	b = s.expect(s.do("GET", "/api/jobs?mine=true", "", candidate), 200)
	if err := json.Unmarshal(b, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.TotalJobs != 0 {
		t.Fatalf("candidate owns no jobs, got %s", b)
	}
}

func TestApplicationFlow(t *testing.T) {
	s := newTestServer(t, stubPinger{})
	recruiterA := s.signUp("Ada", "ada@example.com", "recruiter")
	recruiterB := s.signUp("Bob", "bob@example.com", "recruiter")
	candidate := s.signUp("Cy", "cy@example.com", "")
	jobID := s.postJob(recruiterA)

	s.expectError(s.do("POST", "/api/applications", `{"jobId":"`+jobID+`"}`, ""), 401, "Unauthorized")
	s.expectError(s.do("POST", "/api/applications", `{"jobId":"`+jobID+`"}`, candidate), 400, "Please upload resume before applying")
	if s.apps.Len() != 0 {
		t.Fatalf("no application may be stored without a resume")
	}

	s.giveResume("cy@example.com")
	s.expectError(s.do("POST", "/api/applications", `{"jobId":""}`, candidate), 400, "Job ID required")
	s.expectError(s.do("POST", "/api/applications", `{"jobId":"00000000-0000-0000-0000-000000000009"}`, candidate), 404, "Job not found")

	b := s.expect(s.do("POST", "/api/applications", `{"jobId":"`+jobID+`"}`, candidate), 201)
	var created struct {
		ID     string `json:"_id"`
		Job    string `json:"job"`
		Status string `json:"status"`
		Resume string `json:"resumeLink"`
	}
	if err := json.Unmarshal(b, &created); err != nil {
		t.Fatalf("decode application: %v", err)
	}
	if created.Job != jobID || created.Status != "Applied" || created.Resume == "" {
		t.Fatalf("unexpected application %s", b)
	}

	s.expectError(s.do("POST", "/api/applications", `{"jobId":"`+jobID+`"}`, candidate), 400, "You have already applied")
	if s.apps.Len() != 1 {
		t.Fatalf("expected one application, got %d", s.apps.Len())
	}

	b = s.expect(s.do("GET", "/api/applications", "", recruiterA), 200)
	if !bytes.Contains(b, []byte(created.ID)) || !bytes.Contains(b, []byte(`"title":"Backend Engineer"`)) {
		t.Fatalf("owner should see populated application: %s", b)
	}
	b = s.expect(s.do("GET", "/api/applications", "", recruiterB), 200)
	if strings.TrimSpace(string(b)) != "[]" {
		t.Fatalf("other recruiter should see nothing: %s", b)
	}
	b = s.expect(s.do("GET", "/api/applications", "", candidate), 200)
	if !bytes.Contains(b, []byte(created.ID)) {
		t.Fatalf("candidate should see own application: %s", b)
	}
	b = s.expect(s.do("GET", "/api/applications", "", ""), 200)
	if strings.TrimSpace(string(b)) != "[]" {
		t.Fatalf("anonymous list should be empty: %s", b)
	}
	b = s.expect(s.do("GET", "/api/applications?email=CY@example.com", "", ""), 200)
	if !bytes.Contains(b, []byte(created.ID)) {
		t.Fatalf("email listing should match case-insensitively: %s", b)
	}

	path := "/api/applications/" + created.ID
	s.expectError(s.do("PATCH", path, `{"status":"Accepted"}`, ""), 401, "Unauthorized")
	s.expectError(s.do("PATCH", path, `{"status":"Accepted"}`, candidate), 403, "Forbidden")
	s.expectError(s.do("PATCH", path, `{"status":"Accepted"}`, recruiterB), 403, "Not allowed")
	s.expectError(s.do("PATCH", path, `{"status":"Hired"}`, recruiterA), 400, "Invalid status")
	s.expectError(s.do("PATCH", "/api/applications/00000000-0000-0000-0000-000000000009", `{"status":"Accepted"}`, recruiterA), 404, "Application not found")

	b = s.expect(s.do("PATCH", path, `{"status":"Under Review"}`, recruiterA), 200)
	if strings.TrimSpace(string(b)) != `{"success":true}` {
		t.Fatalf("unexpected patch body %s", b)
	}
	b = s.expect(s.do("GET", "/api/applications", "", candidate), 200)
	if !bytes.Contains(b, []byte(`"status":"Under Review"`)) {
		t.Fatalf("status not persisted: %s", b)
	}
}

func TestResumeUpload(t *testing.T) {
	s := newTestServer(t, stubPinger{})
	cookie := s.signUp("Dee", "dee@example.com", "")

	var body bytes.Buffer
	boundary := "hiresightboundary"
	body.WriteString("--" + boundary + "\r\n")
	body.WriteString(`Content-Disposition: form-data; name="resume"; filename="cv.pdf"` + "\r\n")
	body.WriteString("Content-Type: application/pdf\r\n\r\n")
	body.WriteString("%PDF-1.4 test\r\n")
	body.WriteString("--" + boundary + "--\r\n")

	req := httptest.NewRequest("POST", "/api/resume/upload", &body)
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	req.Header.Set("Cookie", middleware.TokenCookieName+"="+cookie)
	resp, err := s.app.Fiber.Test(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	b := s.expect(resp, 200)
	if !bytes.Contains(b, []byte(`"success":true`)) {
		t.Fatalf("unexpected upload body %s", b)
	}

	u, err := s.users.GetByEmail(context.Background(), "dee@example.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !u.HasResume() {
		t.Fatalf("resume url not stored")
	}

	req = httptest.NewRequest("POST", "/api/resume/upload", nil)
	req.Header.Set("Cookie", middleware.TokenCookieName+"="+cookie)
	resp, err = s.app.Fiber.Test(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	s.expect(resp, 400)
}

func TestFiberConfig_ProxyTrust(t *testing.T) {
	var cfg config.Config
	fc := fiberConfig(cfg, nil)
	if fc.TrustProxy || fc.ProxyHeader != "" {
		t.Fatalf("forwarded headers must be ignored without trusted proxies: %+v", fc.TrustProxyConfig)
	}

	cfg.App.TrustedProxies = []string{"10.0.0.1"}
	fc = fiberConfig(cfg, nil)
	if !fc.TrustProxy || fc.ProxyHeader != "X-Forwarded-For" || len(fc.TrustProxyConfig.Proxies) != 1 {
		t.Fatalf("expected proxy trust for configured list, got %+v", fc)
	}
}

func TestAuthRateLimit_IgnoresSpoofedForwardedFor(t *testing.T) {
	s := newTestServerWith(t, stubPinger{}, func(cfg *config.Config) { cfg.RateLimit.AuthLimit = 3 })

	limited := false
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"email":"x@example.com","password":"pw"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
		resp, err := s.app.Fiber.Test(req)
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode == 429 {
			limited = true
		}
	}
	if !limited {
		t.Fatalf("expected 429 once the limit is spent, regardless of X-Forwarded-For")
	}
}

func TestOversizedBodyReturnsJSONError(t *testing.T) {
	s := newTestServer(t, stubPinger{})
	body := `{"name":"` + strings.Repeat("a", 3<<20) + `"}`
	s.expectError(s.do("POST", "/api/auth/register", body, ""), 413, "Request Entity Too Large")
}
