package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hiresight/internal/authz"
	"hiresight/internal/domain/user"
	"hiresight/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func newTestApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())
	for _, h := range handlers {
		app.Use(h)
	}
	return app
}

func decodeError(t *testing.T, body io.Reader) string {
	t.Helper()
	var out struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out.Error
}

func TestErrorMiddleware_Mapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"app error", NewAppError(fiber.StatusForbidden, "Not allowed", nil), 403, "Not allowed"},
		{"app error default message", NewAppError(fiber.StatusNotFound, "", nil), 404, "Not found"},
		{"server error hidden", NewAppError(fiber.StatusInternalServerError, "db password leaked", errors.New("x")), 500, "internal server error"},
		{"fiber error", fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), 405, "nope"},
		{"plain error", errors.New("boom"), 500, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(func(c fiber.Ctx) error { return tt.err })
			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if msg := decodeError(t, resp.Body); msg != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, msg)
			}
		})
	}
}

func TestErrorMiddleware_RecoversPanic(t *testing.T) {
	app := newTestApp(func(c fiber.Ctx) error { panic("kaboom") })
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 500 {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

type stubAuthenticator struct {
	p   authz.Principal
	err error
}

func (s stubAuthenticator) Authenticate(string) (authz.Principal, error) {
	return s.p, s.err
}

func TestAuthMiddleware(t *testing.T) {
	recruiter := authz.Principal{UserID: uuid.New(), Role: user.RoleRecruiter}

	tests := []struct {
		name       string
		auth       stubAuthenticator
		cookie     string
		wantStatus int
		wantMsg    string
	}{
		{"no cookie", stubAuthenticator{p: recruiter}, "", 401, "Unauthorized"},
		{"expired", stubAuthenticator{err: jwt.ErrTokenExpired}, "t", 401, "Invalid token"},
		{"tampered", stubAuthenticator{err: jwt.ErrTokenInvalid}, "t", 401, "Invalid token"},
		{"valid", stubAuthenticator{p: recruiter}, "t", 200, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp()
			app.Get("/", NewAuthMiddleware(tt.auth).Middleware(), func(c fiber.Ctx) error {
				p, ok := PrincipalFrom(c)
				if !ok || p.UserID != recruiter.UserID {
					return errors.New("principal missing")
				}
				return c.SendStatus(200)
			})

			req := httptest.NewRequest("GET", "/", nil)
			if tt.cookie != "" {
				req.Header.Set("Cookie", TokenCookieName+"="+tt.cookie)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if tt.wantMsg != "" {
				if msg := decodeError(t, resp.Body); msg != tt.wantMsg {
					t.Fatalf("expected %q, got %q", tt.wantMsg, msg)
				}
			}
		})
	}
}

func TestRequireCapability(t *testing.T) {
	for _, tc := range []struct {
		role user.Role
		want int
	}{
		{user.RoleRecruiter, 200},
		{user.RoleCandidate, 403},
		{user.RoleAdmin, 403},
	} {
		auth := stubAuthenticator{p: authz.Principal{UserID: uuid.New(), Role: tc.role}}
		app := newTestApp()
		app.Post("/", NewAuthMiddleware(auth).Middleware(), RequireCapability(authz.CapCreateJob), func(c fiber.Ctx) error {
			return c.SendStatus(200)
		})

		req := httptest.NewRequest("POST", "/", nil)
		req.Header.Set("Cookie", TokenCookieName+"=t")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != tc.want {
			t.Fatalf("role=%s: expected %d, got %d", tc.role, tc.want, resp.StatusCode)
		}
	}
}

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	l := NewMemoryLimiter()
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, time.Minute) {
			t.Fatalf("request %d should pass", i)
		}
	}
	if l.Allow("k", 3, time.Minute) {
		t.Fatalf("4th request should be limited")
	}
	if !l.Allow("other", 3, time.Minute) {
		t.Fatalf("keys must be independent")
	}

	now = now.Add(time.Minute + time.Second)
	if !l.Allow("k", 3, time.Minute) {
		t.Fatalf("window should have reset")
	}
}

func TestRedisLimiter_FallsBackWithoutClient(t *testing.T) {
	mem := NewMemoryLimiter()
	l := NewRedisLimiter(nil, mem)
	if !l.Allow("k", 1, time.Minute) {
		t.Fatalf("first request should pass")
	}
	if l.Allow("k", 1, time.Minute) {
		t.Fatalf("fallback limiter should apply")
	}
}

func TestRateLimit_Returns429(t *testing.T) {
	app := newTestApp()
	app.Post("/login", RateLimit(NewMemoryLimiter(), "auth:", 2, time.Minute), func(c fiber.Ctx) error {
		return c.SendStatus(200)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/login", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != 429 {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}

func TestRateLimit_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	app := newTestApp()
	app.Post("/login", RateLimit(NewMemoryLimiter(), "auth:", 2, time.Minute), func(c fiber.Ctx) error {
		return c.SendStatus(200)
	})

	accepted := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest("POST", "/login", nil)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i+1))
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode == 200 {
			accepted++
		} else if resp.StatusCode != 429 {
			t.Fatalf("unexpected status %d", resp.StatusCode)
		}
	}
	if accepted != 2 {
		t.Fatalf("expected 2 accepted requests with rotating X-Forwarded-For, got %d", accepted)
	}
}

func TestErrorMiddleware_HandlerRendersBodyLimit(t *testing.T) {
	em := NewErrorMiddleware(log.New(io.Discard, "", 0))
	app := fiber.New(fiber.Config{BodyLimit: 16, ErrorHandler: em.Handler})
	app.Use(em.Middleware())
	app.Post("/", func(c fiber.Ctx) error { return c.SendStatus(200) })

	req := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 256)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.StatusCode)
	}
	if msg := decodeError(t, resp.Body); msg == "" {
		t.Fatalf("expected JSON error body")
	}
}
