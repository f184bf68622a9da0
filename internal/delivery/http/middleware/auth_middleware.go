package middleware

import (
	"errors"
	"strings"

	"hiresight/internal/authz"
	"hiresight/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxPrincipalKey = "principal"

	TokenCookieName = "token"
)

// Authenticator turns a credential into the caller it names.
type Authenticator interface {
	Authenticate(token string) (authz.Principal, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Middleware rejects requests without a valid token cookie. Expired and
// tampered tokens get the same response.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token := strings.TrimSpace(c.Cookies(TokenCookieName))
		if token == "" {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil)
		}

		p, err := m.auth.Authenticate(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenMissing) {
				return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", err)
		}

		c.Locals(CtxPrincipalKey, p)
		return c.Next()
	}
}

// Optional attaches the caller when a valid cookie is present and otherwise
// lets the request through anonymously.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c fiber.Ctx) error {
		token := strings.TrimSpace(c.Cookies(TokenCookieName))
		if token != "" {
			if p, err := m.auth.Authenticate(token); err == nil {
				c.Locals(CtxPrincipalKey, p)
			}
		}
		return c.Next()
	}
}

// RequireCapability must run after Middleware.
func RequireCapability(capability authz.Capability) fiber.Handler {
	return func(c fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil)
		}
		if err := authz.Require(p, capability); err != nil {
			return NewAppError(fiber.StatusForbidden, "Forbidden", err)
		}
		return c.Next()
	}
}

func PrincipalFrom(c fiber.Ctx) (authz.Principal, bool) {
	p, ok := c.Locals(CtxPrincipalKey).(authz.Principal)
	return p, ok
}
