package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	HeaderRequestID  = "X-Request-ID"
	CtxRequestIDKey  = "request_id"
	anonymousUserTag = "-"
)

type AccessLogMiddleware struct {
	logger *log.Logger
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger}
}

// Middleware tags each request with an id and logs one line once the
// handler chain returns. The status is read after the error middleware has
// written the response.
func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)
		c.Locals(CtxRequestIDKey, rid)

		err := c.Next()

		uid := anonymousUserTag
		role := anonymousUserTag
		if p, ok := PrincipalFrom(c); ok {
			uid = p.UserID.String()
			role = string(p.Role)
		}

		m.logger.Printf(
			"[HTTP] access rid=%s ip=%s method=%s path=%s status=%d latency=%s user_id=%s role=%s resp_bytes=%d ua=%q",
			rid, ClientIP(c), c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start),
			uid, role, len(c.Response().Body()), c.Get("User-Agent"),
		)
		return err
	}
}
