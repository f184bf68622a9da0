package ws

import (
	"log"
	"net/http"

	"hiresight/internal/authz"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

type PrincipalFunc func(c fiber.Ctx) (authz.Principal, bool)

type Handler struct {
	hub       *Hub
	principal PrincipalFunc
	logger    *log.Logger
}

func NewHandler(hub *Hub, principal PrincipalFunc, logger *log.Logger) *Handler {
	return &Handler{hub: hub, principal: principal, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The auth cookie is SameSite=Strict, so cross-site pages cannot open an
	// authenticated socket.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleNotifications must run behind the auth middleware.
func (h *Handler) HandleNotifications(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}
	p, ok := h.principal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			if h.logger != nil {
				h.logger.Printf("[WS] upgrade error user_id=%s err=%v", p.UserID, err)
			}
			return
		}

		client := NewClient(h.hub, conn, p.UserID, p.Email)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}
