package handlers

import (
	"errors"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/FlashFitBack/internal/middleware"
	syncws "github.com/saeid-a/FlashFitBack/internal/websocket"
	"github.com/saeid-a/FlashFitBack/pkg/utils"
)

type SyncHandler struct {
	hub       *syncws.Hub
	jwtSecret string
}

func NewSyncHandler(hub *syncws.Hub, jwtSecret string) *SyncHandler {
	return &SyncHandler{hub: hub, jwtSecret: jwtSecret}
}

// WebSocketAuth accepts the token as a query parameter because browsers
// cannot set headers on a websocket handshake.
func (h *SyncHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fail(c, fiber.StatusUpgradeRequired, "WebSocket upgrade required")
	}

	claims, err := h.parseClaims(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid or expired token.")
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("email", claims.Email)
	return c.Next()
}

func (h *SyncHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(int64)
	client := syncws.NewClient(h.hub, conn, userID)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump()
}

func (h *SyncHandler) parseClaims(c *fiber.Ctx) (*utils.Claims, error) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		token = middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
	}
	if token == "" {
		return nil, errors.New("missing token")
	}
	return utils.ValidateToken(token, h.jwtSecret)
}
