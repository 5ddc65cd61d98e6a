package handler

import (
	"os"

	"leadgen-suite-be/internal/pkg/logger"
	"leadgen-suite-be/internal/pkg/serverutils"
	"leadgen-suite-be/internal/service"
	internalWS "leadgen-suite-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	service service.INotificationService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewNotificationHandler(svc service.INotificationService, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service: svc,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs upgrades the connection for live feed pushes. Browsers can't set
// headers on websocket handshakes, so the token also rides a query param.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("NotificationHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID format in token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			internalWS.ServeWs(h.hub, conn, userID)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// OpenFeed returns the feed page and counts as "opening" it: the unread
// entries get marked read once the debounce window passes.
func (h *NotificationHandler) OpenFeed(c *fiber.Ctx) error {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	res, err := h.service.OpenFeed(c.UserContext(), userID, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse("Notifications", res))
}

// RecentEmails returns the latest delivery attempts.
func (h *NotificationHandler) RecentEmails(c *fiber.Ctx) error {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	res, err := h.service.RecentEmails(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse("Recent email reports", res))
}

// RegisterRoutes registers the notification routes.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notif := router.Group("/notification/v1")
	notif.Use(serverutils.JwtMiddleware)
	notif.Get("", h.OpenFeed)
	notif.Get("emails", h.RecentEmails)

	// WebSocket does its own auth; the middleware can't read query tokens.
	router.Get("/ws", h.ServeWs)
}
