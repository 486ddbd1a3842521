package notifications

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/session"
	"jobassist-backend/internal/shared/server/respond"
	"jobassist-backend/internal/shared/telemetry"
)

// Handler wires HTTP handlers to the Center.
type Handler struct {
	Center *Center
}

// NewHandler constructs a Handler.
func NewHandler(center *Center) *Handler {
	return &Handler{Center: center}
}

// RegisterRoutes attaches notification routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.list)
	rg.GET("/notifications/unread-count", h.unreadCount)
	rg.POST("/notifications/:id/read", h.markRead)
	rg.POST("/notifications/read-all", h.markAllRead)
}

func (h *Handler) list(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	if _, err := h.Center.SeedWelcome(c.Request.Context(), userID); err != nil {
		telemetry.Warn("notifications.seed_failed", map[string]any{"user_id": userID, "error": err})
	}
	items, err := h.Center.List(c.Request.Context(), userID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	unread := 0
	for _, it := range items {
		if !it.Read {
			unread++
		}
	}
	respond.OK(c, gin.H{"notifications": items, "unreadCount": unread})
}

func (h *Handler) unreadCount(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	n, err := h.Center.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"unreadCount": n})
}

func (h *Handler) markRead(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	if err := h.Center.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		respond.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) markAllRead(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	if err := h.Center.MarkAllRead(c.Request.Context(), userID); err != nil {
		respond.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
