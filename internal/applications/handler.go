package applications

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/session"
	"jobassist-backend/internal/shared/server/middleware"
	"jobassist-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the Ledger.
type Handler struct {
	Ledger *Ledger
}

// NewHandler constructs a Handler.
func NewHandler(ledger *Ledger) *Handler {
	return &Handler{Ledger: ledger}
}

// RegisterRoutes attaches application routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/applications", h.apply)
	rg.GET("/applications", h.list)
	rg.GET("/applications/:id", h.get)
	rg.POST("/applications/:id/retry", h.retry)
	rg.PATCH("/applications/:id/status", h.transition)
}

type applyRequest struct {
	JobID string `json:"jobId"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (h *Handler) apply(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	app, err := h.Ledger.Apply(c.Request.Context(), userID, req.JobID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.Set(middleware.ApplicationIDKey, app.ID)
	c.Set(middleware.StatusTransitionKey, string(StatusProcessing)+"->"+string(app.Status))
	respond.JSON(c, http.StatusCreated, app)
}

func (h *Handler) list(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	var items []Application
	if strings.EqualFold(c.Query("order"), "inserted") {
		items, err = h.Ledger.ListInserted(c.Request.Context(), userID)
	} else {
		items, err = h.Ledger.List(c.Request.Context(), userID)
	}
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"applications": items})
}

func (h *Handler) get(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	app, err := h.Ledger.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.Set(middleware.ApplicationIDKey, app.ID)
	respond.OK(c, app)
}

func (h *Handler) retry(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	app, err := h.Ledger.Retry(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.Set(middleware.ApplicationIDKey, app.ID)
	c.Set(middleware.StatusTransitionKey, string(StatusSubmissionFailed)+"->"+string(app.Status))
	respond.OK(c, app)
}

func (h *Handler) transition(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	app, err := h.Ledger.Transition(c.Request.Context(), userID, c.Param("id"), Status(req.Status))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.Set(middleware.ApplicationIDKey, app.ID)
	c.Set(middleware.StatusTransitionKey, "->"+string(app.Status))
	respond.OK(c, app)
}
