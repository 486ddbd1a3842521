package jobs

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/session"
	"jobassist-backend/internal/shared/server/respond"
)

// Handler exposes the catalog and the caller's recommendation set.
type Handler struct {
	Engine *Engine
}

// NewHandler constructs a Handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{Engine: engine}
}

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/recommended", h.recommended)
	rg.GET("/jobs/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	respond.OK(c, gin.H{"jobs": h.Engine.Catalog.All()})
}

func (h *Handler) recommended(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	recs, err := h.Engine.ForUser(c.Request.Context(), userID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"jobs": recs})
}

func (h *Handler) get(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	job, err := h.Engine.Lookup(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, job)
}
