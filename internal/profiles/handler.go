package profiles

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/session"
	"jobassist-backend/internal/shared/server/middleware"
	"jobassist-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
	rg.GET("/me/profile", h.get)
	rg.PUT("/me/profile", h.save)
}

// me reports who the caller is, as established by the auth middleware.
func (h *Handler) me(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	response := gin.H{
		"userId":  userID,
		"isGuest": middleware.IsGuest(c),
	}
	if email := middleware.UserEmailFromContext(c); email != "" {
		response["email"] = email
	}
	if name := middleware.UserNameFromContext(c); name != "" {
		response["name"] = name
	}
	respond.OK(c, response)
}

func (h *Handler) get(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), userID, middleware.UserEmailFromContext(c))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, p)
}

func (h *Handler) save(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	var req Update
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	p, err := h.Svc.Save(c.Request.Context(), userID, req)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, p)
}
