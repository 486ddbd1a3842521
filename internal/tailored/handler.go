package tailored

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/applications"
	"jobassist-backend/internal/session"
	"jobassist-backend/internal/shared/server/middleware"
	"jobassist-backend/internal/shared/server/respond"
	"jobassist-backend/internal/shared/telemetry"
	"jobassist-backend/internal/tailored/render"
)

// ApplicationSource loads one of the user's applications.
type ApplicationSource interface {
	Get(ctx context.Context, userID, id string) (applications.Application, error)
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc          *Service
	Applications ApplicationSource
	URLTTL       time.Duration
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, apps ApplicationSource, urlTTL time.Duration) *Handler {
	return &Handler{Svc: svc, Applications: apps, URLTTL: urlTTL}
}

// RegisterRoutes attaches tailored résumé routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tailored-resumes", h.list)
	rg.GET("/applications/:id/tailored-resume", h.get)
	rg.POST("/applications/:id/tailored-resume", h.create)
	rg.GET("/applications/:id/tailored-resume/file", h.download)
}

type tailoredResponse struct {
	TailoredResume
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) list(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"tailoredResumes": items})
}

func (h *Handler) get(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	t, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	h.respondWithURL(c, http.StatusOK, t)
}

// create tailors an application that has no document yet, ex: one submitted
// before tailoring was enabled. Existing documents are returned as they are.
func (h *Handler) create(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	app, err := h.Applications.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	t, err := h.Svc.Tailor(c.Request.Context(), app)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.Set(middleware.ApplicationIDKey, app.ID)
	h.respondWithURL(c, http.StatusCreated, t)
}

func (h *Handler) respondWithURL(c *gin.Context, status int, t TailoredResume) {
	url, expiresAt, err := h.Svc.SignedURL(c.Request.Context(), t, h.URLTTL)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.JSON(c, status, tailoredResponse{TailoredResume: t, URL: url, ExpiresAt: expiresAt})
}

func (h *Handler) download(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	rc, t, err := h.Svc.Open(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	defer rc.Close()

	c.Set(middleware.ApplicationIDKey, t.ApplicationID)
	c.Header("Content-Type", render.ContentType)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": t.FileName}))
	if t.SizeBytes > 0 {
		c.Header("Content-Length", strconv.FormatInt(t.SizeBytes, 10))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Warn("tailored.download_interrupted", map[string]any{"user_id": userID, "error": err})
	}
}
