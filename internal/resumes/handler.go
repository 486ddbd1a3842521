package resumes

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/session"
	"jobassist-backend/internal/shared/server/middleware"
	"jobassist-backend/internal/shared/server/respond"
	"jobassist-backend/internal/shared/telemetry"
)

// multipart framing on top of the file itself
const maxRequestSize = MaxFileSize + 1<<20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc    *Service
	URLTTL time.Duration
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, urlTTL time.Duration) *Handler {
	return &Handler{Svc: svc, URLTTL: urlTTL}
}

// RegisterRoutes attaches résumé routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/resume", h.replace)
	rg.POST("/resume", h.replace)
	rg.GET("/resume", h.active)
	rg.GET("/resume/url", h.signedURL)
	rg.GET("/resume/file", h.download)
}

func (h *Handler) replace(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds the 5 MiB limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > MaxFileSize {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds the 5 MiB limit", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	res, err := h.Svc.Replace(c.Request.Context(), userID, fileHeader.Filename, data)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.Set(middleware.ResumeIDKey, res.ID)

	respond.JSON(c, http.StatusCreated, toResponse(res))
}

func (h *Handler) active(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	res, err := h.Svc.GetActive(c.Request.Context(), userID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	if res == nil {
		respond.OK(c, gin.H{"resume": nil})
		return
	}
	c.Set(middleware.ResumeIDKey, res.ID)
	respond.OK(c, gin.H{"resume": toResponse(*res)})
}

func (h *Handler) signedURL(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	url, expiresAt, err := h.Svc.SignedURL(c.Request.Context(), userID, h.URLTTL)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"url": url, "expiresAt": expiresAt})
}

func (h *Handler) download(c *gin.Context) {
	userID, err := session.Require(c.Request.Context())
	if err != nil {
		respond.Fail(c, err)
		return
	}
	rc, res, err := h.Svc.Open(c.Request.Context(), userID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	defer rc.Close()

	c.Set(middleware.ResumeIDKey, res.ID)
	c.Header("Content-Type", res.ContentType)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.FileName}))
	if res.SizeBytes > 0 {
		c.Header("Content-Length", strconv.FormatInt(res.SizeBytes, 10))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Warn("resume.download_interrupted", map[string]any{"user_id": userID, "error": err})
	}
}
