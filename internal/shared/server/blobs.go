package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/shared/server/respond"
	"jobassist-backend/internal/shared/storage/object"
	localstore "jobassist-backend/internal/shared/storage/object/local"
	"jobassist-backend/internal/shared/telemetry"
)

// registerBlobRoutes serves the signed URLs issued by the local store.
func registerBlobRoutes(rg *gin.RouterGroup, store *localstore.Store) {
	rg.GET("/blobs/*key", func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		if err := store.Verify(key, c.Query("expires"), c.Query("sig")); err != nil {
			respond.Error(c, http.StatusForbidden, "forbidden", "link is invalid or expired", nil)
			return
		}
		rc, err := store.Open(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, object.ErrNotFound) {
				respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open file", nil)
			return
		}
		defer rc.Close()

		contentType := mime.TypeByExtension(path.Ext(key))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Header("Content-Type", contentType)
		c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": downloadName(key)}))
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, rc); err != nil {
			telemetry.Warn("blob.stream_failed", map[string]any{"key": key, "error": err})
		}
	})
}

// downloadName strips the upload stamp from keys shaped {dir}/{stamp}_{name}.
func downloadName(key string) string {
	base := path.Base(key)
	if _, name, ok := strings.Cut(base, "_"); ok && name != "" {
		return name
	}
	return base
}
