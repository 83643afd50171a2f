package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lokaldigital/site-service/internal/content"
	"github.com/lokaldigital/site-service/internal/i18n"
)

// ContentHandlers serves the content bundles to browser clients. Each
// request re-reads the bundle; they are embedded artifacts, so there
// is nothing worth caching.
type ContentHandlers struct {
	logger *slog.Logger
}

func NewContentHandlers(logger *slog.Logger) *ContentHandlers {
	return &ContentHandlers{logger: logger}
}

// Register wires the content route.
//
// GET /content/:locale/*page  e.g. /content/de/home, /content/en/services/website
func (h *ContentHandlers) Register(r gin.IRoutes) {
	r.GET("/content/:locale/*page", h.bundle)
}

func (h *ContentHandlers) bundle(c *gin.Context) {
	locale, ok := i18n.Parse(c.Param("locale"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "unsupported locale"})
		return
	}

	page := strings.TrimPrefix(c.Param("page"), "/")
	b, err := content.Load(locale, page)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "no content for this page"})
			return
		}
		// A bundle that exists but fails validation is a deploy-time
		// defect, not a client error.
		h.logger.Error("content bundle load failed", "locale", locale, "page", page, "error", err)
		respondServerError(c)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", b.JSON())
}
