package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lokaldigital/site-service/internal/store"
)

// AdminHandlers is the read side over the ingested records: recent
// leads and the two aggregation views.
type AdminHandlers struct {
	store  *store.Store
	logger *slog.Logger
}

func NewAdminHandlers(st *store.Store, logger *slog.Logger) *AdminHandlers {
	return &AdminHandlers{store: st, logger: logger}
}

// Register wires the read-side routes.
//
// GET /admin/submissions       leads, newest first
// GET /admin/pageviews/stats   counts by (path, locale), descending
// GET /admin/events/stats      counts by eventType, descending
// GET /admin/events            event list, ?eventType=&limit=
func (h *AdminHandlers) Register(r gin.IRoutes) {
	r.GET("/admin/submissions", h.listSubmissions)
	r.GET("/admin/pageviews/stats", h.pageViewStats)
	r.GET("/admin/events/stats", h.eventStats)
	r.GET("/admin/events", h.listEvents)
}

func (h *AdminHandlers) listSubmissions(c *gin.Context) {
	subs, err := h.store.ListContactSubmissions(c.Request.Context())
	if err != nil {
		h.logger.Error("list submissions failed", "error", err)
		respondServerError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "submissions": subs})
}

func (h *AdminHandlers) pageViewStats(c *gin.Context) {
	stats, err := h.store.PageViewStats(c.Request.Context())
	if err != nil {
		h.logger.Error("page view stats failed", "error", err)
		respondServerError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func (h *AdminHandlers) eventStats(c *gin.Context) {
	stats, err := h.store.EventStats(c.Request.Context())
	if err != nil {
		h.logger.Error("event stats failed", "error", err)
		respondServerError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func (h *AdminHandlers) listEvents(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	events, err := h.store.ListEvents(c.Request.Context(), c.Query("eventType"), limit)
	if err != nil {
		h.logger.Error("list events failed", "error", err)
		respondServerError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "events": events})
}
