package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/lokaldigital/site-service/internal/models"
	"github.com/lokaldigital/site-service/internal/store"
)

// AnalyticsHandlers owns the ingestion endpoints the browser client
// posts to. Both record kinds are write-once; ids and timestamps come
// from the store.
type AnalyticsHandlers struct {
	store  *store.Store
	logger *slog.Logger
}

func NewAnalyticsHandlers(st *store.Store, logger *slog.Logger) *AnalyticsHandlers {
	return &AnalyticsHandlers{store: st, logger: logger}
}

// Register wires the analytics routes into an API group.
//
// POST /analytics/pageview  path and locale required
// POST /analytics/event     eventType required
func (h *AnalyticsHandlers) Register(r gin.IRoutes) {
	r.POST("/analytics/pageview", h.trackPageView)
	r.POST("/analytics/event", h.trackEvent)
}

func (h *AnalyticsHandlers) trackPageView(c *gin.Context) {
	var req models.PageViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	created, err := h.store.CreatePageView(c.Request.Context(), models.PageView{
		Path:      req.Path,
		Locale:    req.Locale,
		Referrer:  req.Referrer,
		UserAgent: req.UserAgent,
		SessionID: req.SessionID,
	})
	if err != nil {
		h.logger.Error("page view tracking failed", "error", err)
		respondServerError(c)
		return
	}
	respondCreated(c, created.ID)
}

func (h *AnalyticsHandlers) trackEvent(c *gin.Context) {
	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	created, err := h.store.CreateEvent(c.Request.Context(), models.AnalyticsEvent{
		EventType: req.EventType,
		EventData: req.EventData,
		Path:      req.Path,
		Locale:    req.Locale,
		SessionID: req.SessionID,
	})
	if err != nil {
		h.logger.Error("event tracking failed", "error", err)
		respondServerError(c)
		return
	}
	respondCreated(c, created.ID)
}
