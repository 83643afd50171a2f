package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lokaldigital/site-service/internal/models"
	"github.com/lokaldigital/site-service/internal/notify"
	"github.com/lokaldigital/site-service/internal/store"
)

// ContactHandlers owns the lead-capture endpoint.
type ContactHandlers struct {
	store    *store.Store
	notifier notify.LeadNotifier
	logger   *slog.Logger
}

func NewContactHandlers(st *store.Store, notifier notify.LeadNotifier, logger *slog.Logger) *ContactHandlers {
	return &ContactHandlers{store: st, notifier: notifier, logger: logger}
}

// Register wires the contact route into an API group.
//
// POST /contact
// - Validates the form body and persists the submission.
// - Notification dispatch happens after the response status is
//   determined; its outcome never reaches the submitter.
func (h *ContactHandlers) Register(r gin.IRoutes) {
	r.POST("/contact", h.submit)
}

func (h *ContactHandlers) submit(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	// The locale is stored as received; unsupported values are kept
	// rather than rejected so older clients keep working.
	if req.Locale == "" {
		req.Locale = "en"
	}

	created, err := h.store.CreateContactSubmission(c.Request.Context(), models.ContactSubmission{
		BusinessName: req.BusinessName,
		Website:      req.Website,
		GBPLink:      req.GBPLink,
		Country:      req.Country,
		City:         req.City,
		PrimaryNeeds: req.PrimaryNeeds,
		BudgetRange:  req.BudgetRange,
		Timeline:     req.Timeline,
		Message:      req.Message,
		Locale:       req.Locale,
	})
	if err != nil {
		h.logger.Error("contact submission failed", "error", err)
		respondServerError(c)
		return
	}

	respondCreated(c, created.ID)

	// Detached from the request/response cycle: the 201 above stands
	// whatever happens to the email. The request context ends with the
	// response, so the send gets its own deadline.
	go func(sub models.ContactSubmission) {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if !h.notifier.NotifyLead(ctx, sub) {
			h.logger.Warn("lead notification not delivered", "submission_id", sub.ID)
		}
	}(created)
}
