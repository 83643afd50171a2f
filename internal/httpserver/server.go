package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lokaldigital/site-service/internal/config"
	"github.com/lokaldigital/site-service/internal/handlers"
	"github.com/lokaldigital/site-service/internal/notify"
	"github.com/lokaldigital/site-service/internal/store"
)

type server struct {
	store  *store.Store
	logger *slog.Logger
}

// NewRouter wires the whole HTTP surface: operational endpoints, the
// JSON ingestion API under /api, and the locale-prefixed site pages.
func NewRouter(cfg config.Config, st *store.Store, notifier notify.LeadNotifier, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	s := &server{store: st, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(pageTemplates())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the store is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	api := r.Group("/api")
	api.Use(corsMiddleware(cfg.FrontendOrigin))

	handlers.NewContactHandlers(st, notifier, logger).Register(api)
	handlers.NewAnalyticsHandlers(st, logger).Register(api)
	handlers.NewAdminHandlers(st, logger).Register(api)
	handlers.NewContentHandlers(logger).Register(api)

	s.registerPageRoutes(r)

	return r
}
