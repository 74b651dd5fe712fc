package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-chatbot/internal/domain/auth"
	"github.com/yanqian/faq-chatbot/internal/infra/config"
	"github.com/yanqian/faq-chatbot/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service, mtr *metrics.ResolutionMetrics) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
	)
	if cfg.HTTP.RateLimit.Enabled {
		router.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(mtr.Handler()))

	api := router.Group("/api/v1")
	api.Use(authMiddleware(authSvc))
	{
		api.POST("/questions", handler.SubmitQuestion)
		api.GET("/questions", handler.RecentQuestions)
		api.GET("/questions/stream", handler.StreamQuestions)
		api.POST("/questions/:id/rating", handler.RateQuestion)

		admin := api.Group("/admin")
		admin.Use(adminMiddleware(authSvc))
		{
			admin.POST("/schema/setup", handler.SetupSchema)
			admin.POST("/schema/seed", handler.SeedSchema)
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
