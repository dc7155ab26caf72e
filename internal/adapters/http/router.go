package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dmelo/sala/internal/adapters/relay"
	"github.com/dmelo/sala/internal/app"
	"github.com/dmelo/sala/internal/config"
	"github.com/dmelo/sala/internal/metrics"
)

func SetupRouter(ctx context.Context, cfg *config.Config, ctl *relay.Controller, presence *app.PresenceCoordinator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	if cfg.StaticPath != "" {
		r.Static("/static", cfg.StaticPath)
		r.GET("/", func(c *gin.Context) {
			c.File(cfg.StaticPath + "/index.html")
		})
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, presence.Rooms())
	})

	api.GET("/ws/chat", func(c *gin.Context) {
		ctl.HandleChat(ctx, c)
	})

	return r
}
