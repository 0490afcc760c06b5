package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/pipecalc/pipecalc/internal/conf"
)

// SetupRouter wires the REST and websocket surface. CORS origins and
// the per-IP rate come from the configuration; the health endpoint and
// the websocket stay outside the rate limit.
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = conf.Conf.GetStringSlice("server.cors_origins")
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	limiter := newIPRateLimiter(
		rate.Limit(conf.Conf.GetFloat64("server.rate")),
		conf.Conf.GetInt("server.burst"),
	)

	r.GET("/healthz", h.Health)
	r.GET("/ws", h.ServeWS)

	api := r.Group("/v1")
	api.Use(limiter.middleware())
	{
		api.POST("/line/liquid", h.LineLiquid)
		api.POST("/line/gas", h.LineGas)
		api.POST("/line/twophase", h.LineTwoPhase)
		api.POST("/pump", h.Pump)
		api.POST("/compressor", h.Compressor)
		api.POST("/exchanger/bundle", h.ExchangerBundle)
		api.POST("/exchanger/rating", h.ExchangerRating)

		api.GET("/tables/nominals", h.TableNominals)
		api.GET("/tables/schedules", h.TableSchedules)
		api.GET("/tables/units", h.TableUnits)
		api.GET("/tables/services", h.TableServices)
		api.GET("/tables/fittings", h.TableFittings)
	}

	return r
}
