// Package handlers exposes the assistant over HTTP.
package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"metro-rent-assistant/services"
	"metro-rent-assistant/utils"
)

// NewRouter builds the gin engine with every route registered.
func NewRouter(h *Handler, logger *utils.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	r.GET("/health", h.Health)
	r.POST("/chat", h.Chat)
	r.GET("/insights", h.Insights)

	metros := r.Group("/metros")
	{
		metros.GET("/cheapest", h.Cheapest)
		metros.GET("/most-expensive", h.MostExpensive)
		metros.GET("/growth", h.Growth)
		metros.GET("/budget", h.Budget)
		metros.GET("/compare", h.Compare)
		metros.GET("/resolve", h.Resolve)
	}

	return r
}

// New wires a Handler and router over an assistant.
func New(assistant *services.Assistant, store *services.DatasetStore, logger *utils.Logger) *gin.Engine {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return NewRouter(NewHandler(assistant, store, services.NewInsightService(logger), logger), logger)
}
