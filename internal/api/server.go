// Package api exposes the ordering HTTP surface: order CRUD, the staff
// websocket feed, and the staff login endpoint.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrmenu/internal/config"
	"qrmenu/internal/lifecycle"
	"qrmenu/internal/realtime"
)

// Server wires the order endpoints onto a Gin router
type Server struct {
	router *gin.Engine
	engine *lifecycle.Engine
	hub    *realtime.Hub
	config *config.Config
}

// NewServer creates the HTTP server over the lifecycle engine and hub.
func NewServer(engine *lifecycle.Engine, hub *realtime.Hub, cfg *config.Config) *Server {
	server := &Server{
		router: gin.Default(),
		engine: engine,
		hub:    hub,
		config: cfg,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "QR Menu API is running"})
	})

	s.router.GET("/ws", s.hub.Serve)

	api := s.router.Group("/api")
	{
		api.GET("/orders", s.listOrders)
		api.GET("/orders/status/:status", s.listOrdersByStatus)
		api.GET("/orders/:orderId", s.getOrder)
		api.POST("/orders", s.createOrder)
		api.PATCH("/orders/:orderId/status", s.updateOrderStatus)
		api.POST("/orders/:orderId/transition", s.transitionOrder)
		api.DELETE("/orders/:orderId", s.deleteOrder)

		api.POST("/staff/login", s.staffLogin)
	}
}

// Router returns the Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}
