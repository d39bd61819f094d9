package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"qrmenu/internal/models"
	"qrmenu/internal/store"
)

// createOrderRequest is the menu client's submission body.
type createOrderRequest struct {
	Items []models.OrderItem `json:"items"`
	Total float64            `json:"total"`
}

// updateStatusRequest is the administrative status-correction body.
type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.engine.List(c.Request.Context(), "")
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (s *Server) listOrdersByStatus(c *gin.Context) {
	status := models.OrderStatus(c.Param("status"))
	orders, err := s.engine.List(c.Request.Context(), status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (s *Server) getOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}

	order, err := s.engine.Get(c.Request.Context(), orderID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	order, err := s.engine.Submit(c.Request.Context(), req.Items, req.Total)
	if err != nil {
		s.respondError(c, err)
		return
	}

	log.Printf("Order #%d created with %d items - Total: %.2f", order.OrderID, len(order.Items), order.Total)
	c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status"})
		return
	}

	order, err := s.engine.SetStatus(c.Request.Context(), orderID, models.OrderStatus(req.Status))
	if err != nil {
		s.respondError(c, err)
		return
	}

	log.Printf("Order #%d updated to %s", order.OrderID, order.Status)
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (s *Server) transitionOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}

	order, err := s.engine.Advance(c.Request.Context(), orderID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	log.Printf("Order #%d advanced to %s", order.OrderID, order.Status)
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (s *Server) deleteOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}

	if err := s.engine.Remove(c.Request.Context(), orderID); err != nil {
		s.respondError(c, err)
		return
	}

	log.Printf("Order #%d deleted", orderID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order deleted"})
}

// respondError maps engine and store errors onto the API's JSON envelope.
// Persistence failures are logged and answered with a 500; the process keeps
// serving, which lets the dual store degrade to the fallback on later calls.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Order must contain items"})
	case errors.Is(err, models.ErrInvalidTotal):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order total"})
	case errors.Is(err, models.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status"})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Order already completed"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
	default:
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}
