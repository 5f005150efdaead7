package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"bbq-storefront/middleware"
	"bbq-storefront/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// sessionOrder loads an order placed by the request's session. Orders of
// other sessions look the same as missing ones.
func (h *OrderHandler) sessionOrder(c *gin.Context, db *gorm.DB) (models.Order, bool) {
	var order models.Order
	s, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session required"})
		return order, false
	}

	err := db.Preload("Items").
		Where("order_number = ? AND session_id = ?", c.Param("number"), s.ID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return order, false
	}
	if err != nil {
		h.Log.Error("failed to fetch order", zap.String("order_number", c.Param("number")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return order, false
	}
	return order, true
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, ok := h.sessionOrder(c, h.DB)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session required"})
		return
	}

	var orders []models.Order
	if err := h.DB.Preload("Items").Where("session_id = ?", s.ID).Order("created_at DESC").Find(&orders).Error; err != nil {
		h.Log.Error("failed to fetch orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// CancelOrder cancels an order the kitchen has not finished and puts its
// reserved stock back.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	tx := h.DB.Begin()

	order, ok := h.sessionOrder(c, tx)
	if !ok {
		tx.Rollback()
		return
	}

	if !models.IsValidTransition(order.Status, models.OrderStatusCancelled) {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("Invalid status transition from '%s' to '%s'", order.Status, models.OrderStatusCancelled),
		})
		return
	}

	if err := tx.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
		tx.Rollback()
		h.Log.Error("failed to cancel order", zap.String("order_number", order.OrderNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		return
	}

	for id, n := range order.StockReserved {
		if err := tx.Model(&models.MenuItem{}).Where("id = ?", id).
			Update("stock", gorm.Expr("stock + ?", n)).Error; err != nil {
			tx.Rollback()
			h.Log.Error("failed to restore stock", zap.String("menu_item_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		return
	}
	order.Status = models.OrderStatusCancelled

	h.Log.Info("order cancelled", zap.String("order_number", order.OrderNumber))
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrderTransitions(c *gin.Context) {
	c.JSON(http.StatusOK, models.AllowedTransitions)
}
