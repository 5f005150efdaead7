package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bbq-storefront/checkout"
	"bbq-storefront/kitchen"
	"bbq-storefront/metrics"
	"bbq-storefront/models"
	"bbq-storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CheckoutHandler struct {
	DB          *gorm.DB
	Log         *zap.Logger
	Metrics     *metrics.Registry
	Processor   checkout.PaymentProcessor
	Publisher   kitchen.Publisher
	Mailer      *utils.Mailer
	DeliveryFee float64
}

type paymentRequest struct {
	Card checkout.Card `json:"card"`
}

func (h *CheckoutHandler) stateView(s *utils.Session) gin.H {
	return gin.H{
		"checkout": s.Checkout.State(),
		"totals":   quote(s, h.DeliveryFee),
	}
}

func (h *CheckoutHandler) fail(c *gin.Context, s *utils.Session, err error) {
	status := checkoutErrorStatus(err)
	if status == http.StatusInternalServerError {
		h.Log.Error("checkout failed", zap.String("session_id", s.ID), zap.Error(err))
		c.JSON(status, gin.H{"error": "Checkout failed"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "step": s.Checkout.Step()})
}

func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	s, ok := lockSession(c)
	if !ok {
		return
	}
	defer s.Unlock()

	c.JSON(http.StatusOK, h.stateView(s))
}

// ConfirmReview accepts the cart and moves to the details step. A session
// sitting on a finished checkout starts a new one.
func (h *CheckoutHandler) ConfirmReview(c *gin.Context) {
	s, ok := lockSession(c)
	if !ok {
		return
	}
	defer s.Unlock()

	if s.Checkout.Step() == checkout.StepConfirmation {
		s.ResetCheckout()
	}
	if err := s.Checkout.ConfirmReview(s.Cart.Items()); err != nil {
		h.fail(c, s, err)
		return
	}

	h.Metrics.CheckoutTransitions.WithLabelValues(string(checkout.StepDetails)).Inc()
	c.JSON(http.StatusOK, h.stateView(s))
}

func (h *CheckoutHandler) SubmitDetails(c *gin.Context) {
	var req checkout.Details
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	s, ok := lockSession(c)
	if !ok {
		return
	}
	defer s.Unlock()

	if err := s.Checkout.SubmitDetails(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
			return
		}
		h.fail(c, s, err)
		return
	}

	h.Metrics.CheckoutTransitions.WithLabelValues(string(checkout.StepPayment)).Inc()
	c.JSON(http.StatusOK, h.stateView(s))
}

func (h *CheckoutHandler) Back(c *gin.Context) {
	s, ok := lockSession(c)
	if !ok {
		return
	}
	defer s.Unlock()

	if err := s.Checkout.Back(); err != nil {
		h.fail(c, s, err)
		return
	}

	h.Metrics.CheckoutTransitions.WithLabelValues(string(s.Checkout.Step())).Inc()
	c.JSON(http.StatusOK, h.stateView(s))
}

// reserveStock takes units off every menu item the cart uses. The update is
// conditional so two sessions cannot both take the last unit.
func reserveStock(tx *gorm.DB, usage map[string]int) error {
	for id, n := range usage {
		res := tx.Model(&models.MenuItem{}).
			Where("id = ? AND stock >= ?", id, n).
			Update("stock", gorm.Expr("stock - ?", n))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var item models.MenuItem
			if err := tx.Select("name").Where("id = ?", id).First(&item).Error; err == nil {
				return fmt.Errorf("%w for %s", errInsufficientStock, item.Name)
			}
			return fmt.Errorf("%w for %s", errInsufficientStock, id)
		}
	}
	return nil
}

// PlacePayment charges the card and stores the order. Stock is reserved and
// the order written in one transaction with the charge, so a declined card
// leaves stock untouched.
func (h *CheckoutHandler) PlacePayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	s, ok := lockSession(c)
	if !ok {
		return
	}
	defer s.Unlock()

	lines := s.Cart.Items()
	if len(lines) == 0 {
		h.fail(c, s, checkout.ErrEmptyCart)
		return
	}
	details, ok := s.Checkout.Details()
	if !ok || s.Checkout.Step() != checkout.StepPayment {
		h.fail(c, s, fmt.Errorf("%w: cannot pay during %s", checkout.ErrInvalidTransition, s.Checkout.Step()))
		return
	}

	totals := checkout.Quote(lines, details.OrderType, h.DeliveryFee)
	usage := models.StockUsage(lines)

	order := models.Order{
		SessionID:       s.ID,
		Status:          models.OrderStatusConfirmed,
		OrderType:       string(details.OrderType),
		CustomerName:    details.Name,
		CustomerEmail:   details.Email,
		CustomerPhone:   details.Phone,
		DeliveryAddress: details.Address,
		PickupTime:      details.PickupTime,
		Notes:           details.Notes,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		DeliveryFee:     totals.DeliveryFee,
		Total:           totals.Total,
		StockReserved:   usage,
	}
	for _, l := range lines {
		item, err := models.NewOrderItem(l)
		if err != nil {
			h.fail(c, s, err)
			return
		}
		order.Items = append(order.Items, item)
	}

	tx := h.DB.Begin()

	if err := reserveStock(tx, usage); err != nil {
		tx.Rollback()
		h.fail(c, s, err)
		return
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		h.fail(c, s, fmt.Errorf("create order: %w", err))
		return
	}

	result, err := s.Checkout.Pay(c.Request.Context(), h.Processor, req.Card, totals)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, checkout.ErrPaymentDeclined) {
			h.Metrics.PaymentsDeclined.Inc()
			h.Log.Info("payment declined", zap.String("session_id", s.ID), zap.String("last4", result.Last4))
			c.JSON(http.StatusPaymentRequired, gin.H{"error": result.Message, "step": s.Checkout.Step()})
			return
		}
		h.fail(c, s, err)
		return
	}

	if err := tx.Model(&order).Updates(map[string]interface{}{
		"payment_last4":  result.Last4,
		"transaction_id": result.TransactionID,
	}).Error; err != nil {
		tx.Rollback()
		h.Log.Error("payment captured but order not saved",
			zap.String("transaction_id", result.TransactionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete order"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		h.Log.Error("payment captured but order not saved",
			zap.String("transaction_id", result.TransactionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete order"})
		return
	}
	order.PaymentLast4 = result.Last4
	order.TransactionID = result.TransactionID

	s.Checkout.Complete(order.OrderNumber)
	s.Cart.Clear()

	h.Metrics.CheckoutTransitions.WithLabelValues(string(checkout.StepConfirmation)).Inc()
	h.Metrics.OrdersPlaced.Inc()
	h.Metrics.OrderValue.Observe(order.Total)
	h.Log.Info("order placed",
		zap.String("session_id", s.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.Total),
		zap.Int("lines", len(lines)),
	)

	ticket := kitchen.NewTicket(order.OrderNumber, order.OrderType, order.CustomerName, lines, order.CreatedAt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Publisher.Publish(ctx, ticket); err != nil {
		h.Metrics.TicketPublishFailures.Inc()
		h.Log.Warn("failed to send kitchen ticket",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
	}

	if h.Mailer != nil {
		h.Mailer.SendOrderConfirmation(order)
	}

	c.JSON(http.StatusCreated, gin.H{
		"order":    order,
		"checkout": s.Checkout.State(),
	})
}
