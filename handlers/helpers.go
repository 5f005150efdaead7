package handlers

import (
	"errors"
	"net/http"

	"bbq-storefront/cart"
	"bbq-storefront/checkout"
	"bbq-storefront/menu"
	"bbq-storefront/middleware"
	"bbq-storefront/models"
	"bbq-storefront/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errInsufficientStock = errors.New("insufficient stock")

// loadCatalog returns the whole menu in display order.
func loadCatalog(db *gorm.DB) ([]menu.Item, error) {
	var items []models.MenuItem
	if err := db.Order("sort_order, name").Find(&items).Error; err != nil {
		return nil, err
	}
	return models.Catalog(items), nil
}

// lockSession returns the request's session with its lock held. The caller
// must Unlock it.
func lockSession(c *gin.Context) (*utils.Session, bool) {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session required"})
		return nil, false
	}
	s.Lock()
	return s, true
}

type cartView struct {
	Items     []cart.Line `json:"items"`
	ItemCount int         `json:"item_count"`
	HasCombo  bool        `json:"has_combo"`
	Totals    cart.Totals `json:"totals"`
}

// quote prices the session's cart for the order type chosen at checkout,
// or as pickup before one is chosen.
func quote(s *utils.Session, deliveryFee float64) cart.Totals {
	orderType := checkout.OrderTypePickup
	if d, ok := s.Checkout.Details(); ok {
		orderType = d.OrderType
	}
	return checkout.Quote(s.Cart.Items(), orderType, deliveryFee)
}

func newCartView(s *utils.Session, deliveryFee float64) cartView {
	lines := s.Cart.Items()
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartView{
		Items:     lines,
		ItemCount: cart.TotalItems(lines),
		HasCombo:  cart.HasCombo(lines),
		Totals:    quote(s, deliveryFee),
	}
}

func checkoutErrorStatus(err error) int {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrInvalidCard):
		return http.StatusBadRequest
	case errors.Is(err, checkout.ErrPaymentDeclined):
		return http.StatusPaymentRequired
	case errors.Is(err, checkout.ErrInvalidTransition),
		errors.Is(err, checkout.ErrDetailsRequired),
		errors.Is(err, errInsufficientStock):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
