package handlers

import (
	"net/http"
	"strconv"

	"bbq-storefront/cart"
	"bbq-storefront/metrics"
	"bbq-storefront/upsell"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UpsellHandler struct {
	DB                 *gorm.DB
	Log                *zap.Logger
	Metrics            *metrics.Registry
	Engine             *upsell.Engine
	MaxRecommendations int
}

// cartSnapshot copies the session's lines so rules run without the lock.
func cartSnapshot(c *gin.Context) ([]cart.Line, bool) {
	s, ok := lockSession(c)
	if !ok {
		return nil, false
	}
	defer s.Unlock()
	return s.Cart.Items(), true
}

// GetRecommendations evaluates the rule set against the session's cart.
// ?max overrides the configured limit.
func (h *UpsellHandler) GetRecommendations(c *gin.Context) {
	max := h.MaxRecommendations
	if raw := c.Query("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 10 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max must be between 1 and 10"})
			return
		}
		max = n
	}

	lines, ok := cartSnapshot(c)
	if !ok {
		return
	}

	catalog, err := loadCatalog(h.DB)
	if err != nil {
		h.Log.Error("failed to fetch menu", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recommendations"})
		return
	}

	recs := h.Engine.Recommend(lines, catalog, max)
	for _, r := range recs {
		h.Metrics.RecommendationsServed.WithLabelValues(r.ID).Inc()
	}

	c.JSON(http.StatusOK, recs)
}

// GetComboSuggestions lists combos that cover what is already in the cart.
func (h *UpsellHandler) GetComboSuggestions(c *gin.Context) {
	lines, ok := cartSnapshot(c)
	if !ok {
		return
	}

	catalog, err := loadCatalog(h.DB)
	if err != nil {
		h.Log.Error("failed to fetch menu", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch combo suggestions"})
		return
	}

	c.JSON(http.StatusOK, upsell.ComboSuggestions(lines, catalog))
}
