package handlers

import (
	"errors"
	"net/http"
	"strings"

	"bbq-storefront/menu"
	"bbq-storefront/models"
	"bbq-storefront/upsell"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MenuHandler struct {
	DB           *gorm.DB
	Log          *zap.Logger
	RelatedLimit int
}

// GetMenu lists the menu, optionally narrowed to one category group
// (?group=mains) or a search term (?q=brisket).
func (h *MenuHandler) GetMenu(c *gin.Context) {
	var items []models.MenuItem
	if err := h.DB.Order("sort_order, name").Find(&items).Error; err != nil {
		h.Log.Error("failed to fetch menu", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
		return
	}

	group := strings.ToLower(c.Query("group"))
	search := strings.TrimSpace(c.Query("q"))
	catalog := menu.Filter(models.Catalog(items), 0, func(i menu.Item) bool {
		if group != "" && menu.Group(i.Category) != group {
			return false
		}
		return search == "" || i.NameContains(search)
	})

	c.JSON(http.StatusOK, catalog)
}

func (h *MenuHandler) GetMenuItem(c *gin.Context) {
	var item models.MenuItem
	err := h.DB.
		Preload("ModifierGroups", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Preload("ModifierGroups.Options", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Where("id = ?", c.Param("id")).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	if err != nil {
		h.Log.Error("failed to fetch menu item", zap.String("menu_item_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// GetRelatedItems returns "you might also like" items for a menu item.
func (h *MenuHandler) GetRelatedItems(c *gin.Context) {
	catalog, err := loadCatalog(h.DB)
	if err != nil {
		h.Log.Error("failed to fetch menu", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
		return
	}

	item, ok := menu.Find(catalog, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}

	c.JSON(http.StatusOK, upsell.RelatedItems(item, catalog, h.RelatedLimit))
}

// GetComboTemplates lists the combos a shopper can build.
func (h *MenuHandler) GetComboTemplates(c *gin.Context) {
	var templates []models.ComboTemplate
	err := h.DB.
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Order("name").Find(&templates).Error
	if err != nil {
		h.Log.Error("failed to fetch combo templates", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch combos"})
		return
	}

	c.JSON(http.StatusOK, templates)
}

func (h *MenuHandler) GetPlateSizes(c *gin.Context) {
	c.JSON(http.StatusOK, menu.PlateSizes())
}
