package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"bbq-storefront/cart"
	"bbq-storefront/menu"
	"bbq-storefront/metrics"
	"bbq-storefront/models"
	"bbq-storefront/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CartHandler struct {
	DB          *gorm.DB
	Log         *zap.Logger
	Metrics     *metrics.Registry
	DeliveryFee float64
	BundlePrice float64
}

type bundleRequest struct {
	SideID  string `json:"side_id" binding:"required"`
	DrinkID string `json:"drink_id" binding:"required"`
}

type addItemRequest struct {
	MenuItemID          string         `json:"menu_item_id" binding:"required"`
	Quantity            int            `json:"quantity" binding:"omitempty,min=1,max=99"`
	OptionIDs           []string       `json:"option_ids"`
	SideIDs             []string       `json:"side_ids" binding:"max=3"`
	SecondMeatID        string         `json:"second_meat_id"`
	DessertID           string         `json:"dessert_id"`
	Bundle              *bundleRequest `json:"bundle"`
	SpecialInstructions string         `json:"special_instructions" binding:"max=500"`
}

type comboSelection struct {
	SectionID  string `json:"section_id" binding:"required"`
	MenuItemID string `json:"menu_item_id" binding:"required"`
}

type addComboRequest struct {
	TemplateID          string           `json:"template_id" binding:"required"`
	Selections          []comboSelection `json:"selections" binding:"required,min=1,dive"`
	Quantity            int              `json:"quantity" binding:"omitempty,min=1,max=99"`
	SpecialInstructions string           `json:"special_instructions" binding:"max=500"`
}

type addPlateRequest struct {
	Size                string   `json:"size" binding:"required"`
	MeatIDs             []string `json:"meat_ids" binding:"required,min=1"`
	SideIDs             []string `json:"side_ids"`
	Quantity            int      `json:"quantity" binding:"omitempty,min=1,max=99"`
	SpecialInstructions string   `json:"special_instructions" binding:"max=500"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0,max=99"`
}

type editItemRequest struct {
	Quantity            *int           `json:"quantity" binding:"omitempty,min=0,max=99"`
	SpecialInstructions *string        `json:"special_instructions" binding:"omitempty,max=500"`
	OptionIDs           *[]string      `json:"option_ids"`
	SideIDs             *[]string      `json:"side_ids"`
	DessertID           *string        `json:"dessert_id"`
	Bundle              *bundleRequest `json:"bundle"`
	RemoveBundle        bool           `json:"remove_bundle"`
}

// catalogError is a request that names something the menu cannot supply.
type catalogError struct{ msg string }

func (e *catalogError) Error() string { return e.msg }

func badSelection(format string, args ...any) error {
	return &catalogError{msg: fmt.Sprintf(format, args...)}
}

func (h *CartHandler) respondError(c *gin.Context, err error) {
	var ce *catalogError
	if errors.As(err, &ce) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ce.msg})
		return
	}
	h.Log.Error("cart request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
}

// pick resolves an id to an available catalog item in the given group.
func pick(catalog []menu.Item, id, group string) (menu.Item, error) {
	item, ok := menu.Find(catalog, id)
	if !ok {
		return menu.Item{}, badSelection("menu item %s not found", id)
	}
	if group != "" && menu.Group(item.Category) != group {
		return menu.Item{}, badSelection("%s is not one of the %s", item.Name, group)
	}
	if !item.Available() {
		return menu.Item{}, badSelection("%s is sold out", item.Name)
	}
	return item, nil
}

func addon(item menu.Item) cart.Addon {
	return cart.Addon{ID: item.ID, Name: item.Name, Price: item.Price}
}

func (h *CartHandler) resolveOptions(item models.MenuItem, ids []string) ([]cart.Option, error) {
	var opts []cart.Option
	perGroup := map[string]int{}
	for _, id := range ids {
		found := false
		for _, g := range item.ModifierGroups {
			for _, o := range g.Options {
				if o.ID != id {
					continue
				}
				perGroup[g.ID]++
				if g.MaxSelect > 0 && perGroup[g.ID] > g.MaxSelect {
					return nil, badSelection("choose at most %d for %s", g.MaxSelect, g.Name)
				}
				opts = append(opts, cart.Option{
					GroupID: g.ID, GroupName: g.Name,
					OptionID: o.ID, OptionName: o.Name, Price: o.Price,
				})
				found = true
			}
		}
		if !found {
			return nil, badSelection("option %s is not available for %s", id, item.Name)
		}
	}
	return opts, nil
}

func (h *CartHandler) resolveSides(catalog []menu.Item, ids []string) ([]cart.Addon, error) {
	var sides []cart.Addon
	for _, id := range ids {
		side, err := pick(catalog, id, menu.GroupSides)
		if err != nil {
			return nil, err
		}
		sides = append(sides, addon(side))
	}
	return sides, nil
}

func (h *CartHandler) resolveBundle(catalog []menu.Item, req *bundleRequest) (cart.Bundle, error) {
	side, err := pick(catalog, req.SideID, menu.GroupSides)
	if err != nil {
		return cart.Bundle{}, err
	}
	drink, err := pick(catalog, req.DrinkID, menu.GroupDrinks)
	if err != nil {
		return cart.Bundle{}, err
	}
	return cart.Bundle{Side: addon(side), Drink: addon(drink), BundlePrice: h.BundlePrice}, nil
}

func (h *CartHandler) loadMenuItem(id string) (models.MenuItem, error) {
	var item models.MenuItem
	err := h.DB.Preload("ModifierGroups.Options").Where("id = ?", id).First(&item).Error
	return item, err
}

func (h *CartHandler) GetCart(c *gin.Context) {
	s, ok := lockSession(c)
	if !ok {
		return
	}
	defer s.Unlock()

	c.JSON(http.StatusOK, newCartView(s, h.DeliveryFee))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	record, err := h.loadMenuItem(req.MenuItemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	item := record.ToMenuItem()
	if item.Stock < req.Quantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient stock for " + item.Name})
		return
	}

	catalog, err := loadCatalog(h.DB)
	if err != nil {
		h.respondError(c, err)
		return
	}

	sel := cart.Selection{Item: item, SpecialInstructions: req.SpecialInstructions}
	if sel.Options, err = h.resolveOptions(record, req.OptionIDs); err != nil {
		h.respondError(c, err)
		return
	}

	custom := &cart.Customization{}
	if custom.Sides, err = h.resolveSides(catalog, req.SideIDs); err != nil {
		h.respondError(c, err)
		return
	}
	if req.SecondMeatID != "" {
		meat, err := pick(catalog, req.SecondMeatID, menu.GroupMeats)
		if err != nil {
			h.respondError(c, err)
			return
		}
		m := addon(meat)
		custom.MultiMeat = true
		custom.SecondMeat = &m
	}
	if req.DessertID != "" {
		dessert, err := pick(catalog, req.DessertID, menu.GroupDesserts)
		if err != nil {
			h.respondError(c, err)
			return
		}
		d := addon(dessert)
		custom.Dessert = &d
	}
	if req.Bundle != nil {
		b, err := h.resolveBundle(catalog, req.Bundle)
		if err != nil {
			h.respondError(c, err)
			return
		}
		custom.Bundle = &b
	}
	if !custom.IsEmpty() {
		sel.Custom = custom
	}

	s, ok := lockSession(c)
	if !ok {
		return
	}
	defer s.Unlock()

	line := s.Cart.AddItem(sel)
	if req.Quantity > 1 {
		s.Cart.UpdateQuantity(line.ID, line.Quantity+req.Quantity-1)
		line, _ = s.Cart.Find(line.ID)
	}

	h.Metrics.CartMutations.WithLabelValues("add_item").Inc()
	h.Log.Info("cart item added",
		zap.String("session_id", s.ID),
		zap.String("line_id", line.ID),
		zap.String("kind", string(line.Kind())),
		zap.Int("quantity", line.Quantity),
	)

	c.JSON(http.StatusOK, gin.H{"line": line, "cart": newCartView(s, h.DeliveryFee)})
}

func (h *CartHandler) AddCombo(c *gin.Context) {
	var req addComboRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	var tpl models.ComboTemplate
	err := h.DB.Preload("Sections").Where("id = ?", req.TemplateID).First(&tpl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Combo not found"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	catalog, err := loadCatalog(h.DB)
	if err != nil {
		h.respondError(c, err)
		return
	}

	chosen := map[string]string{}
	for _, sel := range req.Selections {
		chosen[sel.SectionID] = sel.MenuItemID
	}
	if len(chosen) != len(req.Selections) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Each combo section can only be chosen once"})
		return
	}

	var items []cart.ComboItem
	for _, section := range tpl.Sections {
		id, ok := chosen[section.ID]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Choose an item for " + section.Name})
			return
		}
		item, err := pick(catalog, id, "")
		if err != nil {
			h.respondError(c, err)
			return
		}
		if !section.Accepts(item) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s cannot fill %s", item.Name, section.Name)})
			return
		}
		items = append(items, cart.ComboItem{
			SectionID: section.ID, SectionName: section.Name,
			ItemID: item.ID, ItemName: item.Name, ItemPrice: item.Price, ItemImage: item.Image,
		})
		delete(chosen, section.ID)
	}
	if len(chosen) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown combo section"})
		return
	}

	unit := tpl.UnitPrice(items)

	s, ok := lockSession(c)
	if !ok {
		return
	}
	defer s.Unlock()

	line := s.Cart.AddCombo(cart.ComboOrder{
		TemplateID:          tpl.ID,
		Name:                tpl.Name,
		Items:               items,
		TotalPrice:          unit * float64(req.Quantity),
		Quantity:            req.Quantity,
		SpecialInstructions: req.SpecialInstructions,
	})

	h.Metrics.CartMutations.WithLabelValues("add_combo").Inc()
	h.Log.Info("combo added",
		zap.String("session_id", s.ID),
		zap.String("line_id", line.ID),
		zap.Float64("unit_price", line.Price),
	)

	c.JSON(http.StatusOK, gin.H{"line": line, "cart": newCartView(s, h.DeliveryFee)})
}

func (h *CartHandler) AddPlate(c *gin.Context) {
	var req addPlateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	size, ok := menu.FindPlateSize(req.Size)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plate size " + req.Size})
		return
	}
	if len(req.MeatIDs) != size.Meats {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s takes %d meats", size.Name, size.Meats)})
		return
	}
	if len(req.SideIDs) > size.Sides {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s takes at most %d sides", size.Name, size.Sides)})
		return
	}

	catalog, err := loadCatalog(h.DB)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var meats []cart.Addon
	for _, id := range req.MeatIDs {
		meat, err := pick(catalog, id, menu.GroupMeats)
		if err != nil {
			h.respondError(c, err)
			return
		}
		meats = append(meats, addon(meat))
	}
	// Sides come with the plate.
	var sides []cart.Addon
	for _, id := range req.SideIDs {
		side, err := pick(catalog, id, menu.GroupSides)
		if err != nil {
			h.respondError(c, err)
			return
		}
		sides = append(sides, cart.Addon{ID: side.ID, Name: side.Name})
	}

	s, ok := lockSession(c)
	if !ok {
		return
	}
	defer s.Unlock()

	line := s.Cart.AddPlate(cart.PlateOrder{
		Size:                size,
		Meats:               meats,
		Sides:               sides,
		Quantity:            req.Quantity,
		SpecialInstructions: req.SpecialInstructions,
	})

	h.Metrics.CartMutations.WithLabelValues("add_plate").Inc()
	h.Log.Info("plate added",
		zap.String("session_id", s.ID),
		zap.String("line_id", line.ID),
		zap.Float64("unit_price", line.Price),
	)

	c.JSON(http.StatusOK, gin.H{"line": line, "cart": newCartView(s, h.DeliveryFee)})
}

// UpdateCartItem sets a line's quantity; zero removes it.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	s, ok := lockSession(c)
	if !ok {
		return
	}
	defer s.Unlock()

	id := c.Param("id")
	if !s.Cart.UpdateQuantity(id, *req.Quantity) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	h.Metrics.CartMutations.WithLabelValues("update_quantity").Inc()
	h.Log.Info("cart quantity updated",
		zap.String("session_id", s.ID),
		zap.String("line_id", id),
		zap.Int("quantity", *req.Quantity),
	)

	c.JSON(http.StatusOK, newCartView(s, h.DeliveryFee))
}

// EditCartItem applies partial edits to a line and re-prices it.
func (h *CartHandler) EditCartItem(c *gin.Context) {
	var req editItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	s, ok := lockSession(c)
	if !ok {
		return
	}
	defer s.Unlock()

	line, found := s.Cart.Find(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	edits, err := h.buildEdits(line, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	updated, kept := s.Cart.EditItem(line.ID, edits...)

	h.Metrics.CartMutations.WithLabelValues("edit_item").Inc()
	h.Log.Info("cart item edited",
		zap.String("session_id", s.ID),
		zap.String("line_id", line.ID),
		zap.Int("edits", len(edits)),
		zap.Bool("removed", !kept),
	)

	resp := gin.H{"cart": newCartView(s, h.DeliveryFee)}
	if kept {
		resp["line"] = updated
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) buildEdits(line cart.Line, req editItemRequest) ([]cart.Edit, error) {
	var edits []cart.Edit
	if req.Quantity != nil {
		edits = append(edits, cart.SetQuantity(*req.Quantity))
	}
	if req.SpecialInstructions != nil {
		edits = append(edits, cart.SetInstructions(*req.SpecialInstructions))
	}

	if req.OptionIDs == nil && req.SideIDs == nil && req.DessertID == nil && req.Bundle == nil && !req.RemoveBundle {
		return edits, nil
	}

	catalog, err := loadCatalog(h.DB)
	if err != nil {
		return nil, err
	}

	if req.OptionIDs != nil {
		kind := line.Kind()
		if kind == cart.KindCombo || kind == cart.KindPlate {
			return nil, badSelection("options cannot be changed on a %s", kind)
		}
		record, err := h.loadMenuItem(line.SourceID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, badSelection("%s is no longer on the menu", line.Name)
		}
		if err != nil {
			return nil, err
		}
		opts, err := h.resolveOptions(record, *req.OptionIDs)
		if err != nil {
			return nil, err
		}
		edits = append(edits, cart.ReplaceOptions(opts))
	}

	if req.SideIDs != nil {
		sides, err := h.resolveSides(catalog, *req.SideIDs)
		if err != nil {
			return nil, err
		}
		if p, ok := line.Plate(); ok {
			size, _ := menu.FindPlateSize(p.Size)
			if len(sides) > size.Sides {
				return nil, badSelection("%s takes at most %d sides", size.Name, size.Sides)
			}
			for i := range sides {
				sides[i].Price = 0
			}
		}
		edits = append(edits, cart.ReplaceSides(sides))
	}

	if req.DessertID != nil {
		if *req.DessertID == "" {
			edits = append(edits, cart.RemoveDessert())
		} else {
			dessert, err := pick(catalog, *req.DessertID, menu.GroupDesserts)
			if err != nil {
				return nil, err
			}
			edits = append(edits, cart.SetDessert(addon(dessert)))
		}
	}

	if req.RemoveBundle {
		edits = append(edits, cart.RemoveBundle())
	} else if req.Bundle != nil {
		b, err := h.resolveBundle(catalog, req.Bundle)
		if err != nil {
			return nil, err
		}
		edits = append(edits, cart.SetBundle(b))
	}

	return edits, nil
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	s, ok := lockSession(c)
	if !ok {
		return
	}
	defer s.Unlock()

	id := c.Param("id")
	if !s.Cart.RemoveItem(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	h.Metrics.CartMutations.WithLabelValues("remove_item").Inc()
	h.Log.Info("cart item removed", zap.String("session_id", s.ID), zap.String("line_id", id))

	c.JSON(http.StatusOK, newCartView(s, h.DeliveryFee))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	s, ok := lockSession(c)
	if !ok {
		return
	}
	defer s.Unlock()

	s.Cart.Clear()

	h.Metrics.CartMutations.WithLabelValues("clear").Inc()
	h.Log.Info("cart cleared", zap.String("session_id", s.ID))

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
