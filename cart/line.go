package cart

// Kind names the shape of a cart line.
type Kind string

const (
	KindPlain   Kind = "plain"
	KindOptions Kind = "options"
	KindCustom  Kind = "custom"
	KindCombo   Kind = "combo"
	KindPlate   Kind = "plate"
)

// Option is one modifier selection with its own incremental price.
type Option struct {
	GroupID    string  `json:"group_id"`
	GroupName  string  `json:"group_name"`
	OptionID   string  `json:"option_id"`
	OptionName string  `json:"option_name"`
	Price      float64 `json:"price"`
}

// Addon is a priced extra attached to a line: a side, a second meat, a dessert.
type Addon struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Bundle is an accepted side + drink offer. BundlePrice replaces the sum of
// the individual side and drink prices.
type Bundle struct {
	Side        Addon   `json:"side"`
	Drink       Addon   `json:"drink"`
	BundlePrice float64 `json:"bundlePrice"`
}

type ComboItem struct {
	SectionID   string  `json:"section_id"`
	SectionName string  `json:"section_name"`
	ItemID      string  `json:"item_id"`
	ItemName    string  `json:"item_name"`
	ItemPrice   float64 `json:"item_price"`
	ItemImage   string  `json:"item_image,omitempty"`
}

// Payload is the variant part of a line. A line carries at most one
// payload, so a combo can never also hold a second meat.
type Payload interface {
	Kind() Kind
	surcharge() float64
	clone() Payload
}

// Customization holds the rich extras chosen for a single menu item.
type Customization struct {
	MultiMeat  bool    `json:"isMultiMeatPlate"`
	SecondMeat *Addon  `json:"secondMeat,omitempty"`
	Sides      []Addon `json:"selectedSides,omitempty"`
	Dessert    *Addon  `json:"selectedDessert,omitempty"`
	Bundle     *Bundle `json:"bundleItems,omitempty"`
}

// IsEmpty reports whether nothing was actually customized.
func (c *Customization) IsEmpty() bool {
	return c == nil || (!c.MultiMeat && c.SecondMeat == nil && len(c.Sides) == 0 && c.Dessert == nil && c.Bundle == nil)
}

func (c *Customization) Kind() Kind { return KindCustom }

func (c *Customization) surcharge() float64 {
	var total float64
	if c.SecondMeat != nil {
		total += c.SecondMeat.Price
	}
	for _, side := range c.Sides {
		total += side.Price
	}
	if c.Dessert != nil {
		total += c.Dessert.Price
	}
	if c.Bundle != nil {
		total += c.Bundle.BundlePrice
	}
	return total
}

func (c *Customization) clone() Payload {
	out := &Customization{MultiMeat: c.MultiMeat, Sides: append([]Addon(nil), c.Sides...)}
	if c.SecondMeat != nil {
		m := *c.SecondMeat
		out.SecondMeat = &m
	}
	if c.Dessert != nil {
		d := *c.Dessert
		out.Dessert = &d
	}
	if c.Bundle != nil {
		b := *c.Bundle
		out.Bundle = &b
	}
	return out
}

// Combo is a composed combo: one item per template section. Its price is
// carried entirely by the line's base price.
type Combo struct {
	TemplateID string      `json:"template_id"`
	Items      []ComboItem `json:"combo_items"`
}

func (c *Combo) Kind() Kind         { return KindCombo }
func (c *Combo) surcharge() float64 { return 0 }
func (c *Combo) clone() Payload {
	return &Combo{TemplateID: c.TemplateID, Items: append([]ComboItem(nil), c.Items...)}
}

// Plate is a build-your-own plate. Meat prices are upcharges over the
// plate's base price; sides are included at 0 unless explicitly priced.
type Plate struct {
	Size  string  `json:"plateSize"`
	Meats []Addon `json:"meats"`
	Sides []Addon `json:"selectedSides"`
}

func (p *Plate) Kind() Kind { return KindPlate }

func (p *Plate) surcharge() float64 {
	var total float64
	for _, m := range p.Meats {
		total += m.Price
	}
	for _, s := range p.Sides {
		total += s.Price
	}
	return total
}

func (p *Plate) clone() Payload {
	return &Plate{Size: p.Size, Meats: append([]Addon(nil), p.Meats...), Sides: append([]Addon(nil), p.Sides...)}
}

// Line is one row of the cart. Price is the fully-loaded unit price and is
// always derived by the store from BasePrice, Options and Payload.
type Line struct {
	ID                  string
	SourceID            string
	Name                string
	Category            string
	BasePrice           float64
	Price               float64
	Quantity            int
	Options             []Option
	SpecialInstructions string
	Payload             Payload
}

func (l Line) Kind() Kind {
	if l.Payload != nil {
		return l.Payload.Kind()
	}
	if len(l.Options) > 0 {
		return KindOptions
	}
	return KindPlain
}

func (l Line) LineTotal() float64 {
	return RoundCents(l.Price * float64(l.Quantity))
}

// Customization returns the line's customization payload, if any.
func (l Line) Customization() (*Customization, bool) {
	c, ok := l.Payload.(*Customization)
	return c, ok
}

func (l Line) Combo() (*Combo, bool) {
	c, ok := l.Payload.(*Combo)
	return c, ok
}

func (l Line) Plate() (*Plate, bool) {
	p, ok := l.Payload.(*Plate)
	return p, ok
}

func (l Line) clone() Line {
	out := l
	out.Options = append([]Option(nil), l.Options...)
	if l.Payload != nil {
		out.Payload = l.Payload.clone()
	}
	return out
}

func (l *Line) recompute() {
	price := l.BasePrice
	for _, o := range l.Options {
		price += o.Price
	}
	if l.Payload != nil {
		price += l.Payload.surcharge()
	}
	if price < 0 {
		price = 0
	}
	l.Price = RoundCents(price)
}
