package cart

// Edit mutates a line in place. The store recomputes the price after all
// edits have been applied, so edits never touch Price themselves. Edits that
// do not fit the line's payload leave it unchanged.
type Edit func(*Line)

func SetQuantity(n int) Edit {
	return func(l *Line) { l.Quantity = n }
}

func SetInstructions(text string) Edit {
	return func(l *Line) { l.SpecialInstructions = text }
}

func ReplaceOptions(opts []Option) Edit {
	return func(l *Line) { l.Options = append([]Option(nil), opts...) }
}

// ReplaceSides swaps the selected sides of a customized item or a plate.
func ReplaceSides(sides []Addon) Edit {
	return func(l *Line) {
		switch p := l.Payload.(type) {
		case *Plate:
			p.Sides = append([]Addon(nil), sides...)
		case *Customization:
			p.Sides = append([]Addon(nil), sides...)
		case nil:
			if len(sides) > 0 {
				l.Payload = &Customization{Sides: append([]Addon(nil), sides...)}
			}
		}
	}
}

func SetDessert(dessert Addon) Edit {
	return func(l *Line) {
		if c := customizable(l); c != nil {
			d := dessert
			c.Dessert = &d
		}
	}
}

func RemoveDessert() Edit {
	return func(l *Line) {
		if c, ok := l.Payload.(*Customization); ok {
			c.Dessert = nil
		}
	}
}

func SetBundle(bundle Bundle) Edit {
	return func(l *Line) {
		if c := customizable(l); c != nil {
			b := bundle
			c.Bundle = &b
		}
	}
}

func RemoveBundle() Edit {
	return func(l *Line) {
		if c, ok := l.Payload.(*Customization); ok {
			c.Bundle = nil
		}
	}
}

// customizable returns the line's customization, creating one for plain and
// option lines. Combos and plates cannot take item extras.
func customizable(l *Line) *Customization {
	switch p := l.Payload.(type) {
	case *Customization:
		return p
	case nil:
		c := &Customization{}
		l.Payload = c
		return c
	}
	return nil
}
