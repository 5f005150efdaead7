package cart

// TaxRate is applied to the subtotal everywhere totals are shown.
const TaxRate = 0.0825

type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	Tax         float64 `json:"tax"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`
}

func ComputeTotals(subtotal, deliveryFee float64) Totals {
	subtotal = RoundCents(subtotal)
	tax := RoundCents(subtotal * TaxRate)
	return Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: RoundCents(deliveryFee),
		Total:       RoundCents(subtotal + tax + deliveryFee),
	}
}
