package menu

// PlateSize describes a build-your-own plate: how many meats and sides it
// holds and its base price before meat upcharges.
type PlateSize struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Meats     int     `json:"meats"`
	Sides     int     `json:"sides"`
	BasePrice float64 `json:"base_price"`
}

var plateSizes = []PlateSize{
	{ID: "one-meat", Name: "One Meat Plate", Meats: 1, Sides: 2, BasePrice: 13.99},
	{ID: "two-meat", Name: "Two Meat Plate", Meats: 2, Sides: 2, BasePrice: 17.99},
	{ID: "three-meat", Name: "Three Meat Plate", Meats: 3, Sides: 3, BasePrice: 22.99},
}

func PlateSizes() []PlateSize {
	return append([]PlateSize(nil), plateSizes...)
}

func FindPlateSize(id string) (PlateSize, bool) {
	for _, p := range plateSizes {
		if p.ID == id {
			return p, true
		}
	}
	return PlateSize{}, false
}
