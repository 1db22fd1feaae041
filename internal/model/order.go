package model

// OrderItem is one line of the order being priced. Supplied fresh per
// calculation call; the engine never mutates or persists it.
type OrderItem struct {
	MenuItemID int64   `json:"menu_item_id"`
	CategoryID int64   `json:"category_id"`
	Name       string  `json:"name,omitempty"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

// LineTotal returns price times quantity for the item.
func (it OrderItem) LineTotal() float64 {
	return it.UnitPrice * float64(it.Quantity)
}

// Subtotal sums line totals before any discount.
func Subtotal(items []OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.LineTotal()
	}
	return total
}

// DiscountOutcome is the result of running one deal against an order.
// Applied=false with Amount=0 signals "no effect", not an error.
type DiscountOutcome struct {
	DealType DealType `json:"deal_type"`
	Applied  bool     `json:"applied"`
	Amount   float64  `json:"amount"`
	Reason   string   `json:"reason,omitempty"`

	// AffectedItemIDs lists the menu items the discount acted on;
	// empty means the whole order.
	AffectedItemIDs []int64 `json:"affected_item_ids,omitempty"`

	// Variant-specific detail.
	ComboTotal    float64 `json:"combo_total,omitempty"`    // sum of combo parts at menu price
	FreeItemCount int     `json:"free_item_count,omitempty"` // buy-x-get-y discounted units
}
