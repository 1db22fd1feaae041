package engine

import (
	"fmt"

	"github.com/mesafoods/deals/internal/model"
)

// Calculate runs the deal's discount variant against the order and
// returns the outcome. Applied=false with Amount=0 means the deal has
// no effect on this order; that is data, not an error. A deal whose
// payload does not match its type tag is treated the same way so one
// bad deal cannot block evaluation of the rest.
//
// Only structural input violations return an error: a negative
// subtotal or an order item without identity or with a non-positive
// quantity or negative price.
func Calculate(d *model.Deal, items []model.OrderItem, subtotal float64) (model.DiscountOutcome, error) {
	if d == nil {
		return model.DiscountOutcome{}, ErrNilDeal
	}
	if subtotal < 0 {
		return model.DiscountOutcome{}, fmt.Errorf("%w: %.2f", ErrNegativeSubtotal, subtotal)
	}
	for _, it := range items {
		if it.MenuItemID == 0 {
			return model.DiscountOutcome{}, fmt.Errorf("%w: missing menu item id", ErrInvalidOrderItem)
		}
		if it.Quantity <= 0 {
			return model.DiscountOutcome{}, fmt.Errorf("%w: item %d has quantity %d", ErrInvalidOrderItem, it.MenuItemID, it.Quantity)
		}
		if it.UnitPrice < 0 {
			return model.DiscountOutcome{}, fmt.Errorf("%w: item %d has negative price", ErrInvalidOrderItem, it.MenuItemID)
		}
	}

	switch d.Type {
	case model.DealTypePercentage:
		return calcPercentage(d, items, subtotal), nil
	case model.DealTypeFixed:
		return calcFixed(d, items, subtotal), nil
	case model.DealTypeCombo:
		return calcCombo(d, items), nil
	case model.DealTypeBuyXGetY:
		return calcBuyXGetY(d, items), nil
	case model.DealTypeMinPurchase:
		return calcMinPurchase(d, subtotal), nil
	default:
		return notApplied(d, fmt.Sprintf("unknown deal type %q", d.Type)), nil
	}
}

func notApplied(d *model.Deal, reason string) model.DiscountOutcome {
	return model.DiscountOutcome{DealType: d.Type, Applied: false, Reason: reason}
}

func calcPercentage(d *model.Deal, items []model.OrderItem, subtotal float64) model.DiscountOutcome {
	if d.Percentage <= 0 {
		return notApplied(d, "deal has no percentage configured")
	}

	// Unrestricted scope discounts the whole order.
	if d.Scope.Kind == model.ScopeAll {
		amount := subtotal * d.Percentage / 100
		if amount > subtotal {
			amount = subtotal
		}
		return model.DiscountOutcome{
			DealType: d.Type,
			Applied:  amount > 0,
			Amount:   amount,
		}
	}

	applicable := ApplicableItems(d, items)
	if len(applicable) == 0 {
		return notApplied(d, "no order items match the deal scope")
	}
	var amount float64
	for _, it := range applicable {
		amount += it.LineTotal() * d.Percentage / 100
	}
	return model.DiscountOutcome{
		DealType:        d.Type,
		Applied:         amount > 0,
		Amount:          amount,
		AffectedItemIDs: itemIDs(applicable),
	}
}

func calcFixed(d *model.Deal, items []model.OrderItem, subtotal float64) model.DiscountOutcome {
	if d.FixedAmount <= 0 {
		return notApplied(d, "deal has no fixed amount configured")
	}

	// The flat amount never exceeds what it discounts from: the subtotal
	// for whole-order deals, the applicable-item total for scoped ones.
	if d.Scope.Kind == model.ScopeAll {
		amount := d.FixedAmount
		if amount > subtotal {
			amount = subtotal
		}
		return model.DiscountOutcome{
			DealType: d.Type,
			Applied:  amount > 0,
			Amount:   amount,
		}
	}

	applicable := ApplicableItems(d, items)
	if len(applicable) == 0 {
		return notApplied(d, "no order items match the deal scope")
	}
	amount := d.FixedAmount
	if base := applicableTotal(applicable); amount > base {
		amount = base
	}
	return model.DiscountOutcome{
		DealType:        d.Type,
		Applied:         amount > 0,
		Amount:          amount,
		AffectedItemIDs: itemIDs(applicable),
	}
}

func calcCombo(d *model.Deal, items []model.OrderItem) model.DiscountOutcome {
	if len(d.ComboItems) == 0 || d.ComboPrice <= 0 {
		return notApplied(d, "deal has no combo configured")
	}

	qtyByID := make(map[int64]int, len(items))
	priceByID := make(map[int64]float64, len(items))
	for _, it := range items {
		qtyByID[it.MenuItemID] += it.Quantity
		priceByID[it.MenuItemID] = it.UnitPrice
	}

	// Every combo line must be present with at least its required quantity.
	var comboTotal float64
	affected := make([]int64, 0, len(d.ComboItems))
	for _, ci := range d.ComboItems {
		if ci.Quantity <= 0 {
			return notApplied(d, "deal has no combo configured")
		}
		if qtyByID[ci.MenuItemID] < ci.Quantity {
			return notApplied(d, fmt.Sprintf("order is missing combo item %d", ci.MenuItemID))
		}
		comboTotal += priceByID[ci.MenuItemID] * float64(ci.Quantity)
		affected = append(affected, ci.MenuItemID)
	}

	// A combo priced above the sum of its parts yields zero, never a
	// negative discount.
	amount := comboTotal - d.ComboPrice
	if amount < 0 {
		amount = 0
	}
	return model.DiscountOutcome{
		DealType:        d.Type,
		Applied:         amount > 0,
		Amount:          amount,
		AffectedItemIDs: affected,
		ComboTotal:      comboTotal,
	}
}

func calcBuyXGetY(d *model.Deal, items []model.OrderItem) model.DiscountOutcome {
	if d.BuyItemID == 0 || d.BuyQuantity <= 0 || d.GetQuantity <= 0 {
		return notApplied(d, "deal has no buy/get quantities configured")
	}

	qtyByID := make(map[int64]int, len(items))
	priceByID := make(map[int64]float64, len(items))
	for _, it := range items {
		qtyByID[it.MenuItemID] += it.Quantity
		priceByID[it.MenuItemID] = it.UnitPrice
	}

	buyQty := qtyByID[d.BuyItemID]
	if buyQty < d.BuyQuantity {
		return notApplied(d, fmt.Sprintf("order needs at least %d of item %d", d.BuyQuantity, d.BuyItemID))
	}

	getID := d.GetItemID
	if getID == 0 {
		getID = d.BuyItemID
	}
	getQty := qtyByID[getID]
	if getQty == 0 {
		return notApplied(d, fmt.Sprintf("order does not contain reward item %d", getID))
	}

	sets := buyQty / d.BuyQuantity
	discounted := sets * d.GetQuantity
	if discounted > getQty {
		discounted = getQty
	}
	amount := float64(discounted) * priceByID[getID]
	return model.DiscountOutcome{
		DealType:        d.Type,
		Applied:         amount > 0,
		Amount:          amount,
		AffectedItemIDs: []int64{getID},
		FreeItemCount:   discounted,
	}
}

func calcMinPurchase(d *model.Deal, subtotal float64) model.DiscountOutcome {
	if d.MinPurchaseAmount <= 0 || d.MinPurchaseDiscount <= 0 {
		return notApplied(d, "deal has no minimum purchase configured")
	}
	if subtotal < d.MinPurchaseAmount {
		return notApplied(d, fmt.Sprintf("order subtotal %.2f is below the required minimum of %.2f", subtotal, d.MinPurchaseAmount))
	}
	amount := d.MinPurchaseDiscount
	if amount > subtotal {
		amount = subtotal
	}
	return model.DiscountOutcome{
		DealType: d.Type,
		Applied:  amount > 0,
		Amount:   amount,
	}
}
