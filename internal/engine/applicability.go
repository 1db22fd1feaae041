package engine

import (
	"github.com/mesafoods/deals/internal/model"
)

// ApplicableItems returns the order items the deal's discount logic may
// act on, preserving input order. An unrestricted scope matches every
// item; a restricted scope matches on menu-item or category membership.
func ApplicableItems(d *model.Deal, items []model.OrderItem) []model.OrderItem {
	if d.Scope.Kind == model.ScopeAll {
		return items
	}
	var applicable []model.OrderItem
	for _, it := range items {
		if d.Scope.Matches(it) {
			applicable = append(applicable, it)
		}
	}
	return applicable
}

// applicableTotal sums price times quantity over the applicable items.
func applicableTotal(items []model.OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.LineTotal()
	}
	return total
}

func itemIDs(items []model.OrderItem) []int64 {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.MenuItemID)
	}
	return ids
}
