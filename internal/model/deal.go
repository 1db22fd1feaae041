package model

import (
	"time"
)

// DealType tags the discount variant a deal carries. Only the fields
// belonging to the tagged variant are ever consulted.
type DealType string

const (
	DealTypePercentage  DealType = "PERCENTAGE"
	DealTypeFixed       DealType = "FIXED"
	DealTypeCombo       DealType = "COMBO"
	DealTypeBuyXGetY    DealType = "BUY_X_GET_Y"
	DealTypeMinPurchase DealType = "MINIMUM_PURCHASE"
)

// ValidDealTypes returns the set of recognized deal types.
func ValidDealTypes() []DealType {
	return []DealType{
		DealTypePercentage,
		DealTypeFixed,
		DealTypeCombo,
		DealTypeBuyXGetY,
		DealTypeMinPurchase,
	}
}

// IsValidDealType checks whether t is a recognized deal type.
func IsValidDealType(t DealType) bool {
	for _, v := range ValidDealTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// ScopeKind distinguishes a deal that applies to every order item from one
// restricted to specific menu items and/or categories.
type ScopeKind string

const (
	ScopeAll        ScopeKind = "ALL"
	ScopeRestricted ScopeKind = "RESTRICTED"
)

// ItemScope is the set of order items a deal may act on.
type ItemScope struct {
	Kind        ScopeKind `json:"kind"`
	MenuItemIDs []int64   `json:"menu_item_ids,omitempty"`
	CategoryIDs []int64   `json:"category_ids,omitempty"`
}

// NewItemScope builds an ItemScope from stored id sets. Both sets empty
// means the deal is unrestricted.
func NewItemScope(menuItemIDs, categoryIDs []int64) ItemScope {
	if len(menuItemIDs) == 0 && len(categoryIDs) == 0 {
		return ItemScope{Kind: ScopeAll}
	}
	return ItemScope{
		Kind:        ScopeRestricted,
		MenuItemIDs: menuItemIDs,
		CategoryIDs: categoryIDs,
	}
}

// Matches reports whether it falls inside the scope. Membership is an
// inclusive OR over the menu-item and category sets.
func (s ItemScope) Matches(it OrderItem) bool {
	if s.Kind == ScopeAll {
		return true
	}
	for _, id := range s.MenuItemIDs {
		if id == it.MenuItemID {
			return true
		}
	}
	for _, id := range s.CategoryIDs {
		if id == it.CategoryID {
			return true
		}
	}
	return false
}

// ComboItem is one required line of a combo deal.
type ComboItem struct {
	MenuItemID int64 `db:"menu_item_id" json:"menu_item_id"`
	Quantity   int   `db:"quantity" json:"quantity"`
}

// Deal represents one promotional rule, scoped to a restaurant and
// optionally a subset of its branches.
type Deal struct {
	ID           int64    `json:"id"`
	RestaurantID int64    `json:"restaurant_id"`
	BranchIDs    []int64  `json:"branch_ids,omitempty"` // empty = all branches
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Type         DealType `json:"type"`

	// Variant payloads; only the fields matching Type are consulted.
	Percentage          float64     `json:"percentage,omitempty"`
	FixedAmount         float64     `json:"fixed_amount,omitempty"`
	ComboItems          []ComboItem `json:"combo_items,omitempty"`
	ComboPrice          float64     `json:"combo_price,omitempty"`
	BuyItemID           int64       `json:"buy_item_id,omitempty"`
	BuyQuantity         int         `json:"buy_quantity,omitempty"`
	GetItemID           int64       `json:"get_item_id,omitempty"` // 0 = same as BuyItemID
	GetQuantity         int         `json:"get_quantity,omitempty"`
	MinPurchaseAmount   float64     `json:"min_purchase_amount,omitempty"`
	MinPurchaseDiscount float64     `json:"min_purchase_discount,omitempty"`

	Scope ItemScope `json:"scope"`

	// Temporal scope. StartTime/EndTime are zero-padded 24-hour "HH:mm"
	// strings; empty means unrestricted. Weekdays empty means every day.
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	StartTime string         `json:"start_time,omitempty"`
	EndTime   string         `json:"end_time,omitempty"`
	Weekdays  []time.Weekday `json:"weekdays,omitempty"`

	// Usage scope. Zero caps mean unlimited.
	MaxUsagePerCustomer int `json:"max_usage_per_customer,omitempty"`
	MaxTotalUsage       int `json:"max_total_usage,omitempty"`
	CurrentUsageCount   int `json:"current_usage_count"`

	Priority  int  `json:"priority"`
	Stackable bool `json:"stackable"`
	Active    bool `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
