package model

import "time"

// DealUsage records a single successful application of a deal for a
// customer and order. Created exactly once per applied deal; immutable.
type DealUsage struct {
	ID              string    `db:"id" json:"id"`
	DealID          int64     `db:"deal_id" json:"deal_id"`
	CustomerID      string    `db:"customer_id" json:"customer_id"`
	OrderID         string    `db:"order_id" json:"order_id"`
	UsageCount      int       `db:"usage_count" json:"usage_count"`
	DiscountApplied float64   `db:"discount_applied" json:"discount_applied"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
