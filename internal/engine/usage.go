package engine

import (
	"fmt"

	"github.com/mesafoods/deals/internal/model"
)

// UsageStatus reports whether a customer may use a deal one more time.
type UsageStatus struct {
	Allowed       bool   `json:"allowed"`
	Reason        string `json:"reason,omitempty"`
	CurrentUsage  int    `json:"current_usage"`
	RemainingUses int    `json:"remaining_uses,omitempty"`
}

// CheckUsage evaluates the deal's per-customer cap against the
// customer's accumulated prior usage, supplied by the caller. A deal
// without a cap is always allowed. Pure function; recording a use is a
// separate storage operation performed only after selection.
func CheckUsage(d *model.Deal, priorUsage int) UsageStatus {
	if d.MaxUsagePerCustomer <= 0 {
		return UsageStatus{Allowed: true, CurrentUsage: priorUsage}
	}
	if priorUsage >= d.MaxUsagePerCustomer {
		return UsageStatus{
			Allowed:      false,
			Reason:       fmt.Sprintf("usage limit of %d per customer reached", d.MaxUsagePerCustomer),
			CurrentUsage: priorUsage,
		}
	}
	return UsageStatus{
		Allowed:       true,
		CurrentUsage:  priorUsage,
		RemainingUses: d.MaxUsagePerCustomer - priorUsage,
	}
}
