package engine

import (
	"strings"
	"testing"
)

func TestCheckUsage_NoCapAlwaysAllowed(t *testing.T) {
	d := baseDeal()

	status := CheckUsage(d, 9000)
	if !status.Allowed {
		t.Error("deal without a per-customer cap should always be allowed")
	}
	if status.CurrentUsage != 9000 {
		t.Errorf("expected current usage 9000, got %d", status.CurrentUsage)
	}
}

func TestCheckUsage_UnderCap(t *testing.T) {
	d := baseDeal()
	d.MaxUsagePerCustomer = 3

	status := CheckUsage(d, 1)
	if !status.Allowed {
		t.Fatal("expected usage to be allowed")
	}
	if status.RemainingUses != 2 {
		t.Errorf("expected 2 remaining uses, got %d", status.RemainingUses)
	}
}

func TestCheckUsage_CapReached(t *testing.T) {
	d := baseDeal()
	d.MaxUsagePerCustomer = 2

	status := CheckUsage(d, 2)
	if status.Allowed {
		t.Fatal("expected usage to be denied at the cap")
	}
	if status.CurrentUsage != 2 {
		t.Errorf("expected current usage 2, got %d", status.CurrentUsage)
	}
	if !strings.Contains(status.Reason, "2") {
		t.Errorf("denial reason should cite the cap, got %q", status.Reason)
	}
}
