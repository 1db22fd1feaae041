package cache

import (
	"testing"
	"time"

	"github.com/mesafoods/deals/internal/model"
)

func TestDealCache_HitAndExpiry(t *testing.T) {
	c := New(20 * time.Millisecond)
	deals := []*model.Deal{{ID: 1, RestaurantID: 7}}

	if _, ok := c.Get(7, 1); ok {
		t.Fatal("empty cache should miss")
	}

	c.Set(7, 1, deals)
	got, ok := c.Get(7, 1)
	if !ok || len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected cached deals, got %v (hit=%v)", got, ok)
	}

	if _, ok := c.Get(7, 2); ok {
		t.Error("different branch should miss")
	}

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get(7, 1); ok {
		t.Error("expired entry should miss")
	}
}

func TestDealCache_Invalidate(t *testing.T) {
	c := New(time.Minute)
	c.Set(7, 1, []*model.Deal{{ID: 1}})

	c.Invalidate(7, 1)
	if _, ok := c.Get(7, 1); ok {
		t.Error("invalidated entry should miss")
	}
}
