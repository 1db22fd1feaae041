package engine

import (
	"testing"

	"github.com/mesafoods/deals/internal/model"
)

func sampleOrder() []model.OrderItem {
	return []model.OrderItem{
		{MenuItemID: 11, CategoryID: 1, Name: "burger", Quantity: 1, UnitPrice: 6.00},
		{MenuItemID: 12, CategoryID: 2, Name: "fries", Quantity: 2, UnitPrice: 3.00},
		{MenuItemID: 13, CategoryID: 3, Name: "cola", Quantity: 1, UnitPrice: 2.00},
	}
}

func TestApplicableItems_UnrestrictedScopeMatchesEverything(t *testing.T) {
	d := baseDeal()
	items := sampleOrder()

	got := ApplicableItems(d, items)
	if len(got) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(got))
	}
}

func TestApplicableItems_MenuItemScope(t *testing.T) {
	d := baseDeal()
	d.Scope = model.NewItemScope([]int64{11}, nil)

	got := ApplicableItems(d, sampleOrder())
	if len(got) != 1 || got[0].MenuItemID != 11 {
		t.Fatalf("expected only item 11, got %v", got)
	}
}

func TestApplicableItems_CategoryScope(t *testing.T) {
	d := baseDeal()
	d.Scope = model.NewItemScope(nil, []int64{2, 3})

	got := ApplicableItems(d, sampleOrder())
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].MenuItemID != 12 || got[1].MenuItemID != 13 {
		t.Errorf("input order not preserved: %v", got)
	}
}

func TestApplicableItems_ItemOrCategoryIsInclusive(t *testing.T) {
	// Item 11 matches by id, item 13 by category; both apply.
	d := baseDeal()
	d.Scope = model.NewItemScope([]int64{11}, []int64{3})

	got := ApplicableItems(d, sampleOrder())
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].MenuItemID != 11 || got[1].MenuItemID != 13 {
		t.Errorf("unexpected applicable set: %v", got)
	}
}

func TestNewItemScope_EmptySetsMeanAll(t *testing.T) {
	s := model.NewItemScope(nil, nil)
	if s.Kind != model.ScopeAll {
		t.Errorf("empty id sets should produce an unrestricted scope, got %q", s.Kind)
	}

	s = model.NewItemScope([]int64{1}, nil)
	if s.Kind != model.ScopeRestricted {
		t.Errorf("non-empty id set should produce a restricted scope, got %q", s.Kind)
	}
}
