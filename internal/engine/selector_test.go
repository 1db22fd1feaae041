package engine

import (
	"testing"

	"github.com/mesafoods/deals/internal/model"
)

func candidate(id int64, amount float64, stackable bool) Candidate {
	return Candidate{
		Deal: &model.Deal{ID: id, Type: model.DealTypeFixed, Stackable: stackable},
		Outcome: model.DiscountOutcome{
			DealType: model.DealTypeFixed,
			Applied:  true,
			Amount:   amount,
		},
	}
}

func TestSelectBest_Empty(t *testing.T) {
	sel := SelectBest(nil, false)
	if sel.TotalDiscount != 0 || len(sel.Applied) != 0 {
		t.Errorf("expected empty selection, got %+v", sel)
	}
}

func TestSelectBest_NonStackingPicksLargestDiscount(t *testing.T) {
	candidates := []Candidate{
		candidate(1, 4.00, false),
		candidate(2, 9.00, true),
		candidate(3, 6.50, false),
	}

	sel := SelectBest(candidates, false)
	if len(sel.Applied) != 1 {
		t.Fatalf("expected one applied deal, got %d", len(sel.Applied))
	}
	if sel.Applied[0].Deal.ID != 2 {
		t.Errorf("expected deal 2 to win, got %d", sel.Applied[0].Deal.ID)
	}
	if sel.TotalDiscount != 9.00 {
		t.Errorf("expected total 9.00, got %.2f", sel.TotalDiscount)
	}
}

func TestSelectBest_StackingSumsOnlyStackables(t *testing.T) {
	// The non-stackable deal carries the single largest discount, but
	// once stacking is requested only the stackable subset applies.
	candidates := []Candidate{
		candidate(1, 12.00, false),
		candidate(2, 5.00, true),
		candidate(3, 3.00, true),
	}

	sel := SelectBest(candidates, true)
	if len(sel.Applied) != 2 {
		t.Fatalf("expected two applied deals, got %d", len(sel.Applied))
	}
	for _, c := range sel.Applied {
		if !c.Deal.Stackable {
			t.Errorf("non-stackable deal %d appeared in a stacked selection", c.Deal.ID)
		}
	}
	if sel.TotalDiscount != 8.00 {
		t.Errorf("expected stacked total 8.00, got %.2f", sel.TotalDiscount)
	}
	// Ranked by discount, so deal 2 precedes deal 3.
	if sel.Applied[0].Deal.ID != 2 || sel.Applied[1].Deal.ID != 3 {
		t.Errorf("stacked deals out of order: %d, %d", sel.Applied[0].Deal.ID, sel.Applied[1].Deal.ID)
	}
}

func TestSelectBest_StackingWithNoStackableCandidates(t *testing.T) {
	candidates := []Candidate{
		candidate(1, 12.00, false),
	}

	sel := SelectBest(candidates, true)
	if len(sel.Applied) != 0 || sel.TotalDiscount != 0 {
		t.Errorf("expected empty selection, got %+v", sel)
	}
}

func TestSelectBest_DoesNotMutateInput(t *testing.T) {
	candidates := []Candidate{
		candidate(1, 1.00, true),
		candidate(2, 2.00, true),
	}

	SelectBest(candidates, false)
	if candidates[0].Deal.ID != 1 || candidates[1].Deal.ID != 2 {
		t.Error("input slice order changed")
	}
}

func TestSortByDiscount_StableOnTies(t *testing.T) {
	candidates := []Candidate{
		candidate(1, 5.00, true),
		candidate(2, 5.00, true),
		candidate(3, 7.00, true),
	}

	SortByDiscount(candidates)
	if candidates[0].Deal.ID != 3 {
		t.Fatalf("expected deal 3 first, got %d", candidates[0].Deal.ID)
	}
	if candidates[1].Deal.ID != 1 || candidates[2].Deal.ID != 2 {
		t.Error("equal discounts should keep their original order")
	}
}
