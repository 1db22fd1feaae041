package engine

import (
	"sort"

	"github.com/mesafoods/deals/internal/model"
)

// Candidate pairs a deal with the positive outcome its calculator
// produced for the current order.
type Candidate struct {
	Deal    *model.Deal           `json:"deal"`
	Outcome model.DiscountOutcome `json:"outcome"`
}

// Selection is the final set of deals to apply to an order.
type Selection struct {
	TotalDiscount float64     `json:"total_discount"`
	Applied       []Candidate `json:"applied"`
}

// SortByDiscount orders candidates by realized discount amount,
// largest first. The sort is stable, so candidates with equal
// discounts keep the storage query's priority ordering.
func SortByDiscount(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Outcome.Amount > candidates[j].Outcome.Amount
	})
}

// SelectBest decides which candidate deal(s) actually apply. Input is
// expected to hold only candidates with applied, positive outcomes
// that passed the usage check.
//
// Without stacking the single largest discount wins. With stacking,
// exactly the stackable-flagged candidates are summed; a non-stackable
// candidate is dropped even when it alone would beat the stacked total.
func SelectBest(candidates []Candidate, allowStacking bool) Selection {
	if len(candidates) == 0 {
		return Selection{}
	}

	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	SortByDiscount(ranked)

	if !allowStacking {
		best := ranked[0]
		return Selection{
			TotalDiscount: best.Outcome.Amount,
			Applied:       []Candidate{best},
		}
	}

	var sel Selection
	for _, c := range ranked {
		if !c.Deal.Stackable {
			continue
		}
		sel.TotalDiscount += c.Outcome.Amount
		sel.Applied = append(sel.Applied, c)
	}
	return sel
}
