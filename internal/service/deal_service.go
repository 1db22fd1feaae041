package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mesafoods/deals/internal/cache"
	"github.com/mesafoods/deals/internal/engine"
	"github.com/mesafoods/deals/internal/metrics"
	"github.com/mesafoods/deals/internal/model"
)

// DealSource supplies candidate deals pre-filtered by restaurant,
// branch, active flag and date range.
type DealSource interface {
	FindActiveDeals(ctx context.Context, restaurantID, branchID int64, at time.Time) ([]*model.Deal, error)
}

// UsageSource supplies accumulated usage and records new usage
// atomically against the deal's caps.
type UsageSource interface {
	CustomerUsageCount(ctx context.Context, dealID int64, customerID string) (int, error)
	RecordAll(ctx context.Context, usages []*model.DealUsage) error
}

// DealService orchestrates deal retrieval, validity, applicability,
// calculation, usage checks and selection for an order.
type DealService struct {
	deals DealSource
	usage UsageSource
	cache *cache.DealCache
}

// NewDealService creates a new deal service. The cache may be nil to
// disable read caching of candidate deals.
func NewDealService(deals DealSource, usage UsageSource, c *cache.DealCache) *DealService {
	return &DealService{
		deals: deals,
		usage: usage,
		cache: c,
	}
}

// CalculateDealDiscount runs a single deal against an order. It does
// not consult validity or usage; it is the raw calculator entry point.
func (s *DealService) CalculateDealDiscount(d *model.Deal, items []model.OrderItem, subtotal float64) (model.DiscountOutcome, error) {
	return engine.Calculate(d, items, subtotal)
}

// FindBestDeals evaluates every candidate deal for the branch at the
// given instant and returns the ones producing a positive, usage-
// eligible discount, sorted by discount descending. A deal that fails
// its own conditions is skipped, never fatal; only structurally
// invalid input aborts the call.
func (s *DealService) FindBestDeals(
	ctx context.Context,
	restaurantID, branchID int64,
	items []model.OrderItem,
	subtotal float64,
	customerID string,
	at time.Time,
) ([]engine.Candidate, error) {
	start := time.Now()
	status := "failed"
	defer func() {
		metrics.RecordCalculationDuration(status, time.Since(start).Seconds())
	}()

	deals, err := s.candidateDeals(ctx, restaurantID, branchID, at)
	if err != nil {
		return nil, err
	}

	var candidates []engine.Candidate
	for _, d := range deals {
		if !engine.IsValid(d, at) {
			continue
		}

		outcome, err := engine.Calculate(d, items, subtotal)
		if err != nil {
			// Structural input problems affect every deal equally.
			return nil, err
		}
		if !outcome.Applied || outcome.Amount <= 0 {
			continue
		}

		if d.MaxUsagePerCustomer > 0 && customerID != "" {
			prior, err := s.usage.CustomerUsageCount(ctx, d.ID, customerID)
			if err != nil {
				return nil, fmt.Errorf("usage lookup for deal %d: %w", d.ID, err)
			}
			if usage := engine.CheckUsage(d, prior); !usage.Allowed {
				log.Debug().
					Int64("deal_id", d.ID).
					Str("customer_id", customerID).
					Str("reason", usage.Reason).
					Msg("deal skipped by usage limit")
				continue
			}
		}

		candidates = append(candidates, engine.Candidate{Deal: d, Outcome: outcome})
	}

	engine.SortByDiscount(candidates)
	status = "success"
	return candidates, nil
}

// ApplyBestDeals selects the winning deal(s) among the candidates.
// Pure selection; usage is recorded separately once the order commits.
func (s *DealService) ApplyBestDeals(candidates []engine.Candidate, allowStacking bool) engine.Selection {
	return engine.SelectBest(candidates, allowStacking)
}

// RecordUsage persists one usage record per applied deal for a
// committed order. The storage layer re-checks the caps atomically;
// a cap violation rolls the whole batch back.
func (s *DealService) RecordUsage(ctx context.Context, customerID, orderID string, applied []engine.Candidate) error {
	if len(applied) == 0 {
		return nil
	}

	usages := make([]*model.DealUsage, 0, len(applied))
	for _, c := range applied {
		usages = append(usages, &model.DealUsage{
			ID:              uuid.NewString(),
			DealID:          c.Deal.ID,
			CustomerID:      customerID,
			OrderID:         orderID,
			UsageCount:      1,
			DiscountApplied: c.Outcome.Amount,
		})
	}

	if err := s.usage.RecordAll(ctx, usages); err != nil {
		return fmt.Errorf("record usage for order %s: %w", orderID, err)
	}

	for _, c := range applied {
		metrics.RecordDealApplied(string(c.Deal.Type))
	}
	return nil
}

// IsInputError reports whether err is a caller contract violation
// rather than an infrastructure failure.
func IsInputError(err error) bool {
	return errors.Is(err, engine.ErrNegativeSubtotal) ||
		errors.Is(err, engine.ErrInvalidOrderItem) ||
		errors.Is(err, engine.ErrNilDeal)
}

func (s *DealService) candidateDeals(ctx context.Context, restaurantID, branchID int64, at time.Time) ([]*model.Deal, error) {
	if s.cache != nil {
		if deals, ok := s.cache.Get(restaurantID, branchID); ok {
			return deals, nil
		}
	}
	deals, err := s.deals.FindActiveDeals(ctx, restaurantID, branchID, at)
	if err != nil {
		return nil, fmt.Errorf("find active deals: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(restaurantID, branchID, deals)
	}
	return deals, nil
}
