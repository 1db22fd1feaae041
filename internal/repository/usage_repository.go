package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mesafoods/deals/internal/model"
)

var (
	// ErrUsageLimitReached indicates the customer has exhausted the deal's per-customer cap.
	ErrUsageLimitReached = errors.New("per-customer usage limit reached")
	// ErrTotalUsageReached indicates the deal has exhausted its global usage cap.
	ErrTotalUsageReached = errors.New("deal total usage limit reached")
)

// UsageRepository handles deal usage records.
type UsageRepository struct {
	db *sqlx.DB
}

// NewUsageRepository creates a new usage repository.
func NewUsageRepository(db *sqlx.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// CustomerUsageCount sums the usage a customer has accumulated on a deal.
func (r *UsageRepository) CustomerUsageCount(ctx context.Context, dealID int64, customerID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(usage_count), 0)
		FROM deal_usages
		WHERE deal_id = $1 AND customer_id = $2
	`

	var count int
	if err := r.db.GetContext(ctx, &count, query, dealID, customerID); err != nil {
		return 0, fmt.Errorf("failed to sum deal usage: %w", err)
	}
	return count, nil
}

// RecordAll persists the usage records of one order in a single
// transaction. Each record is re-checked against the deal's caps under
// a row lock on the deal, so concurrent orders cannot push usage past
// a cap; on any violation the whole batch rolls back.
func (r *UsageRepository) RecordAll(ctx context.Context, usages []*model.DealUsage) error {
	if len(usages) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, u := range usages {
		if err := r.recordOne(ctx, tx, u); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *UsageRepository) recordOne(ctx context.Context, tx *sqlx.Tx, u *model.DealUsage) error {
	// Lock the deal row; this serializes usage recording per deal.
	var caps struct {
		MaxPerCustomer int `db:"max_usage_per_customer"`
		MaxTotal       int `db:"max_total_usage"`
		Current        int `db:"current_usage_count"`
	}
	lock := `
		SELECT max_usage_per_customer, max_total_usage, current_usage_count
		FROM deals
		WHERE id = $1
		FOR UPDATE
	`
	if err := tx.GetContext(ctx, &caps, lock, u.DealID); err != nil {
		return fmt.Errorf("failed to lock deal %d: %w", u.DealID, err)
	}

	if caps.MaxTotal > 0 && caps.Current+u.UsageCount > caps.MaxTotal {
		return fmt.Errorf("deal %d: %w", u.DealID, ErrTotalUsageReached)
	}

	if caps.MaxPerCustomer > 0 {
		var prior int
		sum := `
			SELECT COALESCE(SUM(usage_count), 0)
			FROM deal_usages
			WHERE deal_id = $1 AND customer_id = $2
		`
		if err := tx.GetContext(ctx, &prior, sum, u.DealID, u.CustomerID); err != nil {
			return fmt.Errorf("failed to sum deal usage: %w", err)
		}
		if prior+u.UsageCount > caps.MaxPerCustomer {
			return fmt.Errorf("deal %d customer %s: %w", u.DealID, u.CustomerID, ErrUsageLimitReached)
		}
	}

	u.CreatedAt = time.Now().UTC()
	insert := `
		INSERT INTO deal_usages (id, deal_id, customer_id, order_id, usage_count, discount_applied, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := tx.ExecContext(ctx, insert,
		u.ID, u.DealID, u.CustomerID, u.OrderID, u.UsageCount, u.DiscountApplied, u.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert usage record: %w", err)
	}

	update := `
		UPDATE deals
		SET current_usage_count = current_usage_count + $2, updated_at = $3
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, update, u.DealID, u.UsageCount, u.CreatedAt); err != nil {
		return fmt.Errorf("failed to increment deal usage counter: %w", err)
	}
	return nil
}
