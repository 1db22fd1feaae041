package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mesafoods/deals/internal/model"
)

// ErrDealNotFound is returned when no deal exists for the requested id.
var ErrDealNotFound = errors.New("deal not found")

// DealRepository handles deal data operations.
type DealRepository struct {
	db *sqlx.DB
}

// NewDealRepository creates a new deal repository.
func NewDealRepository(db *sqlx.DB) *DealRepository {
	return &DealRepository{db: db}
}

// dealRow mirrors the deals table; join-table sets are loaded separately.
type dealRow struct {
	ID                  int64          `db:"id"`
	RestaurantID        int64          `db:"restaurant_id"`
	Name                string         `db:"name"`
	Description         sql.NullString `db:"description"`
	DealType            string         `db:"deal_type"`
	Percentage          float64        `db:"percentage"`
	FixedAmount         float64        `db:"fixed_amount"`
	ComboPrice          float64        `db:"combo_price"`
	BuyItemID           int64          `db:"buy_item_id"`
	BuyQuantity         int            `db:"buy_quantity"`
	GetItemID           int64          `db:"get_item_id"`
	GetQuantity         int            `db:"get_quantity"`
	MinPurchaseAmount   float64        `db:"min_purchase_amount"`
	MinPurchaseDiscount float64        `db:"min_purchase_discount"`
	StartDate           time.Time      `db:"start_date"`
	EndDate             time.Time      `db:"end_date"`
	StartTime           sql.NullString `db:"start_time"`
	EndTime             sql.NullString `db:"end_time"`
	Weekdays            pq.Int64Array  `db:"weekdays"`
	MaxUsagePerCustomer int            `db:"max_usage_per_customer"`
	MaxTotalUsage       int            `db:"max_total_usage"`
	CurrentUsageCount   int            `db:"current_usage_count"`
	Priority            int            `db:"priority"`
	Stackable           bool           `db:"stackable"`
	Active              bool           `db:"active"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

const dealColumns = `
	id, restaurant_id, name, description, deal_type,
	percentage, fixed_amount, combo_price,
	buy_item_id, buy_quantity, get_item_id, get_quantity,
	min_purchase_amount, min_purchase_discount,
	start_date, end_date, start_time, end_time, weekdays,
	max_usage_per_customer, max_total_usage, current_usage_count,
	priority, stackable, active, created_at, updated_at
`

// FindActiveDeals returns the active deals for a restaurant branch whose
// date range contains the given instant, ordered by declared priority.
// Branch scoping: a deal with no branch rows applies to every branch.
// Finer validity (time window, weekday, usage caps) is the engine's job.
func (r *DealRepository) FindActiveDeals(ctx context.Context, restaurantID, branchID int64, at time.Time) ([]*model.Deal, error) {
	query := `
		SELECT ` + dealColumns + `
		FROM deals
		WHERE restaurant_id = $1
		  AND active = TRUE
		  AND start_date <= $3
		  AND end_date >= $3
		  AND (
			NOT EXISTS (SELECT 1 FROM deal_branches b WHERE b.deal_id = deals.id)
			OR EXISTS (SELECT 1 FROM deal_branches b WHERE b.deal_id = deals.id AND b.branch_id = $2)
		  )
		ORDER BY priority DESC, id ASC
	`

	var rows []dealRow
	if err := r.db.SelectContext(ctx, &rows, query, restaurantID, branchID, at); err != nil {
		return nil, fmt.Errorf("failed to query active deals: %w", err)
	}

	deals := make([]*model.Deal, 0, len(rows))
	for i := range rows {
		deal, err := r.hydrate(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}
	return deals, nil
}

// GetDeal retrieves a single deal by id.
func (r *DealRepository) GetDeal(ctx context.Context, id int64) (*model.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`

	var row dealRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}
	return r.hydrate(ctx, &row)
}

// hydrate loads the join-table sets and maps the row to the domain model.
func (r *DealRepository) hydrate(ctx context.Context, row *dealRow) (*model.Deal, error) {
	branchIDs, err := r.selectIDs(ctx, `SELECT branch_id FROM deal_branches WHERE deal_id = $1 ORDER BY branch_id`, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deal branches: %w", err)
	}
	menuItemIDs, err := r.selectIDs(ctx, `SELECT menu_item_id FROM deal_menu_items WHERE deal_id = $1 ORDER BY menu_item_id`, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deal menu items: %w", err)
	}
	categoryIDs, err := r.selectIDs(ctx, `SELECT category_id FROM deal_categories WHERE deal_id = $1 ORDER BY category_id`, row.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deal categories: %w", err)
	}

	var comboItems []model.ComboItem
	if model.DealType(row.DealType) == model.DealTypeCombo {
		query := `SELECT menu_item_id, quantity FROM deal_combo_items WHERE deal_id = $1 ORDER BY menu_item_id`
		if err := r.db.SelectContext(ctx, &comboItems, query, row.ID); err != nil {
			return nil, fmt.Errorf("failed to load combo items: %w", err)
		}
	}

	weekdays := make([]time.Weekday, 0, len(row.Weekdays))
	for _, d := range row.Weekdays {
		weekdays = append(weekdays, time.Weekday(d))
	}

	return &model.Deal{
		ID:                  row.ID,
		RestaurantID:        row.RestaurantID,
		BranchIDs:           branchIDs,
		Name:                row.Name,
		Description:         row.Description.String,
		Type:                model.DealType(row.DealType),
		Percentage:          row.Percentage,
		FixedAmount:         row.FixedAmount,
		ComboItems:          comboItems,
		ComboPrice:          row.ComboPrice,
		BuyItemID:           row.BuyItemID,
		BuyQuantity:         row.BuyQuantity,
		GetItemID:           row.GetItemID,
		GetQuantity:         row.GetQuantity,
		MinPurchaseAmount:   row.MinPurchaseAmount,
		MinPurchaseDiscount: row.MinPurchaseDiscount,
		Scope:               model.NewItemScope(menuItemIDs, categoryIDs),
		StartDate:           row.StartDate,
		EndDate:             row.EndDate,
		StartTime:           row.StartTime.String,
		EndTime:             row.EndTime.String,
		Weekdays:            weekdays,
		MaxUsagePerCustomer: row.MaxUsagePerCustomer,
		MaxTotalUsage:       row.MaxTotalUsage,
		CurrentUsageCount:   row.CurrentUsageCount,
		Priority:            row.Priority,
		Stackable:           row.Stackable,
		Active:              row.Active,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}, nil
}

func (r *DealRepository) selectIDs(ctx context.Context, query string, dealID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, dealID); err != nil {
		return nil, err
	}
	return ids, nil
}

// CreateDeal persists a deal and its branch/scope/combo rows in one
// transaction, setting the generated id and timestamps on the model.
func (r *DealRepository) CreateDeal(ctx context.Context, d *model.Deal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	weekdays := make(pq.Int64Array, 0, len(d.Weekdays))
	for _, wd := range d.Weekdays {
		weekdays = append(weekdays, int64(wd))
	}

	insert := `
		INSERT INTO deals (
			restaurant_id, name, description, deal_type,
			percentage, fixed_amount, combo_price,
			buy_item_id, buy_quantity, get_item_id, get_quantity,
			min_purchase_amount, min_purchase_discount,
			start_date, end_date, start_time, end_time, weekdays,
			max_usage_per_customer, max_total_usage, current_usage_count,
			priority, stackable, active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, NULLIF($16, ''), NULLIF($17, ''), $18, $19, $20, 0,
			$21, $22, $23, $24, $25
		)
		RETURNING id
	`
	err = tx.GetContext(ctx, &d.ID, insert,
		d.RestaurantID, d.Name, d.Description, string(d.Type),
		d.Percentage, d.FixedAmount, d.ComboPrice,
		d.BuyItemID, d.BuyQuantity, d.GetItemID, d.GetQuantity,
		d.MinPurchaseAmount, d.MinPurchaseDiscount,
		d.StartDate, d.EndDate, d.StartTime, d.EndTime, weekdays,
		d.MaxUsagePerCustomer, d.MaxTotalUsage,
		d.Priority, d.Stackable, d.Active, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}

	for _, branchID := range d.BranchIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO deal_branches (deal_id, branch_id) VALUES ($1, $2)`, d.ID, branchID); err != nil {
			return fmt.Errorf("failed to create deal branch: %w", err)
		}
	}
	for _, itemID := range d.Scope.MenuItemIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO deal_menu_items (deal_id, menu_item_id) VALUES ($1, $2)`, d.ID, itemID); err != nil {
			return fmt.Errorf("failed to create deal menu item: %w", err)
		}
	}
	for _, categoryID := range d.Scope.CategoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO deal_categories (deal_id, category_id) VALUES ($1, $2)`, d.ID, categoryID); err != nil {
			return fmt.Errorf("failed to create deal category: %w", err)
		}
	}
	for _, ci := range d.ComboItems {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO deal_combo_items (deal_id, menu_item_id, quantity) VALUES ($1, $2, $3)`,
			d.ID, ci.MenuItemID, ci.Quantity); err != nil {
			return fmt.Errorf("failed to create combo item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
