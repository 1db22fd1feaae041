package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mesafoods/deals/internal/engine"
	"github.com/mesafoods/deals/internal/model"
	"github.com/mesafoods/deals/internal/repository"
	"github.com/mesafoods/deals/internal/service"
)

// --- Request / Response DTOs ---

type CalculateRequest struct {
	DealID     int64             `json:"deal_id"`
	OrderItems []model.OrderItem `json:"order_items"`
	Subtotal   float64           `json:"subtotal"`
}

type BestDealsRequest struct {
	RestaurantID int64             `json:"restaurant_id"`
	BranchID     int64             `json:"branch_id"`
	CustomerID   string            `json:"customer_id,omitempty"`
	OrderItems   []model.OrderItem `json:"order_items"`
	Subtotal     float64           `json:"subtotal"`
	Timestamp    string            `json:"timestamp,omitempty"` // RFC3339; defaults to now
}

type ApplyDealsRequest struct {
	BestDealsRequest
	OrderID       string `json:"order_id"`
	AllowStacking bool   `json:"allow_stacking"`
}

type CreateDealRequest struct {
	RestaurantID int64   `json:"restaurant_id"`
	BranchIDs    []int64 `json:"branch_ids,omitempty"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Type         string  `json:"type"`

	Percentage          float64           `json:"percentage,omitempty"`
	FixedAmount         float64           `json:"fixed_amount,omitempty"`
	ComboItems          []model.ComboItem `json:"combo_items,omitempty"`
	ComboPrice          float64           `json:"combo_price,omitempty"`
	BuyItemID           int64             `json:"buy_item_id,omitempty"`
	BuyQuantity         int               `json:"buy_quantity,omitempty"`
	GetItemID           int64             `json:"get_item_id,omitempty"`
	GetQuantity         int               `json:"get_quantity,omitempty"`
	MinPurchaseAmount   float64           `json:"min_purchase_amount,omitempty"`
	MinPurchaseDiscount float64           `json:"min_purchase_discount,omitempty"`

	MenuItemIDs []int64 `json:"menu_item_ids,omitempty"`
	CategoryIDs []int64 `json:"category_ids,omitempty"`

	StartDate string `json:"start_date"` // RFC3339
	EndDate   string `json:"end_date"`   // RFC3339
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	Weekdays  []int  `json:"weekdays,omitempty"` // 0=Sunday .. 6=Saturday

	MaxUsagePerCustomer int  `json:"max_usage_per_customer,omitempty"`
	MaxTotalUsage       int  `json:"max_total_usage,omitempty"`
	Priority            int  `json:"priority,omitempty"`
	Stackable           bool `json:"stackable,omitempty"`
	Active              bool `json:"active"`
}

type ApplyDealsResponse struct {
	TotalDiscount float64            `json:"total_discount"`
	AppliedDeals  []engine.Candidate `json:"applied_deals"`
}

// --- Handler struct & constructor ---

type DealHandler struct {
	svc      *service.DealService
	dealRepo *repository.DealRepository
}

func NewDealHandler(svc *service.DealService, dealRepo *repository.DealRepository) *DealHandler {
	return &DealHandler{svc: svc, dealRepo: dealRepo}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// parseInstant interprets an optional RFC3339 timestamp, defaulting to now.
func parseInstant(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// orderSubtotal returns the supplied subtotal, deriving it from the
// items when the caller left it unset.
func orderSubtotal(subtotal float64, items []model.OrderItem) float64 {
	if subtotal == 0 && len(items) > 0 {
		return model.Subtotal(items)
	}
	return subtotal
}

// --- Handlers ---

// CalculateDiscount handles POST /deals/calculate: run one deal
// against an order and return the raw discount outcome.
func (h *DealHandler) CalculateDiscount(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	deal, err := h.dealRepo.GetDeal(r.Context(), req.DealID)
	if err != nil {
		if errors.Is(err, repository.ErrDealNotFound) {
			writeError(w, http.StatusNotFound, "deal_not_found")
			return
		}
		log.Error().Err(err).Int64("deal_id", req.DealID).Msg("deal lookup failed")
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	outcome, err := h.svc.CalculateDealDiscount(deal, req.OrderItems, orderSubtotal(req.Subtotal, req.OrderItems))
	if err != nil {
		if service.IsInputError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Int64("deal_id", req.DealID).Msg("discount calculation failed")
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// BestDeals handles POST /deals/best: list positive, usage-eligible
// outcomes for a cart, best discount first.
func (h *DealHandler) BestDeals(w http.ResponseWriter, r *http.Request) {
	var req BestDealsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.RestaurantID == 0 {
		writeError(w, http.StatusBadRequest, "restaurant_id required")
		return
	}
	at, err := parseInstant(req.Timestamp)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid timestamp; use RFC3339")
		return
	}

	candidates, err := h.svc.FindBestDeals(r.Context(), req.RestaurantID, req.BranchID,
		req.OrderItems, orderSubtotal(req.Subtotal, req.OrderItems), req.CustomerID, at)
	if err != nil {
		if service.IsInputError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Int64("restaurant_id", req.RestaurantID).Msg("best-deals lookup failed")
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	if candidates == nil {
		candidates = []engine.Candidate{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"candidates": candidates})
}

// ApplyDeals handles POST /deals/apply: select the winning deal(s) for
// a committed order and record their usage.
func (h *DealHandler) ApplyDeals(w http.ResponseWriter, r *http.Request) {
	var req ApplyDealsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.RestaurantID == 0 || req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "restaurant_id and order_id required")
		return
	}
	at, err := parseInstant(req.Timestamp)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid timestamp; use RFC3339")
		return
	}

	candidates, err := h.svc.FindBestDeals(r.Context(), req.RestaurantID, req.BranchID,
		req.OrderItems, orderSubtotal(req.Subtotal, req.OrderItems), req.CustomerID, at)
	if err != nil {
		if service.IsInputError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Int64("restaurant_id", req.RestaurantID).Msg("best-deals lookup failed")
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	selection := h.svc.ApplyBestDeals(candidates, req.AllowStacking)
	if len(selection.Applied) > 0 {
		if err := h.svc.RecordUsage(r.Context(), req.CustomerID, req.OrderID, selection.Applied); err != nil {
			if errors.Is(err, repository.ErrUsageLimitReached) || errors.Is(err, repository.ErrTotalUsageReached) {
				// A concurrent order consumed the last use between
				// evaluation and recording.
				writeError(w, http.StatusConflict, "usage_limit_reached")
				return
			}
			log.Error().Err(err).Str("order_id", req.OrderID).Msg("usage recording failed")
			writeError(w, http.StatusInternalServerError, "internal_error")
			return
		}
	}

	writeJSON(w, http.StatusOK, ApplyDealsResponse{
		TotalDiscount: selection.TotalDiscount,
		AppliedDeals:  selection.Applied,
	})
}

// CreateDeal handles POST /admin/deals.
func (h *DealHandler) CreateDeal(w http.ResponseWriter, r *http.Request) {
	var req CreateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.RestaurantID == 0 || req.Name == "" {
		writeError(w, http.StatusBadRequest, "restaurant_id and name required")
		return
	}
	if !model.IsValidDealType(model.DealType(req.Type)) {
		writeError(w, http.StatusBadRequest, "unknown deal type")
		return
	}

	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date; use RFC3339")
		return
	}
	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date; use RFC3339")
		return
	}

	weekdays := make([]time.Weekday, 0, len(req.Weekdays))
	for _, d := range req.Weekdays {
		if d < 0 || d > 6 {
			writeError(w, http.StatusBadRequest, "weekdays must be 0-6")
			return
		}
		weekdays = append(weekdays, time.Weekday(d))
	}

	deal := &model.Deal{
		RestaurantID:        req.RestaurantID,
		BranchIDs:           req.BranchIDs,
		Name:                req.Name,
		Description:         req.Description,
		Type:                model.DealType(req.Type),
		Percentage:          req.Percentage,
		FixedAmount:         req.FixedAmount,
		ComboItems:          req.ComboItems,
		ComboPrice:          req.ComboPrice,
		BuyItemID:           req.BuyItemID,
		BuyQuantity:         req.BuyQuantity,
		GetItemID:           req.GetItemID,
		GetQuantity:         req.GetQuantity,
		MinPurchaseAmount:   req.MinPurchaseAmount,
		MinPurchaseDiscount: req.MinPurchaseDiscount,
		Scope:               model.NewItemScope(req.MenuItemIDs, req.CategoryIDs),
		StartDate:           startDate,
		EndDate:             endDate,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		Weekdays:            weekdays,
		MaxUsagePerCustomer: req.MaxUsagePerCustomer,
		MaxTotalUsage:       req.MaxTotalUsage,
		Priority:            req.Priority,
		Stackable:           req.Stackable,
		Active:              req.Active,
	}

	if err := h.dealRepo.CreateDeal(r.Context(), deal); err != nil {
		log.Error().Err(err).Int64("restaurant_id", req.RestaurantID).Msg("deal creation failed")
		writeError(w, http.StatusInternalServerError, "failed_create_deal")
		return
	}

	writeJSON(w, http.StatusCreated, deal)
}
