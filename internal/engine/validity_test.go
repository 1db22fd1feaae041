package engine

import (
	"testing"
	"time"

	"github.com/mesafoods/deals/internal/model"
)

func baseDeal() *model.Deal {
	return &model.Deal{
		ID:         1,
		Type:       model.DealTypePercentage,
		Percentage: 10,
		Active:     true,
		StartDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC),
		Scope:      model.ItemScope{Kind: model.ScopeAll},
	}
}

func TestIsValid_InactiveDeal(t *testing.T) {
	d := baseDeal()
	d.Active = false

	if IsValid(d, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)) {
		t.Error("inactive deal should not be valid")
	}
}

func TestIsValid_DateRangeInclusive(t *testing.T) {
	d := baseDeal()

	if !IsValid(d, d.StartDate) {
		t.Error("deal should be valid at start date")
	}
	if !IsValid(d, d.EndDate) {
		t.Error("deal should be valid at end date")
	}
	if IsValid(d, d.StartDate.Add(-time.Second)) {
		t.Error("deal should not be valid before start date")
	}
	if IsValid(d, d.EndDate.Add(time.Second)) {
		t.Error("deal should not be valid after end date")
	}
}

func TestIsValid_GlobalUsageCap(t *testing.T) {
	d := baseDeal()
	d.MaxTotalUsage = 100
	d.CurrentUsageCount = 100

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	if IsValid(d, now) {
		t.Error("deal at global usage cap should not be valid")
	}

	d.CurrentUsageCount = 99
	if !IsValid(d, now) {
		t.Error("deal under global usage cap should be valid")
	}

	d.MaxTotalUsage = 0
	d.CurrentUsageCount = 100000
	if !IsValid(d, now) {
		t.Error("zero cap means unlimited usage")
	}
}

func TestIsValid_WeekdaySet(t *testing.T) {
	d := baseDeal()
	d.Weekdays = []time.Weekday{time.Monday, time.Wednesday}

	// 2026-03-16 is a Monday, 2026-03-17 a Tuesday.
	if !IsValid(d, time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)) {
		t.Error("deal should be valid on an eligible weekday")
	}
	if IsValid(d, time.Date(2026, 3, 17, 12, 0, 0, 0, time.UTC)) {
		t.Error("deal should not be valid on an ineligible weekday")
	}
}

func TestIsValid_TimeWindow(t *testing.T) {
	d := baseDeal()
	d.StartTime = "14:00"
	d.EndTime = "17:00"

	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	if IsValid(d, day.Add(13*time.Hour+59*time.Minute)) {
		t.Error("13:59 is before the window")
	}
	if !IsValid(d, day.Add(14*time.Hour)) {
		t.Error("window start is inclusive")
	}
	if !IsValid(d, day.Add(17*time.Hour)) {
		t.Error("window end is inclusive")
	}
	if IsValid(d, day.Add(17*time.Hour+time.Minute)) {
		t.Error("17:01 is after the window")
	}
}

func TestIsValid_OpenEndedTimeWindow(t *testing.T) {
	d := baseDeal()
	d.StartTime = "22:00"

	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !IsValid(d, day.Add(23*time.Hour)) {
		t.Error("only a start bound set: 23:00 should pass")
	}
	if IsValid(d, day.Add(21*time.Hour)) {
		t.Error("only a start bound set: 21:00 should fail")
	}
}

func TestIsValid_MidnightCrossingWindowNeverMatchesWrapAround(t *testing.T) {
	// A 22:00-02:00 window cannot be satisfied on the far side of
	// midnight with lexicographic bounds; 01:00 fails both checks.
	d := baseDeal()
	d.StartTime = "22:00"
	d.EndTime = "02:00"

	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if IsValid(d, day.Add(1*time.Hour)) {
		t.Error("01:00 inside a wrapped window is treated as invalid")
	}
	if IsValid(d, day.Add(23*time.Hour)) {
		t.Error("23:00 fails the end bound of a wrapped window")
	}
}

func TestIsValid_Idempotent(t *testing.T) {
	d := baseDeal()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	first := IsValid(d, now)
	second := IsValid(d, now)
	if first != second {
		t.Errorf("identical inputs gave different results: %v then %v", first, second)
	}
}
