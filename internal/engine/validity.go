package engine

import (
	"time"

	"github.com/mesafoods/deals/internal/model"
)

// timeOfDayLayout is the zero-padded 24-hour clock format the deal's
// time window fields use. Lexicographic comparison on this layout
// orders the same as the clock does.
const timeOfDayLayout = "15:04"

// IsValid reports whether the deal is eligible to fire at the supplied
// instant. Every configured constraint must pass; an unset constraint
// is no restriction. Pure predicate over (deal, now).
//
// A time window whose end precedes its start (a midnight-crossing
// window) never matches the wrap-around portion: with lexicographic
// bounds no instant satisfies both sides.
func IsValid(d *model.Deal, now time.Time) bool {
	if d == nil || !d.Active {
		return false
	}
	if now.Before(d.StartDate) || now.After(d.EndDate) {
		return false
	}
	if d.MaxTotalUsage > 0 && d.CurrentUsageCount >= d.MaxTotalUsage {
		return false
	}
	if len(d.Weekdays) > 0 && !weekdayIn(d.Weekdays, now.Weekday()) {
		return false
	}
	if d.StartTime != "" || d.EndTime != "" {
		hm := now.Format(timeOfDayLayout)
		if d.StartTime != "" && hm < d.StartTime {
			return false
		}
		if d.EndTime != "" && hm > d.EndTime {
			return false
		}
	}
	return true
}

func weekdayIn(days []time.Weekday, day time.Weekday) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
