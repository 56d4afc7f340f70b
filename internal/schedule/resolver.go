// Package schedule resolves working hours for calendar dates by merging
// per-date overrides with the default weekly schedule.
package schedule

import (
	"context"
	"time"

	"wakala/internal/model"
)

// ScheduleStore provides read access to schedule configuration.
// Both lookups return (nil, nil) when no matching row exists.
type ScheduleStore interface {
	// GetDayOverride returns the override for an exact date, if any.
	GetDayOverride(ctx context.Context, date time.Time) (*model.DayOverride, error)

	// GetWeekdaySchedule returns the default schedule for a Monday-first
	// weekday (1 = Monday .. 7 = Sunday), if any.
	GetWeekdaySchedule(ctx context.Context, weekday int) (*model.WeekdaySchedule, error)
}

// ResolvedDayHours is the final open/close decision for one specific date.
type ResolvedDayHours struct {
	Date       time.Time `json:"date"`
	OpenHour   int       `json:"open_hour"`
	CloseHour  int       `json:"close_hour"`
	IsHoliday  bool      `json:"is_holiday"`
	IsInactive bool      `json:"is_inactive"`
}

// Open reports whether the day contributes hours to the visible range.
func (r ResolvedDayHours) Open() bool {
	return !r.IsHoliday && !r.IsInactive
}

// ToMondayFirst converts a native time.Weekday (Sunday = 0) to the
// Monday-first convention used by weekday schedule lookups (Monday = 1,
// Sunday = 7).
func ToMondayFirst(w time.Weekday) int {
	if w == time.Sunday {
		return 7
	}
	return int(w)
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Resolver answers "is the organization open on this date, and when".
type Resolver struct {
	store ScheduleStore
}

// NewResolver creates a resolver backed by the given store.
func NewResolver(store ScheduleStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve determines working hours for a date. Lookup order: exact-date
// override first, then the weekday default. A holiday override or a
// missing/inactive default closes the day.
func (r *Resolver) Resolve(ctx context.Context, date time.Time) (ResolvedDayHours, error) {
	date = DateOnly(date)
	resolved := ResolvedDayHours{Date: date}

	override, err := r.store.GetDayOverride(ctx, date)
	if err != nil {
		return resolved, err
	}
	if override != nil {
		if override.IsHoliday {
			resolved.IsHoliday = true
			return resolved, nil
		}
		resolved.OpenHour = override.OpenHour
		resolved.CloseHour = override.CloseHour
		return resolved, nil
	}

	sched, err := r.store.GetWeekdaySchedule(ctx, ToMondayFirst(date.Weekday()))
	if err != nil {
		return resolved, err
	}
	if sched == nil || !sched.IsActive {
		resolved.IsInactive = true
		return resolved, nil
	}

	resolved.OpenHour = sched.OpenHour
	resolved.CloseHour = sched.CloseHour
	return resolved, nil
}
