package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CalendarWindow is the Monday-start 7-day span currently displayed.
type CalendarWindow struct {
	StartDate time.Time    `json:"start_date"`
	Days      [7]time.Time `json:"days"`
}

// DayIndexOf returns the 0-based index of date within the window, or -1
// when the date falls outside it. Days are matched by calendar date, not
// by instant: the window is built in the booking timezone while stored
// appointment dates parse as UTC midnights.
func (w CalendarWindow) DayIndexOf(date time.Time) int {
	for i, d := range w.Days {
		if SameDate(d, date) {
			return i
		}
	}
	return -1
}

// SameDate reports whether two times fall on the same calendar date,
// each read in its own location.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// VisibleHourRange is the union of open hours across a window's open days.
type VisibleHourRange struct {
	MinHour int `json:"min_hour"`
	MaxHour int `json:"max_hour"`
}

// WeekView is the fully resolved state of one calendar week.
type WeekView struct {
	Window CalendarWindow      `json:"window"`
	Hours  [7]ResolvedDayHours `json:"hours"`

	// Range is only meaningful when RangeOK is true. RangeOK is false when
	// no day in the window is open; the UI shows a "no working hours this
	// week" empty state instead of a grid.
	Range   VisibleHourRange `json:"range"`
	RangeOK bool             `json:"range_ok"`

	// Degraded marks that at least one resolver fetch failed and the
	// affected days fell back to open 0-23.
	Degraded bool `json:"degraded"`
}

// Builder computes the week window and its visible hour range.
type Builder struct {
	resolver *Resolver
	logger   zerolog.Logger
}

// NewBuilder creates a week range builder.
func NewBuilder(resolver *Resolver, logger zerolog.Logger) *Builder {
	return &Builder{resolver: resolver, logger: logger}
}

// WindowFor computes the Monday-start window containing anchor.
func WindowFor(anchor time.Time) CalendarWindow {
	anchor = DateOnly(anchor)
	// Monday-first weekday makes the offset a single formula: Monday gets
	// 0, Sunday gets -6.
	offset := 1 - ToMondayFirst(anchor.Weekday())
	start := anchor.AddDate(0, 0, offset)

	window := CalendarWindow{StartDate: start}
	for i := 0; i < 7; i++ {
		window.Days[i] = start.AddDate(0, 0, i)
	}
	return window
}

// BuildWindow resolves working hours for every day in the week containing
// anchor. The seven resolver reads are independent and issued concurrently;
// the aggregate range is computed once all have settled.
//
// A failed resolver read does not block the view: the affected day falls
// back to open 0-23 so existing bookings stay visible.
func (b *Builder) BuildWindow(ctx context.Context, anchor time.Time) WeekView {
	view := WeekView{Window: WindowFor(anchor)}

	var wg sync.WaitGroup
	errs := make([]error, 7)
	for i := 0; i < 7; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			view.Hours[i], errs[i] = b.resolver.Resolve(ctx, view.Window.Days[i])
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		b.logger.Warn().Err(err).
			Str("date", view.Window.Days[i].Format("2006-01-02")).
			Msg("working hours lookup failed, treating day as open 0-23")
		view.Hours[i] = ResolvedDayHours{
			Date:      view.Window.Days[i],
			OpenHour:  0,
			CloseHour: 23,
		}
		view.Degraded = true
	}

	for _, h := range view.Hours {
		if !h.Open() {
			continue
		}
		if !view.RangeOK {
			view.Range = VisibleHourRange{MinHour: h.OpenHour, MaxHour: h.CloseHour}
			view.RangeOK = true
			continue
		}
		if h.OpenHour < view.Range.MinHour {
			view.Range.MinHour = h.OpenHour
		}
		if h.CloseHour > view.Range.MaxHour {
			view.Range.MaxHour = h.CloseHour
		}
	}
	return view
}
