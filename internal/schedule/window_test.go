package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"wakala/internal/model"
)

func TestWindowForStartsOnMonday(t *testing.T) {
	// One anchor per weekday of the same week
	anchors := []string{
		"2024-03-04", // Monday
		"2024-03-05",
		"2024-03-06",
		"2024-03-07",
		"2024-03-08",
		"2024-03-09",
		"2024-03-10", // Sunday
	}

	for _, anchor := range anchors {
		window := WindowFor(date(anchor))
		if window.StartDate.Weekday() != time.Monday {
			t.Errorf("anchor %s: window starts on %v, want Monday", anchor, window.StartDate.Weekday())
		}
		if want := date("2024-03-04"); !window.StartDate.Equal(want) {
			t.Errorf("anchor %s: window starts %v, want %v", anchor, window.StartDate, want)
		}
		for i := 0; i < 7; i++ {
			if want := window.StartDate.AddDate(0, 0, i); !window.Days[i].Equal(want) {
				t.Errorf("anchor %s: day[%d] = %v, want %v", anchor, i, window.Days[i], want)
			}
		}
	}
}

func TestWindowForMondayAnchorIsIdentity(t *testing.T) {
	window := WindowFor(date("2024-03-04"))
	if !window.StartDate.Equal(date("2024-03-04")) {
		t.Errorf("Monday anchor moved to %v", window.StartDate)
	}
}

func TestDayIndexOf(t *testing.T) {
	window := WindowFor(date("2024-03-06"))

	if got := window.DayIndexOf(date("2024-03-04")); got != 0 {
		t.Errorf("Monday index = %d, want 0", got)
	}
	if got := window.DayIndexOf(date("2024-03-10")); got != 6 {
		t.Errorf("Sunday index = %d, want 6", got)
	}
	if got := window.DayIndexOf(date("2024-03-11")); got != -1 {
		t.Errorf("next Monday index = %d, want -1", got)
	}
}

func TestDayIndexOfMatchesAcrossLocations(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// Window built from a local-time anchor, date parsed as UTC midnight
	// (the storage layer's representation). Same calendar day, different
	// instants.
	anchor := time.Date(2024, 3, 6, 15, 30, 0, 0, berlin)
	window := WindowFor(anchor)

	if got := window.DayIndexOf(date("2024-03-06")); got != 2 {
		t.Errorf("UTC-parsed Wednesday index = %d, want 2", got)
	}
	if got := window.DayIndexOf(date("2024-03-04")); got != 0 {
		t.Errorf("UTC-parsed Monday index = %d, want 0", got)
	}
	if got := window.DayIndexOf(date("2024-03-11")); got != -1 {
		t.Errorf("out-of-window date index = %d, want -1", got)
	}
}

func TestSameDate(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	utcMidnight := date("2024-03-06")
	berlinAfternoon := time.Date(2024, 3, 6, 15, 30, 0, 0, berlin)
	if !SameDate(utcMidnight, berlinAfternoon) {
		t.Error("same calendar day in different locations must match")
	}
	if SameDate(utcMidnight, date("2024-03-07")) {
		t.Error("different days must not match")
	}
}

func TestBuildWindowUniformWeek(t *testing.T) {
	store := newFakeStore()
	store.setWorkweek(9, 17)
	builder := NewBuilder(NewResolver(store), zerolog.Nop())

	view := builder.BuildWindow(context.Background(), date("2024-03-06"))
	if !view.RangeOK {
		t.Fatal("expected a visible range")
	}
	if view.Range.MinHour != 9 || view.Range.MaxHour != 17 {
		t.Errorf("range = %d-%d, want 9-17", view.Range.MinHour, view.Range.MaxHour)
	}
	if view.Degraded {
		t.Error("no failures, view must not be degraded")
	}
}

func TestBuildWindowRangeIsUnion(t *testing.T) {
	store := newFakeStore()
	store.setWorkweek(9, 17)
	// Wednesday opens late and closes late
	store.overrides["2024-03-06"] = &model.DayOverride{
		Date:      date("2024-03-06"),
		OpenHour:  12,
		CloseHour: 21,
	}
	// Friday opens early
	store.overrides["2024-03-08"] = &model.DayOverride{
		Date:      date("2024-03-08"),
		OpenHour:  7,
		CloseHour: 13,
	}
	builder := NewBuilder(NewResolver(store), zerolog.Nop())

	view := builder.BuildWindow(context.Background(), date("2024-03-04"))
	if !view.RangeOK {
		t.Fatal("expected a visible range")
	}
	if view.Range.MinHour != 7 {
		t.Errorf("min hour = %d, want 7", view.Range.MinHour)
	}
	if view.Range.MaxHour != 21 {
		t.Errorf("max hour = %d, want 21", view.Range.MaxHour)
	}
}

func TestBuildWindowHolidayExcludedFromRange(t *testing.T) {
	store := newFakeStore()
	store.setWorkweek(9, 17)
	// Holiday with stale wide hours on the row must not widen the range
	store.overrides["2024-03-06"] = &model.DayOverride{
		Date:      date("2024-03-06"),
		IsHoliday: true,
		OpenHour:  0,
		CloseHour: 23,
	}
	builder := NewBuilder(NewResolver(store), zerolog.Nop())

	view := builder.BuildWindow(context.Background(), date("2024-03-04"))
	if view.Range.MinHour != 9 || view.Range.MaxHour != 17 {
		t.Errorf("range = %d-%d, want 9-17", view.Range.MinHour, view.Range.MaxHour)
	}
	if view.Hours[2].Open() {
		t.Error("holiday Wednesday counted as open")
	}
}

func TestBuildWindowAllClosed(t *testing.T) {
	store := newFakeStore()
	for wd := 1; wd <= 7; wd++ {
		store.weekdays[wd] = &model.WeekdaySchedule{Weekday: wd, IsActive: false}
	}
	builder := NewBuilder(NewResolver(store), zerolog.Nop())

	view := builder.BuildWindow(context.Background(), date("2024-03-04"))
	if view.RangeOK {
		t.Error("week with no open days must report RangeOK=false")
	}
}

func TestBuildWindowFailOpen(t *testing.T) {
	store := newFakeStore()
	store.setWorkweek(9, 17)
	store.overrideErr["2024-03-06"] = errors.New("store down")
	builder := NewBuilder(NewResolver(store), zerolog.Nop())

	view := builder.BuildWindow(context.Background(), date("2024-03-04"))
	if !view.Degraded {
		t.Error("failed lookup must mark the view degraded")
	}
	wed := view.Hours[2]
	if !wed.Open() || wed.OpenHour != 0 || wed.CloseHour != 23 {
		t.Errorf("failed day = %+v, want open 0-23", wed)
	}
	if view.Range.MinHour != 0 || view.Range.MaxHour != 23 {
		t.Errorf("range = %d-%d, want widened to 0-23", view.Range.MinHour, view.Range.MaxHour)
	}
}
