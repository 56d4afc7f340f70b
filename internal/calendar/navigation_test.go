package calendar

import (
	"sync"
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWeekNavigation(t *testing.T) {
	var reloads []time.Time
	nav := NewNavigator(date("2024-03-06"), func(anchor time.Time) {
		reloads = append(reloads, anchor)
	})

	nav.NextWeek()
	if got := nav.Anchor(); !got.Equal(date("2024-03-13")) {
		t.Errorf("after NextWeek anchor = %v, want 2024-03-13", got)
	}

	nav.PreviousWeek()
	nav.PreviousWeek()
	if got := nav.Anchor(); !got.Equal(date("2024-02-28")) {
		t.Errorf("after two PreviousWeek anchor = %v, want 2024-02-28", got)
	}

	if len(reloads) != 3 {
		t.Errorf("reload fired %d times, want 3", len(reloads))
	}
}

func TestConcurrentWeekShifts(t *testing.T) {
	nav := NewNavigator(date("2024-03-04"), nil)

	const shifts = 50
	var wg sync.WaitGroup
	for i := 0; i < shifts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			nav.NextWeek()
		}()
	}
	wg.Wait()

	want := date("2024-03-04").AddDate(0, 0, 7*shifts)
	if got := nav.Anchor(); !got.Equal(want) {
		t.Errorf("anchor = %v, want %v; a concurrent shift was lost", got, want)
	}
}

func TestToday(t *testing.T) {
	nav := NewNavigator(date("2024-03-06"), nil)
	nav.now = func() time.Time { return date("2024-07-15").Add(13 * time.Hour) }

	nav.Today()
	if got := nav.Anchor(); !got.Equal(date("2024-07-15")) {
		t.Errorf("anchor = %v, want 2024-07-15 at midnight", got)
	}
}

func TestPickerOpensOnAnchorMonth(t *testing.T) {
	nav := NewNavigator(date("2024-03-20"), nil)

	nav.OpenPicker()
	if !nav.PickerOpen() {
		t.Fatal("picker should be open")
	}
	if got := nav.PickerMonth(); !got.Equal(date("2024-03-01")) {
		t.Errorf("picker month = %v, want 2024-03-01", got)
	}
}

func TestPickerCloseKeepsAnchor(t *testing.T) {
	nav := NewNavigator(date("2024-03-20"), nil)

	nav.OpenPicker()
	nav.ChangePickerMonth(2)
	nav.ClosePicker()

	if nav.PickerOpen() {
		t.Error("picker should be closed")
	}
	if got := nav.Anchor(); !got.Equal(date("2024-03-20")) {
		t.Errorf("anchor changed to %v", got)
	}
}

func TestSelectDayMovesAnchorAndClosesPicker(t *testing.T) {
	var reloaded time.Time
	nav := NewNavigator(date("2024-03-20"), func(anchor time.Time) { reloaded = anchor })

	nav.OpenPicker()
	nav.ChangePickerMonth(1) // April
	nav.SelectDay(9)

	if nav.PickerOpen() {
		t.Error("picker should close after selection")
	}
	if got := nav.Anchor(); !got.Equal(date("2024-04-09")) {
		t.Errorf("anchor = %v, want 2024-04-09", got)
	}
	if !reloaded.Equal(date("2024-04-09")) {
		t.Errorf("reload got %v, want 2024-04-09", reloaded)
	}
}

func TestSelectDayRejectsOutOfMonth(t *testing.T) {
	nav := NewNavigator(date("2024-02-10"), nil)

	nav.OpenPicker() // February 2024, leap year
	nav.SelectDay(30)
	if got := nav.Anchor(); !got.Equal(date("2024-02-10")) {
		t.Errorf("invalid day moved anchor to %v", got)
	}

	nav.OpenPicker()
	nav.SelectDay(29)
	if got := nav.Anchor(); !got.Equal(date("2024-02-29")) {
		t.Errorf("leap day rejected, anchor = %v", got)
	}
}

func TestChangePickerMonthAcrossYear(t *testing.T) {
	nav := NewNavigator(date("2024-12-15"), nil)

	nav.OpenPicker()
	nav.ChangePickerMonth(1)
	if got := nav.PickerMonth(); !got.Equal(date("2025-01-01")) {
		t.Errorf("picker month = %v, want 2025-01-01", got)
	}

	nav.ChangePickerMonth(-2)
	if got := nav.PickerMonth(); !got.Equal(date("2024-11-01")) {
		t.Errorf("picker month = %v, want 2024-11-01", got)
	}
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		month time.Month
		year  int
		want  int
	}{
		{time.January, 2024, 31},
		{time.February, 2024, 29},
		{time.February, 2023, 28},
		{time.February, 2000, 29},
		{time.February, 1900, 28},
		{time.April, 2024, 30},
		{time.December, 2024, 31},
	}

	for _, tt := range tests {
		if got := daysIn(tt.month, tt.year); got != tt.want {
			t.Errorf("daysIn(%v, %d) = %d, want %d", tt.month, tt.year, got, tt.want)
		}
	}
}
