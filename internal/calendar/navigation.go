// Package calendar holds the navigation state for the week calendar view:
// the anchor date and the month date-picker.
package calendar

import (
	"sync"
	"time"

	"wakala/internal/schedule"
)

// Reloader is invoked after every anchor change so the caller can rebuild
// the week view. It runs outside the navigator's lock.
type Reloader func(anchor time.Time)

// Navigator tracks the anchor date and the date-picker state.
type Navigator struct {
	mu          sync.Mutex
	anchor      time.Time
	pickerOpen  bool
	pickerMonth time.Time // first of month
	reload      Reloader
	now         func() time.Time
}

// NewNavigator creates a navigator anchored at start.
func NewNavigator(start time.Time, reload Reloader) *Navigator {
	return &Navigator{
		anchor: schedule.DateOnly(start),
		reload: reload,
		now:    time.Now,
	}
}

// Anchor returns the current anchor date.
func (n *Navigator) Anchor() time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.anchor
}

// PickerOpen reports whether the date-picker is open.
func (n *Navigator) PickerOpen() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pickerOpen
}

// PickerMonth returns the first day of the month shown in the picker.
func (n *Navigator) PickerMonth() time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pickerMonth
}

// Today moves the anchor to the current date.
func (n *Navigator) Today() {
	n.setAnchor(schedule.DateOnly(n.now()))
}

// PreviousWeek shifts the anchor back seven days.
func (n *Navigator) PreviousWeek() {
	n.shiftAnchor(-7)
}

// NextWeek shifts the anchor forward seven days.
func (n *Navigator) NextWeek() {
	n.shiftAnchor(7)
}

// shiftAnchor applies a relative move in one critical section, so
// concurrent shifts never lose an update. reload still runs outside the
// lock.
func (n *Navigator) shiftAnchor(days int) {
	n.mu.Lock()
	n.anchor = n.anchor.AddDate(0, 0, days)
	anchor := n.anchor
	n.mu.Unlock()
	if n.reload != nil {
		n.reload(anchor)
	}
}

// OpenPicker opens the date-picker on the anchor's month.
func (n *Navigator) OpenPicker() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pickerMonth = firstOfMonth(n.anchor)
	n.pickerOpen = true
}

// ClosePicker closes the date-picker without changing the anchor.
func (n *Navigator) ClosePicker() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pickerOpen = false
}

// SelectDay picks day number from the picker month, closes the picker and
// moves the anchor there.
func (n *Navigator) SelectDay(day int) {
	n.mu.Lock()
	month := n.pickerMonth
	n.pickerOpen = false
	n.mu.Unlock()

	if month.IsZero() || day < 1 || day > daysIn(month.Month(), month.Year()) {
		return
	}
	n.setAnchor(time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, month.Location()))
}

// ChangePickerMonth shifts the picker month by delta calendar months. The
// anchor is untouched.
func (n *Navigator) ChangePickerMonth(delta int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pickerMonth.IsZero() {
		return
	}
	n.pickerMonth = n.pickerMonth.AddDate(0, delta, 0)
}

func (n *Navigator) setAnchor(anchor time.Time) {
	n.mu.Lock()
	n.anchor = anchor
	n.mu.Unlock()
	if n.reload != nil {
		n.reload(anchor)
	}
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func daysIn(m time.Month, year int) int {
	switch m {
	case time.February:
		if (year%4 == 0 && year%100 != 0) || year%400 == 0 {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}
