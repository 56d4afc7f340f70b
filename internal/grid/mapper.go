// Package grid places appointments into a day-by-hour week grid.
package grid

import (
	"wakala/internal/model"
	"wakala/internal/schedule"
)

// Grid is the week calendar grid: Cells[hour][dayIndex] holds the
// appointments bucketed into that cell, in fetch order.
type Grid struct {
	Window  schedule.CalendarWindow
	Hours   [7]schedule.ResolvedDayHours
	Cells   [24][7][]model.Appointment
	Dropped int // appointments outside the window or with unparsable times
}

// MapToGrid buckets appointments by exact date and the hour component of
// their start time. Appointments whose date falls outside the window are
// dropped; the caller is expected to fetch only in-window rows, so Dropped
// should stay zero in practice.
func MapToGrid(appointments []model.Appointment, view schedule.WeekView) Grid {
	g := Grid{Window: view.Window, Hours: view.Hours}

	for _, appt := range appointments {
		day := view.Window.DayIndexOf(appt.Date)
		hour := appt.StartHour()
		if day < 0 || hour < 0 {
			g.Dropped++
			continue
		}
		g.Cells[hour][day] = append(g.Cells[hour][day], appt)
	}
	return g
}

// At returns the appointments in one cell.
func (g *Grid) At(hour, day int) []model.Appointment {
	if hour < 0 || hour > 23 || day < 0 || day > 6 {
		return nil
	}
	return g.Cells[hour][day]
}

// Closed reports whether a cell falls outside the resolved working hours
// for its day. Closure is advisory: appointments placed in a closed cell
// are still shown, since a booking may predate a later-declared holiday.
func (g *Grid) Closed(hour, day int) bool {
	if day < 0 || day > 6 {
		return true
	}
	h := g.Hours[day]
	if !h.Open() {
		return true
	}
	return hour < h.OpenHour || hour >= h.CloseHour
}

// Count returns the total number of placed appointments.
func (g *Grid) Count() int {
	total := 0
	for hour := range g.Cells {
		for day := range g.Cells[hour] {
			total += len(g.Cells[hour][day])
		}
	}
	return total
}
