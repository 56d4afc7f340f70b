package grid

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"wakala/internal/model"
	"wakala/internal/schedule"
)

type stubStore struct{}

func (stubStore) GetDayOverride(context.Context, time.Time) (*model.DayOverride, error) {
	return nil, nil
}

func (stubStore) GetWeekdaySchedule(_ context.Context, weekday int) (*model.WeekdaySchedule, error) {
	return &model.WeekdaySchedule{
		Weekday:   weekday,
		IsActive:  weekday <= 5,
		OpenHour:  9,
		CloseHour: 17,
	}, nil
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func weekView(t *testing.T, anchor string) schedule.WeekView {
	t.Helper()
	builder := schedule.NewBuilder(schedule.NewResolver(stubStore{}), zerolog.Nop())
	return builder.BuildWindow(context.Background(), date(anchor))
}

func appt(id int64, day, start string) model.Appointment {
	return model.Appointment{ID: id, Date: date(day), StartTime: start}
}

func TestMapToGridHourFloor(t *testing.T) {
	view := weekView(t, "2024-03-04")

	tests := []struct {
		start    string
		wantHour int
	}{
		{"09:00", 9},
		{"09:30", 9},
		{"09:59", 9},
		{"10:00", 10},
		{"00:15", 0},
		{"23:45", 23},
	}

	for _, tt := range tests {
		g := MapToGrid([]model.Appointment{appt(1, "2024-03-06", tt.start)}, view)
		if g.Dropped != 0 {
			t.Errorf("start %s: dropped %d, want 0", tt.start, g.Dropped)
			continue
		}
		cell := g.At(tt.wantHour, 2)
		if len(cell) != 1 {
			t.Errorf("start %s: cell[%d][2] has %d appointments, want 1", tt.start, tt.wantHour, len(cell))
		}
	}
}

func TestMapToGridNonUTCAnchor(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// Week view built from a local-time anchor; appointment dates come
	// from storage as UTC midnights. They must still land in the grid.
	builder := schedule.NewBuilder(schedule.NewResolver(stubStore{}), zerolog.Nop())
	anchor := time.Date(2024, 3, 6, 15, 30, 0, 0, berlin)
	view := builder.BuildWindow(context.Background(), anchor)

	g := MapToGrid([]model.Appointment{appt(1, "2024-03-06", "10:00")}, view)
	if g.Dropped != 0 {
		t.Fatalf("dropped = %d, want 0", g.Dropped)
	}
	if len(g.At(10, 2)) != 1 {
		t.Error("appointment missing from Wednesday 10:00 cell")
	}
}

func TestMapToGridDropsOutOfWindow(t *testing.T) {
	view := weekView(t, "2024-03-04")

	appointments := []model.Appointment{
		appt(1, "2024-03-06", "10:00"),
		appt(2, "2024-03-11", "10:00"), // next Monday
		appt(3, "2024-03-03", "10:00"), // previous Sunday
	}
	g := MapToGrid(appointments, view)

	if g.Dropped != 2 {
		t.Errorf("dropped = %d, want 2", g.Dropped)
	}
	if g.Count() != 1 {
		t.Errorf("placed = %d, want 1", g.Count())
	}
}

func TestMapToGridDropsBadStartTime(t *testing.T) {
	view := weekView(t, "2024-03-04")

	g := MapToGrid([]model.Appointment{appt(1, "2024-03-06", "soon")}, view)
	if g.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", g.Dropped)
	}
}

func TestMapToGridPreservesFetchOrder(t *testing.T) {
	view := weekView(t, "2024-03-04")

	appointments := []model.Appointment{
		appt(10, "2024-03-06", "10:00"),
		appt(11, "2024-03-06", "10:30"),
		appt(12, "2024-03-06", "10:15"),
	}
	g := MapToGrid(appointments, view)

	cell := g.At(10, 2)
	if len(cell) != 3 {
		t.Fatalf("cell has %d appointments, want 3", len(cell))
	}
	for i, wantID := range []int64{10, 11, 12} {
		if cell[i].ID != wantID {
			t.Errorf("cell[%d].ID = %d, want %d", i, cell[i].ID, wantID)
		}
	}
}

func TestClosedIsAdvisory(t *testing.T) {
	view := weekView(t, "2024-03-04")

	// 07:00 is before opening, Saturday is inactive
	g := MapToGrid([]model.Appointment{
		appt(1, "2024-03-06", "07:00"),
		appt(2, "2024-03-09", "10:00"),
	}, view)

	if !g.Closed(7, 2) {
		t.Error("07:00 Wednesday should be closed")
	}
	if len(g.At(7, 2)) != 1 {
		t.Error("appointment in closed cell must still be placed")
	}
	if !g.Closed(10, 5) {
		t.Error("inactive Saturday should be closed")
	}
	if len(g.At(10, 5)) != 1 {
		t.Error("Saturday appointment must still be placed")
	}
}

func TestClosedBoundaries(t *testing.T) {
	view := weekView(t, "2024-03-04")
	g := MapToGrid(nil, view)

	if g.Closed(9, 0) {
		t.Error("opening hour must be open")
	}
	if g.Closed(16, 0) {
		t.Error("last hour before close must be open")
	}
	if !g.Closed(17, 0) {
		t.Error("closing hour itself must be closed")
	}
	if !g.Closed(8, 0) {
		t.Error("hour before opening must be closed")
	}
}

func TestAtOutOfBounds(t *testing.T) {
	view := weekView(t, "2024-03-04")
	g := MapToGrid(nil, view)

	if g.At(-1, 0) != nil || g.At(24, 0) != nil || g.At(10, 7) != nil {
		t.Error("out-of-bounds cells must return nil")
	}
}
