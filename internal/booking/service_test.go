package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"wakala/internal/model"
	"wakala/internal/schedule"
)

type fakeRepo struct {
	appointments map[int64]*model.Appointment
	listErr      error
	updateErr    error
}

func newFakeRepo(appts ...*model.Appointment) *fakeRepo {
	repo := &fakeRepo{appointments: make(map[int64]*model.Appointment)}
	for _, a := range appts {
		repo.appointments[a.ID] = a
	}
	return repo
}

func (r *fakeRepo) GetAppointment(_ context.Context, id int64) (*model.Appointment, error) {
	appt, ok := r.appointments[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *appt
	return &copied, nil
}

func (r *fakeRepo) ListAppointmentsInRange(_ context.Context, from, to time.Time) ([]model.Appointment, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []model.Appointment
	for _, a := range r.appointments {
		if !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateAppointmentStatus(_ context.Context, id int64, status, comment string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	appt, ok := r.appointments[id]
	if !ok {
		return errors.New("not found")
	}
	appt.Status = status
	if comment != "" {
		appt.Notes = comment
	}
	return nil
}

func (r *fakeRepo) UpdateAppointmentStaff(_ context.Context, id int64, staff string) error {
	appt, ok := r.appointments[id]
	if !ok {
		return errors.New("not found")
	}
	appt.AssignedStaff = staff
	return nil
}

type fakeNotifier struct {
	calls []string
}

func (n *fakeNotifier) NotifyStatusChange(_ context.Context, appt *model.Appointment, oldStatus string) {
	n.calls = append(n.calls, oldStatus+"->"+appt.Status)
}

type stubScheduleStore struct{}

func (stubScheduleStore) GetDayOverride(context.Context, time.Time) (*model.DayOverride, error) {
	return nil, nil
}

func (stubScheduleStore) GetWeekdaySchedule(_ context.Context, weekday int) (*model.WeekdaySchedule, error) {
	return &model.WeekdaySchedule{Weekday: weekday, IsActive: true, OpenHour: 9, CloseHour: 17}, nil
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestService(repo *fakeRepo, notifier Notifier) *Service {
	builder := schedule.NewBuilder(schedule.NewResolver(stubScheduleStore{}), zerolog.Nop())
	return NewService(repo, builder, notifier, zerolog.Nop())
}

func TestSetStatus(t *testing.T) {
	repo := newFakeRepo(&model.Appointment{ID: 1, Status: model.StatusSubmitted})
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	appt, err := svc.SetStatus(context.Background(), 1, model.StatusConfirmed, "called back")
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if appt.Status != model.StatusConfirmed {
		t.Errorf("returned status = %q, want confirmed", appt.Status)
	}
	if appt.Notes != "called back" {
		t.Errorf("notes = %q, want comment applied", appt.Notes)
	}
	if repo.appointments[1].Status != model.StatusConfirmed {
		t.Error("status not persisted")
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != "submitted->confirmed" {
		t.Errorf("notifier calls = %v", notifier.calls)
	}
}

func TestSetStatusAnyKnownTransition(t *testing.T) {
	// No transition graph: completed back to submitted is allowed
	repo := newFakeRepo(&model.Appointment{ID: 1, Status: model.StatusCompleted})
	svc := newTestService(repo, nil)

	appt, err := svc.SetStatus(context.Background(), 1, model.StatusSubmitted, "")
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if appt.Status != model.StatusSubmitted {
		t.Errorf("status = %q, want submitted", appt.Status)
	}
}

func TestSetStatusRejectsUnknown(t *testing.T) {
	repo := newFakeRepo(&model.Appointment{ID: 1, Status: model.StatusSubmitted})
	svc := newTestService(repo, nil)

	if _, err := svc.SetStatus(context.Background(), 1, "booked", ""); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if repo.appointments[1].Status != model.StatusSubmitted {
		t.Error("unknown status must not be persisted")
	}
}

func TestSetStatusUpdateFailureSkipsNotify(t *testing.T) {
	repo := newFakeRepo(&model.Appointment{ID: 1, Status: model.StatusSubmitted})
	repo.updateErr = errors.New("disk full")
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	if _, err := svc.SetStatus(context.Background(), 1, model.StatusConfirmed, ""); err == nil {
		t.Fatal("expected update error")
	}
	if len(notifier.calls) != 0 {
		t.Error("failed mutation must not notify")
	}
}

func TestAssignStaff(t *testing.T) {
	repo := newFakeRepo(&model.Appointment{ID: 1, Status: model.StatusConfirmed})
	svc := newTestService(repo, nil)

	if err := svc.AssignStaff(context.Background(), 1, "Amira"); err != nil {
		t.Fatalf("AssignStaff: %v", err)
	}
	if repo.appointments[1].AssignedStaff != "Amira" {
		t.Error("staff not persisted")
	}
}

func TestNextStatuses(t *testing.T) {
	tests := []struct {
		current string
		want    int
	}{
		{model.StatusSubmitted, 2},
		{model.StatusConfirmed, 4},
		{model.StatusInProgress, 2},
		{model.StatusCompleted, 0},
		{model.StatusCancelled, 0},
		{model.StatusNoShow, 0},
	}

	for _, tt := range tests {
		if got := NextStatuses(tt.current); len(got) != tt.want {
			t.Errorf("NextStatuses(%q) has %d choices, want %d", tt.current, len(got), tt.want)
		}
	}
}

func TestLoadWeek(t *testing.T) {
	repo := newFakeRepo(
		&model.Appointment{ID: 1, Date: date("2024-03-06"), StartTime: "10:15", Status: model.StatusConfirmed},
		&model.Appointment{ID: 2, Date: date("2024-03-15"), StartTime: "10:15", Status: model.StatusConfirmed},
	)
	svc := newTestService(repo, nil)

	view, g, err := svc.LoadWeek(context.Background(), date("2024-03-06"))
	if err != nil {
		t.Fatalf("LoadWeek: %v", err)
	}
	if !view.Window.StartDate.Equal(date("2024-03-04")) {
		t.Errorf("window start = %v, want 2024-03-04", view.Window.StartDate)
	}
	if g.Count() != 1 {
		t.Errorf("placed = %d, want only the in-window appointment", g.Count())
	}
	if len(g.At(10, 2)) != 1 {
		t.Error("appointment expected at Wednesday 10:00")
	}
}

func TestLoadWeekFetchFailureIsBlocking(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("db gone")
	svc := newTestService(repo, nil)

	_, _, err := svc.LoadWeek(context.Background(), date("2024-03-06"))
	if err == nil {
		t.Fatal("expected error when appointment fetch fails")
	}
}
