// Package booking provides admin operations over Wakala appointments.
package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wakala/internal/grid"
	"wakala/internal/model"
	"wakala/internal/schedule"
)

// Repository provides appointment storage operations.
type Repository interface {
	GetAppointment(ctx context.Context, id int64) (*model.Appointment, error)
	ListAppointmentsInRange(ctx context.Context, from, to time.Time) ([]model.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id int64, status, comment string) error
	UpdateAppointmentStaff(ctx context.Context, id int64, staff string) error
}

// Notifier sends staff notifications about appointment changes. Delivery is
// best-effort; failures must not fail the mutation.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, appt *model.Appointment, oldStatus string)
}

// Service mutates appointments and assembles the week view.
type Service struct {
	repo     Repository
	builder  *schedule.Builder
	notifier Notifier
	logger   zerolog.Logger

	// Status writes are serialized: the admin UI allows a single in-flight
	// mutation at a time and there is no optimistic locking on rows.
	writeMu sync.Mutex
}

// NewService creates a booking service. notifier may be nil.
func NewService(repo Repository, builder *schedule.Builder, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		builder:  builder,
		notifier: notifier,
		logger:   logger,
	}
}

// GetAppointment loads the full record for one appointment.
func (s *Service) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	appt, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment %d: %w", id, err)
	}
	return appt, nil
}

// SetStatus applies an administrator status change. The status must be a
// known value, but no transition graph is enforced: an admin may move an
// appointment between any two statuses (last write wins).
func (s *Service) SetStatus(ctx context.Context, id int64, status, comment string) (*model.Appointment, error) {
	if !model.IsKnownStatus(status) {
		return nil, fmt.Errorf("unknown status %q", status)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	appt, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment %d: %w", id, err)
	}
	oldStatus := appt.Status

	if err := s.repo.UpdateAppointmentStatus(ctx, id, status, comment); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	appt.Status = status
	if comment != "" {
		appt.Notes = comment
	}

	s.logger.Info().
		Int64("appointment_id", id).
		Str("from", oldStatus).
		Str("to", status).
		Msg("appointment status changed")

	if s.notifier != nil {
		s.notifier.NotifyStatusChange(ctx, appt, oldStatus)
	}
	return appt, nil
}

// AssignStaff sets the staff member responsible for an appointment.
func (s *Service) AssignStaff(ctx context.Context, id int64, staff string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.repo.GetAppointment(ctx, id); err != nil {
		return fmt.Errorf("get appointment %d: %w", id, err)
	}
	if err := s.repo.UpdateAppointmentStaff(ctx, id, staff); err != nil {
		return fmt.Errorf("assign staff: %w", err)
	}
	return nil
}

// NextStatuses returns the advisory next-status choices presented to the
// admin for an appointment in the given status. This is a UI hint only;
// SetStatus accepts any known status regardless.
func NextStatuses(current string) []string {
	switch current {
	case model.StatusSubmitted:
		return []string{model.StatusConfirmed, model.StatusCancelled}
	case model.StatusConfirmed:
		return []string{model.StatusInProgress, model.StatusCompleted, model.StatusCancelled, model.StatusNoShow}
	case model.StatusInProgress:
		return []string{model.StatusCompleted, model.StatusCancelled}
	default:
		return nil
	}
}

// LoadWeek builds the resolved week view and fetches the window's
// appointments. The hour resolution and the appointment read are
// independent and run concurrently; the grid is only assembled once both
// have settled, so a half-loaded grid is never returned.
//
// A resolver failure degrades to open 0-23 inside BuildWindow; an
// appointment fetch failure is blocking and returned to the caller.
func (s *Service) LoadWeek(ctx context.Context, anchor time.Time) (schedule.WeekView, grid.Grid, error) {
	var (
		view     schedule.WeekView
		appts    []model.Appointment
		fetchErr error
		wg       sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		view = s.builder.BuildWindow(ctx, anchor)
	}()
	go func() {
		defer wg.Done()
		window := schedule.WindowFor(anchor)
		appts, fetchErr = s.repo.ListAppointmentsInRange(ctx, window.StartDate, window.Days[6])
	}()
	wg.Wait()

	if fetchErr != nil {
		return view, grid.Grid{}, fmt.Errorf("list appointments: %w", fetchErr)
	}
	return view, grid.MapToGrid(appts, view), nil
}
