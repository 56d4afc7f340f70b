// Package api exposes the back-office HTTP JSON API consumed by the admin
// front-end, plus the public booking intake and tracker endpoints.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"wakala/internal/booking"
	"wakala/internal/model"
)

// Store is the storage surface the API needs. *db.DB implements it.
type Store interface {
	CreateAppointment(ctx context.Context, appt *model.Appointment) error
	GetAppointmentByReference(ctx context.Context, reference string) (*model.Appointment, error)
	SearchAppointments(ctx context.Context, query string) ([]model.Appointment, error)
	ListAppointmentsInRange(ctx context.Context, from, to time.Time) ([]model.Appointment, error)
	CountAppointmentsByStatus(ctx context.Context) (map[string]int, error)

	ListWeekdaySchedules(ctx context.Context) ([]model.WeekdaySchedule, error)
	UpdateWeekdayHours(ctx context.Context, weekday, openHour, closeHour int) error
	SetWeekdayActive(ctx context.Context, weekday int, active bool) error
	UpsertDayOverride(ctx context.Context, o *model.DayOverride) error
	DeleteDayOverride(ctx context.Context, date time.Time) error
	ListDayOverrides(ctx context.Context, from, to time.Time) ([]model.DayOverride, error)

	CreateMembership(ctx context.Context, m *model.Membership) error
	ListMemberships(ctx context.Context, memberType string) ([]model.Membership, error)

	RegisterStaffContact(ctx context.Context, name string, chatID int64) error
	RemoveStaffContact(ctx context.Context, chatID int64) error
	ListStaffContacts(ctx context.Context) ([]model.StaffContact, error)
}

// CacheInvalidator drops cached schedule reads after schedule writes.
type CacheInvalidator interface {
	InvalidateDate(ctx context.Context, date time.Time)
	InvalidateWeekday(ctx context.Context, weekday int)
}

// BookingNotifier announces new public bookings to staff.
type BookingNotifier interface {
	NotifyNewBooking(ctx context.Context, appt *model.Appointment)
}

// HTTPServer serves the back-office API.
type HTTPServer struct {
	store    Store
	bookings *booking.Service
	cache    CacheInvalidator // may be nil
	notifier BookingNotifier  // may be nil
	apiKey   string
	location *time.Location
	logger   zerolog.Logger
}

// NewHTTPServer creates the API server. cache and notifier may be nil;
// location is the booking timezone used when no anchor is given.
func NewHTTPServer(store Store, bookings *booking.Service, cache CacheInvalidator, notifier BookingNotifier, apiKey string, location *time.Location, logger zerolog.Logger) *HTTPServer {
	if location == nil {
		location = time.UTC
	}
	return &HTTPServer{
		store:    store,
		bookings: bookings,
		cache:    cache,
		notifier: notifier,
		apiKey:   apiKey,
		location: location,
		logger:   logger,
	}
}

// Handler returns the routed http.Handler.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/calendar/week", s.handleCalendarWeek)

	mux.HandleFunc("/api/v1/bookings", s.handleBookings)
	mux.HandleFunc("/api/v1/bookings/track", s.handleTrackBooking)
	mux.HandleFunc("/api/v1/bookings/", s.handleBookingByID)

	mux.HandleFunc("/api/v1/schedule/defaults", s.handleScheduleDefaults)
	mux.HandleFunc("/api/v1/schedule/defaults/", s.handleScheduleDefaultByWeekday)
	mux.HandleFunc("/api/v1/schedule/overrides", s.handleScheduleOverrides)

	mux.HandleFunc("/api/v1/bookings/stats", s.handleBookingStats)

	mux.HandleFunc("/api/v1/memberships", s.handleMemberships)

	mux.HandleFunc("/api/v1/staff-contacts", s.handleStaffContacts)

	mux.HandleFunc("/api/v1/export/memberships", s.handleExportMemberships)
	mux.HandleFunc("/api/v1/export/bookings", s.handleExportBookings)

	return mux
}

// Run serves the API until ctx is cancelled.
func (s *HTTPServer) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// requireAdmin checks the x-api-key header. Returns false (after writing
// the error) when the caller is not an admin.
func (s *HTTPServer) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if s.apiKey == "" || r.Header.Get("x-api-key") != s.apiKey {
		writeError(w, http.StatusUnauthorized, "invalid or missing api key")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseDateParam(r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
