package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"wakala/internal/booking"
	"wakala/internal/db"
	"wakala/internal/metrics"
	"wakala/internal/model"
)

// CreateBookingRequest is the public intake body for POST /api/v1/bookings.
type CreateBookingRequest struct {
	NameEN    string `json:"name_en"`
	NameAR    string `json:"name_ar,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
	ServiceEN string `json:"service_en"`
	ServiceAR string `json:"service_ar,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// SetStatusRequest is the body for POST /api/v1/bookings/{id}/status.
type SetStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

// AssignStaffRequest is the body for POST /api/v1/bookings/{id}/assign.
type AssignStaffRequest struct {
	Staff string `json:"staff"`
}

// handleBookings handles POST /api/v1/bookings (public intake).
func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_create")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req CreateBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	appt, errMsg := req.toAppointment()
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	if err := s.store.CreateAppointment(r.Context(), appt); err != nil {
		s.logger.Error().Err(err).Msg("create appointment failed")
		writeError(w, http.StatusInternalServerError, "could not create booking")
		return
	}
	metrics.IncAppointmentCreated()

	if s.notifier != nil {
		s.notifier.NotifyNewBooking(r.Context(), appt)
	}

	writeJSON(w, http.StatusCreated, map[string]string{"reference": appt.Reference})
}

func (req *CreateBookingRequest) toAppointment() (*model.Appointment, string) {
	if req.NameEN == "" && req.NameAR == "" {
		return nil, "name is required"
	}
	if req.Email == "" || req.Phone == "" {
		return nil, "email and phone are required"
	}
	if req.ServiceEN == "" && req.ServiceAR == "" {
		return nil, "service is required"
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, "invalid date format; expected YYYY-MM-DD"
	}
	if !validClock(req.StartTime) || !validClock(req.EndTime) {
		return nil, "invalid time format; expected HH:MM"
	}

	return &model.Appointment{
		NameEN:    req.NameEN,
		NameAR:    req.NameAR,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		ServiceEN: req.ServiceEN,
		ServiceAR: req.ServiceAR,
		Notes:     req.Notes,
		Status:    model.StatusSubmitted,
	}, ""
}

func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// handleTrackBooking is the public booking tracker.
// GET /api/v1/bookings/track?ref=|email=|phone=
func (s *HTTPServer) handleTrackBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_track")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var results []model.Appointment
	switch {
	case r.URL.Query().Get("ref") != "":
		appt, err := s.store.GetAppointmentByReference(r.Context(), strings.TrimSpace(r.URL.Query().Get("ref")))
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			s.logger.Error().Err(err).Msg("tracker reference lookup failed")
			writeError(w, http.StatusInternalServerError, "search failed")
			return
		}
		if appt != nil {
			results = []model.Appointment{*appt}
		}
	case r.URL.Query().Get("email") != "", r.URL.Query().Get("phone") != "":
		query := strings.TrimSpace(r.URL.Query().Get("email"))
		if query == "" {
			query = strings.TrimSpace(r.URL.Query().Get("phone"))
		}
		var err error
		results, err = s.store.SearchAppointments(r.Context(), query)
		if err != nil {
			s.logger.Error().Err(err).Msg("tracker search failed")
			writeError(w, http.StatusInternalServerError, "search failed")
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "one of ref, email or phone is required")
		return
	}

	lang := r.URL.Query().Get("lang")
	if lang != "ar" {
		lang = "en"
	}

	// Public callers only get the summary projection, never notes or
	// staff assignments.
	type trackResult struct {
		Reference string `json:"reference"`
		Name      string `json:"name"`
		Date      string `json:"date"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
		Status    string `json:"status"`
		Service   string `json:"service"`
	}
	out := make([]trackResult, 0, len(results))
	for i := range results {
		a := &results[i]
		out = append(out, trackResult{
			Reference: a.Reference,
			Name:      a.DisplayName(lang),
			Date:      a.Date.Format("2006-01-02"),
			StartTime: a.StartTime,
			EndTime:   a.EndTime,
			Status:    a.Status,
			Service:   a.DisplayService(lang),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

// handleBookingByID dispatches /api/v1/bookings/{id}[/status|/assign].
func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/bookings/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		s.getBookingDetail(w, r, id)
	case len(parts) == 2 && parts[1] == "status" && r.Method == http.MethodPost:
		s.setBookingStatus(w, r, id)
	case len(parts) == 2 && parts[1] == "assign" && r.Method == http.MethodPost:
		s.assignBookingStaff(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *HTTPServer) getBookingDetail(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("bookings_detail")

	appt, err := s.bookings.GetAppointment(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		s.logger.Error().Err(err).Int64("id", id).Msg("load booking detail failed")
		writeError(w, http.StatusInternalServerError, "could not load booking")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"booking":       appt,
		"next_statuses": booking.NextStatuses(appt.Status),
	})
}

func (s *HTTPServer) setBookingStatus(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("bookings_status")

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !model.IsKnownStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	appt, err := s.bookings.SetStatus(r.Context(), id, req.Status, req.Comment)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		s.logger.Error().Err(err).Int64("id", id).Msg("status update failed")
		writeError(w, http.StatusInternalServerError, "could not update status")
		return
	}
	metrics.IncStatusChange(req.Status)

	writeJSON(w, http.StatusOK, map[string]any{
		"booking":       appt,
		"next_statuses": booking.NextStatuses(appt.Status),
	})
}

func (s *HTTPServer) assignBookingStaff(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("bookings_assign")

	var req AssignStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.bookings.AssignStaff(r.Context(), id, req.Staff); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		s.logger.Error().Err(err).Int64("id", id).Msg("staff assignment failed")
		writeError(w, http.StatusInternalServerError, "could not assign staff")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
