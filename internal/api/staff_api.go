package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"wakala/internal/metrics"
)

// RegisterStaffContactRequest is the body for POST /api/v1/staff-contacts.
type RegisterStaffContactRequest struct {
	Name   string `json:"name"`
	ChatID int64  `json:"chat_id"`
}

// handleStaffContacts manages the Telegram notification recipients.
// GET    /api/v1/staff-contacts
// POST   /api/v1/staff-contacts
// DELETE /api/v1/staff-contacts?chat_id=<id>
func (s *HTTPServer) handleStaffContacts(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("staff_contacts")
	if !s.requireAdmin(w, r) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		contacts, err := s.store.ListStaffContacts(r.Context())
		if err != nil {
			s.logger.Error().Err(err).Msg("list staff contacts failed")
			writeError(w, http.StatusInternalServerError, "could not load staff contacts")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"contacts": contacts})

	case http.MethodPost:
		var req RegisterStaffContactRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Name == "" || req.ChatID == 0 {
			writeError(w, http.StatusBadRequest, "name and chat_id are required")
			return
		}
		if err := s.store.RegisterStaffContact(r.Context(), req.Name, req.ChatID); err != nil {
			s.logger.Error().Err(err).Msg("register staff contact failed")
			writeError(w, http.StatusInternalServerError, "could not register staff contact")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})

	case http.MethodDelete:
		chatID, err := strconv.ParseInt(r.URL.Query().Get("chat_id"), 10, 64)
		if err != nil || chatID == 0 {
			writeError(w, http.StatusBadRequest, "chat_id is required")
			return
		}
		if err := s.store.RemoveStaffContact(r.Context(), chatID); err != nil {
			s.logger.Error().Err(err).Msg("remove staff contact failed")
			writeError(w, http.StatusInternalServerError, "could not remove staff contact")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleBookingStats returns appointment counts by status.
// GET /api/v1/bookings/stats
func (s *HTTPServer) handleBookingStats(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_stats")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	counts, err := s.store.CountAppointmentsByStatus(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("count appointments failed")
		writeError(w, http.StatusInternalServerError, "could not load stats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"by_status": counts})
}
