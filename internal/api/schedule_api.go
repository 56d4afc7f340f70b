package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"wakala/internal/metrics"
	"wakala/internal/model"
)

// UpdateWeekdayRequest is the body for PUT /api/v1/schedule/defaults/{weekday}.
type UpdateWeekdayRequest struct {
	IsActive  bool `json:"is_active"`
	OpenHour  int  `json:"open_hour"`
	CloseHour int  `json:"close_hour"`
}

// UpsertOverrideRequest is the body for PUT /api/v1/schedule/overrides.
type UpsertOverrideRequest struct {
	Date      string `json:"date"` // YYYY-MM-DD
	IsHoliday bool   `json:"is_holiday"`
	OpenHour  int    `json:"open_hour"`
	CloseHour int    `json:"close_hour"`
	Reason    string `json:"reason,omitempty"`
}

// handleScheduleDefaults lists the weekly default schedule.
// GET /api/v1/schedule/defaults
func (s *HTTPServer) handleScheduleDefaults(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("schedule_defaults")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	schedules, err := s.store.ListWeekdaySchedules(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list weekday schedules failed")
		writeError(w, http.StatusInternalServerError, "could not load schedules")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"schedules": schedules})
}

// handleScheduleDefaultByWeekday updates one weekday.
// PUT /api/v1/schedule/defaults/{weekday}
func (s *HTTPServer) handleScheduleDefaultByWeekday(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("schedule_defaults_update")
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use PUT")
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/schedule/defaults/"), "/")
	weekday, err := strconv.Atoi(raw)
	if err != nil || weekday < 1 || weekday > 7 {
		writeError(w, http.StatusBadRequest, "weekday must be 1 (Monday) to 7 (Sunday)")
		return
	}

	var req UpdateWeekdayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !validHourRange(req.OpenHour, req.CloseHour) && req.IsActive {
		writeError(w, http.StatusBadRequest, "open_hour must be before close_hour, both 0-23")
		return
	}

	if err := s.store.UpdateWeekdayHours(r.Context(), weekday, req.OpenHour, req.CloseHour); err != nil {
		s.logger.Error().Err(err).Int("weekday", weekday).Msg("update weekday hours failed")
		writeError(w, http.StatusInternalServerError, "could not update schedule")
		return
	}
	if err := s.store.SetWeekdayActive(r.Context(), weekday, req.IsActive); err != nil {
		s.logger.Error().Err(err).Int("weekday", weekday).Msg("update weekday active failed")
		writeError(w, http.StatusInternalServerError, "could not update schedule")
		return
	}
	if s.cache != nil {
		s.cache.InvalidateWeekday(r.Context(), weekday)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScheduleOverrides manages per-date overrides.
// GET    /api/v1/schedule/overrides?from=YYYY-MM-DD&to=YYYY-MM-DD
// PUT    /api/v1/schedule/overrides        (upsert)
// DELETE /api/v1/schedule/overrides?date=YYYY-MM-DD
func (s *HTTPServer) handleScheduleOverrides(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("schedule_overrides")
	if !s.requireAdmin(w, r) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.listOverrides(w, r)
	case http.MethodPut:
		s.upsertOverride(w, r)
	case http.MethodDelete:
		s.deleteOverride(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listOverrides(w http.ResponseWriter, r *http.Request) {
	from, okFrom := parseDateParam(r, "from")
	to, okTo := parseDateParam(r, "to")
	if !okFrom || !okTo {
		writeError(w, http.StatusBadRequest, "from and to are required as YYYY-MM-DD")
		return
	}

	overrides, err := s.store.ListDayOverrides(r.Context(), from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("list overrides failed")
		writeError(w, http.StatusInternalServerError, "could not load overrides")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"overrides": overrides})
}

func (s *HTTPServer) upsertOverride(w http.ResponseWriter, r *http.Request) {
	var req UpsertOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}
	if !req.IsHoliday && !validHourRange(req.OpenHour, req.CloseHour) {
		writeError(w, http.StatusBadRequest, "open_hour must be before close_hour, both 0-23")
		return
	}

	override := &model.DayOverride{
		Date:      date,
		IsHoliday: req.IsHoliday,
		OpenHour:  req.OpenHour,
		CloseHour: req.CloseHour,
		Reason:    req.Reason,
	}
	if err := s.store.UpsertDayOverride(r.Context(), override); err != nil {
		s.logger.Error().Err(err).Str("date", req.Date).Msg("upsert override failed")
		writeError(w, http.StatusInternalServerError, "could not save override")
		return
	}
	if s.cache != nil {
		s.cache.InvalidateDate(r.Context(), date)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) deleteOverride(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateParam(r, "date")
	if !ok {
		writeError(w, http.StatusBadRequest, "date is required as YYYY-MM-DD")
		return
	}

	if err := s.store.DeleteDayOverride(r.Context(), date); err != nil {
		s.logger.Error().Err(err).Msg("delete override failed")
		writeError(w, http.StatusInternalServerError, "could not delete override")
		return
	}
	if s.cache != nil {
		s.cache.InvalidateDate(r.Context(), date)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func validHourRange(open, close int) bool {
	return open >= 0 && open <= 23 && close >= 0 && close <= 23 && open < close
}
