package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"wakala/internal/export"
	"wakala/internal/metrics"
	"wakala/internal/model"
)

// CreateMembershipRequest is the public intake body for POST /api/v1/memberships.
type CreateMembershipRequest struct {
	FullNameEN string `json:"full_name_en"`
	FullNameAR string `json:"full_name_ar,omitempty"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	City       string `json:"city,omitempty"`
	MemberType string `json:"member_type,omitempty"`
}

// handleMemberships handles POST /api/v1/memberships (public intake).
func (s *HTTPServer) handleMemberships(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("memberships_create")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req CreateMembershipRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.FullNameEN == "" && req.FullNameAR == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Email == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "email and phone are required")
		return
	}
	if req.MemberType != "" && req.MemberType != model.MemberTypeMember && req.MemberType != model.MemberTypeVolunteer {
		writeError(w, http.StatusBadRequest, "member_type must be member or volunteer")
		return
	}

	m := &model.Membership{
		FullNameEN: req.FullNameEN,
		FullNameAR: req.FullNameAR,
		Email:      export.NormalizeEmail(req.Email),
		Phone:      strings.TrimSpace(req.Phone),
		City:       req.City,
		MemberType: req.MemberType,
	}
	if err := s.store.CreateMembership(r.Context(), m); err != nil {
		s.logger.Error().Err(err).Msg("create membership failed")
		writeError(w, http.StatusInternalServerError, "could not save registration")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": m.ID})
}

// handleExportMemberships streams the deduplicated membership export.
// GET /api/v1/export/memberships?format=csv|xlsx&type=member|volunteer
func (s *HTTPServer) handleExportMemberships(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export_memberships")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	memberType := r.URL.Query().Get("type")
	memberships, err := s.store.ListMemberships(r.Context(), memberType)
	if err != nil {
		s.logger.Error().Err(err).Msg("list memberships failed")
		writeError(w, http.StatusInternalServerError, "could not load memberships")
		return
	}

	deduped, removed := export.DedupeMemberships(memberships)
	metrics.AddExportRows("memberships", len(deduped))
	s.logger.Info().Int("rows", len(deduped)).Int("duplicates", removed).Msg("memberships exported")

	filename := fmt.Sprintf("memberships_%s", time.Now().Format("2006-01-02"))
	switch r.URL.Query().Get("format") {
	case "xlsx":
		setDownloadHeaders(w, filename+".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := export.WriteMembershipsXLSX(w, deduped); err != nil {
			s.logger.Error().Err(err).Msg("xlsx export failed")
		}
	default:
		setDownloadHeaders(w, filename+".csv", "text/csv; charset=utf-8")
		if err := export.WriteMembershipsCSV(w, deduped); err != nil {
			s.logger.Error().Err(err).Msg("csv export failed")
		}
	}
}

// handleExportBookings streams an appointment export for a date range.
// GET /api/v1/export/bookings?from=YYYY-MM-DD&to=YYYY-MM-DD&format=csv|xlsx
func (s *HTTPServer) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export_bookings")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	from, okFrom := parseDateParam(r, "from")
	to, okTo := parseDateParam(r, "to")
	if !okFrom || !okTo || from.After(to) {
		writeError(w, http.StatusBadRequest, "from and to are required as YYYY-MM-DD, from <= to")
		return
	}

	appointments, err := s.store.ListAppointmentsInRange(r.Context(), from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("list appointments for export failed")
		writeError(w, http.StatusInternalServerError, "could not load bookings")
		return
	}
	metrics.AddExportRows("bookings", len(appointments))

	filename := fmt.Sprintf("bookings_%s_%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	switch r.URL.Query().Get("format") {
	case "xlsx":
		setDownloadHeaders(w, filename+".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := export.WriteBookingsXLSX(w, appointments); err != nil {
			s.logger.Error().Err(err).Msg("xlsx export failed")
		}
	default:
		setDownloadHeaders(w, filename+".csv", "text/csv; charset=utf-8")
		if err := export.WriteBookingsCSV(w, appointments); err != nil {
			s.logger.Error().Err(err).Msg("csv export failed")
		}
	}
}

func setDownloadHeaders(w http.ResponseWriter, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
