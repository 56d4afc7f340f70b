package api

import (
	"net/http"
	"time"

	"wakala/internal/grid"
	"wakala/internal/metrics"
	"wakala/internal/model"
	"wakala/internal/schedule"
)

// AppointmentSummary is the grid projection of an appointment.
type AppointmentSummary struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
	Service   string `json:"service"`
}

// GridCell is one day/hour bucket of the week grid.
type GridCell struct {
	Hour         int                  `json:"hour"`
	Day          int                  `json:"day"` // 0 = Monday
	Closed       bool                 `json:"closed"`
	Appointments []AppointmentSummary `json:"appointments,omitempty"`
}

// WeekResponse is the payload for GET /api/v1/calendar/week.
type WeekResponse struct {
	Window     schedule.CalendarWindow      `json:"window"`
	Hours      []schedule.ResolvedDayHours  `json:"hours"`
	Range      *schedule.VisibleHourRange   `json:"range,omitempty"`
	EmptyState bool                         `json:"empty_state"`
	Degraded   bool                         `json:"degraded"`
	Cells      []GridCell                   `json:"cells"`
}

// handleCalendarWeek builds and returns the resolved week grid.
// GET /api/v1/calendar/week?anchor=YYYY-MM-DD&lang=en|ar
func (s *HTTPServer) handleCalendarWeek(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("calendar_week")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	anchor, ok := parseDateParam(r, "anchor")
	if !ok {
		anchor = time.Now().In(s.location)
	}
	lang := r.URL.Query().Get("lang")
	if lang != "ar" {
		lang = "en"
	}

	view, g, err := s.bookings.LoadWeek(r.Context(), anchor)
	if err != nil {
		// Without appointment data the grid cannot usefully render; this
		// failure is blocking, unlike resolver degradation.
		s.logger.Error().Err(err).Msg("week appointment fetch failed")
		writeError(w, http.StatusBadGateway, "could not load appointments for this week")
		return
	}
	if view.Degraded {
		metrics.IncResolverFailOpen()
	}

	writeJSON(w, http.StatusOK, buildWeekResponse(view, g, lang))
}

func buildWeekResponse(view schedule.WeekView, g grid.Grid, lang string) WeekResponse {
	resp := WeekResponse{
		Window:     view.Window,
		Hours:      view.Hours[:],
		EmptyState: !view.RangeOK,
		Degraded:   view.Degraded,
		Cells:      []GridCell{},
	}
	if view.RangeOK {
		r := view.Range
		resp.Range = &r
	}

	for hour := 0; hour < 24; hour++ {
		inRange := view.RangeOK && hour >= view.Range.MinHour && hour < view.Range.MaxHour
		for day := 0; day < 7; day++ {
			appts := g.At(hour, day)
			// Cells outside the visible range only appear when a booking
			// landed there (e.g. booked before a holiday was declared).
			if !inRange && len(appts) == 0 {
				continue
			}
			resp.Cells = append(resp.Cells, GridCell{
				Hour:         hour,
				Day:          day,
				Closed:       g.Closed(hour, day),
				Appointments: summarize(appts, lang),
			})
		}
	}
	return resp
}

func summarize(appts []model.Appointment, lang string) []AppointmentSummary {
	if len(appts) == 0 {
		return nil
	}
	summaries := make([]AppointmentSummary, len(appts))
	for i := range appts {
		a := &appts[i]
		summaries[i] = AppointmentSummary{
			ID:        a.ID,
			Reference: a.Reference,
			Name:      a.DisplayName(lang),
			StartTime: a.StartTime,
			EndTime:   a.EndTime,
			Status:    a.Status,
			Service:   a.DisplayService(lang),
		}
	}
	return summaries
}
