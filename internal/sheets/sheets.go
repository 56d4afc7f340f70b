// Package sheets mirrors active bookings to a Google Spreadsheet so staff
// without admin access can follow the Wakala queue.
package sheets

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"wakala/internal/model"
)

const sheetRange = "Bookings!A1"

var headerRow = []interface{}{
	"Reference", "Name", "Email", "Phone", "Date", "Start", "End",
	"Status", "Service", "Staff", "Created",
}

// BookingSource provides the rows to mirror.
type BookingSource interface {
	ListAppointmentsInRange(ctx context.Context, from, to time.Time) ([]model.Appointment, error)
}

// SheetsService syncs bookings to a spreadsheet via a service account.
type SheetsService struct {
	svc           *sheets.Service
	spreadsheetID string
	source        BookingSource
	logger        zerolog.Logger
}

// NewSheetsService builds the service from a service-account credentials
// file.
func NewSheetsService(ctx context.Context, credentialsFile, spreadsheetID string, source BookingSource, logger zerolog.Logger) (*SheetsService, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsService{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		source:        source,
		logger:        logger,
	}, nil
}

// SyncBookings replaces the sheet contents with the active bookings of the
// next 90 days.
func (s *SheetsService) SyncBookings(ctx context.Context) error {
	now := time.Now()
	bookings, err := s.source.ListAppointmentsInRange(ctx, now.AddDate(0, 0, -7), now.AddDate(0, 0, 90))
	if err != nil {
		return fmt.Errorf("list bookings: %w", err)
	}
	active := s.filterActiveBookings(bookings)

	values := [][]interface{}{headerRow}
	for i := range active {
		values = append(values, bookingRowValues(&active[i]))
	}

	clearCall := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, "Bookings!A:K", &sheets.ClearValuesRequest{})
	if _, err := clearCall.Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}

	body := &sheets.ValueRange{Values: values}
	updateCall := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, sheetRange, body).ValueInputOption("RAW")
	if _, err := updateCall.Context(ctx).Do(); err != nil {
		return fmt.Errorf("update sheet: %w", err)
	}

	s.logger.Info().Int("rows", len(active)).Msg("bookings mirrored to sheet")
	return nil
}

// Run syncs on the given interval until the context is cancelled.
func (s *SheetsService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := s.SyncBookings(ctx); err != nil {
		s.logger.Error().Err(err).Msg("initial sheet sync failed")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.SyncBookings(ctx); err != nil {
				s.logger.Error().Err(err).Msg("sheet sync failed")
			}
		}
	}
}

// filterActiveBookings drops cancelled bookings from the mirror.
func (s *SheetsService) filterActiveBookings(bookings []model.Appointment) []model.Appointment {
	var active []model.Appointment
	for _, b := range bookings {
		if b.Status == model.StatusCancelled {
			continue
		}
		active = append(active, b)
	}
	return active
}

func bookingRowValues(a *model.Appointment) []interface{} {
	return []interface{}{
		a.Reference,
		a.DisplayName("en"),
		a.Email,
		a.Phone,
		a.Date.Format("2006-01-02"),
		a.StartTime,
		a.EndTime,
		a.Status,
		a.DisplayService("en"),
		a.AssignedStaff,
		a.CreatedAt.Format("2006-01-02 15:04"),
	}
}
