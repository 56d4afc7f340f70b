package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"wakala/internal/model"
)

var bookingColumns = []string{
	"ID", "Reference", "Name (EN)", "Name (AR)", "Email", "Phone",
	"Date", "Start", "End", "Status", "Service (EN)", "Service (AR)",
	"Assigned Staff", "Notes", "Created",
}

func bookingRow(a *model.Appointment) []string {
	return []string{
		fmt.Sprintf("%d", a.ID),
		a.Reference,
		a.NameEN,
		a.NameAR,
		a.Email,
		a.Phone,
		a.Date.Format("2006-01-02"),
		a.StartTime,
		a.EndTime,
		a.Status,
		a.ServiceEN,
		a.ServiceAR,
		a.AssignedStaff,
		a.Notes,
		a.CreatedAt.Format("2006-01-02 15:04"),
	}
}

// WriteBookingsCSV writes appointments as CSV.
func WriteBookingsCSV(w io.Writer, appointments []model.Appointment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(bookingColumns); err != nil {
		return err
	}
	for i := range appointments {
		if err := cw.Write(bookingRow(&appointments[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBookingsXLSX writes appointments as an Excel sheet.
func WriteBookingsXLSX(w io.Writer, appointments []model.Appointment) error {
	writer := NewExcelizeWriter()
	defer writer.Close()

	rows := make([][]string, 0, len(appointments))
	for i := range appointments {
		rows = append(rows, bookingRow(&appointments[i]))
	}
	if err := writer.WriteTable("Bookings", bookingColumns, rows); err != nil {
		return err
	}
	return writer.Save(w)
}
