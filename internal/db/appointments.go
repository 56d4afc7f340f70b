package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"wakala/internal/model"
)

// ErrNotFound is returned when a requested appointment does not exist.
var ErrNotFound = errors.New("not found")

const appointmentColumns = `id, reference, name_en, name_ar, email, phone, date,
	start_time, end_time, status, notes, service_en, service_ar, assigned_staff,
	created_at, updated_at`

// CreateAppointment inserts a new appointment from the public booking flow.
// A fresh tracking reference is generated and written back to appt.
func (db *DB) CreateAppointment(ctx context.Context, appt *model.Appointment) error {
	if appt.Status == "" {
		appt.Status = model.StatusSubmitted
	}
	appt.Reference = uuid.NewString()

	now := time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO appointments (
			reference, name_en, name_ar, email, phone, date, start_time, end_time,
			status, notes, service_en, service_ar, assigned_staff, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		appt.Reference, appt.NameEN, appt.NameAR, appt.Email, appt.Phone,
		appt.Date.Format(dateLayout), appt.StartTime, appt.EndTime,
		appt.Status, appt.Notes, appt.ServiceEN, appt.ServiceAR, appt.AssignedStaff,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	appt.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}
	appt.CreatedAt = now
	appt.UpdatedAt = now
	return nil
}

// GetAppointment returns the full record by id.
func (db *DB) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	row := db.QueryRowContext(ctx,
		"SELECT "+appointmentColumns+" FROM appointments WHERE id = ?", id)
	appt, err := scanAppointment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return appt, err
}

// GetAppointmentByReference returns the record matching a public tracking
// reference.
func (db *DB) GetAppointmentByReference(ctx context.Context, reference string) (*model.Appointment, error) {
	row := db.QueryRowContext(ctx,
		"SELECT "+appointmentColumns+" FROM appointments WHERE reference = ?", reference)
	appt, err := scanAppointment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return appt, err
}

// ListAppointmentsInRange returns appointments whose date lies in
// [from, to] inclusive, ordered by date then start time.
func (db *DB) ListAppointmentsInRange(ctx context.Context, from, to time.Time) ([]model.Appointment, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date >= ? AND date <= ?
		ORDER BY date, start_time`,
		from.Format(dateLayout), to.Format(dateLayout),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// SearchAppointments finds appointments by tracking reference, email or
// phone (the public booking-tracker flow). Most recent first.
func (db *DB) SearchAppointments(ctx context.Context, query string) ([]model.Appointment, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	rows, err := db.QueryContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE reference = ? OR email = ? OR phone = ?
		ORDER BY date DESC, start_time DESC
		LIMIT 50`,
		query, strings.ToLower(query), query,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// UpdateAppointmentStatus sets a new status and optional admin comment.
func (db *DB) UpdateAppointmentStatus(ctx context.Context, id int64, status, comment string) error {
	var res sql.Result
	var err error
	if comment != "" {
		res, err = db.ExecContext(ctx, `
			UPDATE appointments SET status = ?, notes = ?, updated_at = ? WHERE id = ?`,
			status, comment, time.Now(), id)
	} else {
		res, err = db.ExecContext(ctx, `
			UPDATE appointments SET status = ?, updated_at = ? WHERE id = ?`,
			status, time.Now(), id)
	}
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAppointmentStaff assigns a staff member to an appointment.
func (db *DB) UpdateAppointmentStaff(ctx context.Context, id int64, staff string) error {
	res, err := db.ExecContext(ctx, `
		UPDATE appointments SET assigned_staff = ?, updated_at = ? WHERE id = ?`,
		staff, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountAppointmentsByStatus returns appointment counts grouped by status.
func (db *DB) CountAppointmentsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM appointments GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*model.Appointment, error) {
	var a model.Appointment
	var dateStr string
	var nameAR, notes, serviceAR, staff sql.NullString
	err := row.Scan(
		&a.ID, &a.Reference, &a.NameEN, &nameAR, &a.Email, &a.Phone, &dateStr,
		&a.StartTime, &a.EndTime, &a.Status, &notes, &a.ServiceEN, &serviceAR,
		&staff, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.Date, err = time.Parse(dateLayout, dateStr); err != nil {
		return nil, fmt.Errorf("parse appointment date %q: %w", dateStr, err)
	}
	if nameAR.Valid {
		a.NameAR = nameAR.String
	}
	if notes.Valid {
		a.Notes = notes.String
	}
	if serviceAR.Valid {
		a.ServiceAR = serviceAR.String
	}
	if staff.Valid {
		a.AssignedStaff = staff.String
	}
	return &a, nil
}

func collectAppointments(rows *sql.Rows) ([]model.Appointment, error) {
	var appointments []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, *a)
	}
	return appointments, rows.Err()
}
