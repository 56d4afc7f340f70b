package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wakala/internal/model"
)

const dateLayout = "2006-01-02"

// DefaultScheduleConfig provides the default weekly hours seeded on first
// start: open 9-17, weekend inactive.
var DefaultScheduleConfig = struct {
	OpenHour  int
	CloseHour int
}{
	OpenHour:  9,
	CloseHour: 17,
}

// EnsureDefaultSchedules creates a weekday_schedules row for every weekday
// that has none yet. Monday through Friday start active, Saturday and
// Sunday inactive.
func (db *DB) EnsureDefaultSchedules(ctx context.Context) error {
	for weekday := 1; weekday <= 7; weekday++ {
		exists, err := db.weekdayScheduleExists(ctx, weekday)
		if err != nil {
			return fmt.Errorf("check schedule: %w", err)
		}
		if exists {
			continue
		}

		active := weekday <= 5
		_, err = db.ExecContext(ctx, `
			INSERT INTO weekday_schedules (weekday, is_active, open_hour, close_hour)
			VALUES (?, ?, ?, ?)`,
			weekday, active, DefaultScheduleConfig.OpenHour, DefaultScheduleConfig.CloseHour,
		)
		if err != nil {
			return fmt.Errorf("create schedule for weekday %d: %w", weekday, err)
		}
	}
	return nil
}

func (db *DB) weekdayScheduleExists(ctx context.Context, weekday int) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM weekday_schedules WHERE weekday = ?",
		weekday,
	).Scan(&count)
	return count > 0, err
}

// GetDayOverride returns the override for an exact date, or nil when none
// exists.
func (db *DB) GetDayOverride(ctx context.Context, date time.Time) (*model.DayOverride, error) {
	var o model.DayOverride
	var dateStr string
	var reason sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT id, date, is_holiday, open_hour, close_hour, reason, created_at, updated_at
		FROM day_overrides
		WHERE date = ?
		LIMIT 1`,
		date.Format(dateLayout),
	).Scan(&o.ID, &dateStr, &o.IsHoliday, &o.OpenHour, &o.CloseHour, &reason, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if o.Date, err = time.Parse(dateLayout, dateStr); err != nil {
		return nil, fmt.Errorf("parse override date %q: %w", dateStr, err)
	}
	if reason.Valid {
		o.Reason = reason.String
	}
	return &o, nil
}

// GetWeekdaySchedule returns the default schedule for a Monday-first
// weekday (1-7), or nil when none exists.
func (db *DB) GetWeekdaySchedule(ctx context.Context, weekday int) (*model.WeekdaySchedule, error) {
	var s model.WeekdaySchedule
	err := db.QueryRowContext(ctx, `
		SELECT id, weekday, is_active, open_hour, close_hour, created_at, updated_at
		FROM weekday_schedules
		WHERE weekday = ?
		LIMIT 1`,
		weekday,
	).Scan(&s.ID, &s.Weekday, &s.IsActive, &s.OpenHour, &s.CloseHour, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListWeekdaySchedules returns all seven weekday rows ordered Monday first.
func (db *DB) ListWeekdaySchedules(ctx context.Context) ([]model.WeekdaySchedule, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, weekday, is_active, open_hour, close_hour, created_at, updated_at
		FROM weekday_schedules
		ORDER BY weekday`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []model.WeekdaySchedule
	for rows.Next() {
		var s model.WeekdaySchedule
		if err := rows.Scan(&s.ID, &s.Weekday, &s.IsActive, &s.OpenHour, &s.CloseHour, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// UpdateWeekdayHours sets the open/close hours for a weekday.
func (db *DB) UpdateWeekdayHours(ctx context.Context, weekday, openHour, closeHour int) error {
	_, err := db.ExecContext(ctx, `
		UPDATE weekday_schedules
		SET open_hour = ?, close_hour = ?, updated_at = ?
		WHERE weekday = ?`,
		openHour, closeHour, time.Now(), weekday,
	)
	return err
}

// SetWeekdayActive toggles a weekday on or off.
func (db *DB) SetWeekdayActive(ctx context.Context, weekday int, active bool) error {
	_, err := db.ExecContext(ctx, `
		UPDATE weekday_schedules
		SET is_active = ?, updated_at = ?
		WHERE weekday = ?`,
		active, time.Now(), weekday,
	)
	return err
}

// UpsertDayOverride creates or updates an override for a specific date.
func (db *DB) UpsertDayOverride(ctx context.Context, o *model.DayOverride) error {
	if o == nil {
		return fmt.Errorf("override is nil")
	}

	now := time.Now()
	_, err := db.ExecContext(ctx, `
		INSERT INTO day_overrides (date, is_holiday, open_hour, close_hour, reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			is_holiday = excluded.is_holiday,
			open_hour = excluded.open_hour,
			close_hour = excluded.close_hour,
			reason = excluded.reason,
			updated_at = excluded.updated_at`,
		o.Date.Format(dateLayout), o.IsHoliday, o.OpenHour, o.CloseHour, o.Reason, now, now,
	)
	return err
}

// DeleteDayOverride removes the override for a specific date.
func (db *DB) DeleteDayOverride(ctx context.Context, date time.Time) error {
	_, err := db.ExecContext(ctx,
		"DELETE FROM day_overrides WHERE date = ?",
		date.Format(dateLayout),
	)
	return err
}

// SetDayOff marks a specific date as a holiday.
func (db *DB) SetDayOff(ctx context.Context, date time.Time, reason string) error {
	return db.UpsertDayOverride(ctx, &model.DayOverride{
		Date:      date,
		IsHoliday: true,
		Reason:    reason,
	})
}

// SetSpecialHours sets special working hours for a specific date.
func (db *DB) SetSpecialHours(ctx context.Context, date time.Time, openHour, closeHour int) error {
	return db.UpsertDayOverride(ctx, &model.DayOverride{
		Date:      date,
		OpenHour:  openHour,
		CloseHour: closeHour,
	})
}

// ListDayOverrides returns all overrides within the date range, inclusive.
func (db *DB) ListDayOverrides(ctx context.Context, from, to time.Time) ([]model.DayOverride, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, date, is_holiday, open_hour, close_hour, reason, created_at, updated_at
		FROM day_overrides
		WHERE date >= ? AND date <= ?
		ORDER BY date`,
		from.Format(dateLayout), to.Format(dateLayout),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []model.DayOverride
	for rows.Next() {
		var o model.DayOverride
		var dateStr string
		var reason sql.NullString
		if err := rows.Scan(&o.ID, &dateStr, &o.IsHoliday, &o.OpenHour, &o.CloseHour, &reason, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		if o.Date, err = time.Parse(dateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("parse override date %q: %w", dateStr, err)
		}
		if reason.Valid {
			o.Reason = reason.String
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}
