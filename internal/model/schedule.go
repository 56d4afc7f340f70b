package model

import "time"

// WeekdaySchedule is the default recurring working hours for one weekday.
// Weekday is Monday-first: 1 = Monday .. 7 = Sunday.
type WeekdaySchedule struct {
	ID        int64     `json:"id"`
	Weekday   int       `json:"weekday"`
	IsActive  bool      `json:"is_active"`
	OpenHour  int       `json:"open_hour"`  // 0-23
	CloseHour int       `json:"close_hour"` // 0-23
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DayOverride is an explicit working-hours exception for one specific date.
// A holiday override closes the day entirely; otherwise OpenHour/CloseHour
// replace the weekday default for that date.
type DayOverride struct {
	ID        int64     `json:"id"`
	Date      time.Time `json:"date"` // date only, time-zeroed
	IsHoliday bool      `json:"is_holiday"`
	OpenHour  int       `json:"open_hour"`
	CloseHour int       `json:"close_hour"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
