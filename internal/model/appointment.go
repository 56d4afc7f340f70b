package model

import (
	"strconv"
	"strings"
	"time"
)

// Appointment statuses.
const (
	StatusSubmitted  = "submitted"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusNoShow     = "no_show"
)

// KnownStatuses lists every valid appointment status.
var KnownStatuses = []string{
	StatusSubmitted,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// IsKnownStatus reports whether s is a valid appointment status.
func IsKnownStatus(s string) bool {
	for _, known := range KnownStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Appointment is a Wakala service appointment.
type Appointment struct {
	ID            int64     `json:"id"`
	Reference     string    `json:"reference"` // public tracking code
	NameEN        string    `json:"name_en"`
	NameAR        string    `json:"name_ar"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Date          time.Time `json:"date"`       // date only, time-zeroed
	StartTime     string    `json:"start_time"` // "14:30"
	EndTime       string    `json:"end_time"`   // "15:00"
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	ServiceEN     string    `json:"service_en"`
	ServiceAR     string    `json:"service_ar"`
	AssignedStaff string    `json:"assigned_staff,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StartHour returns the integer hour component of StartTime (floor, no
// rounding). Returns -1 when StartTime is unparsable.
func (a *Appointment) StartHour() int {
	idx := strings.Index(a.StartTime, ":")
	if idx <= 0 {
		return -1
	}
	hour, err := strconv.Atoi(strings.TrimSpace(a.StartTime[:idx]))
	if err != nil || hour < 0 || hour > 23 {
		return -1
	}
	return hour
}

// DisplayName returns the localized applicant name, falling back to the
// other language when one is empty.
func (a *Appointment) DisplayName(lang string) string {
	if lang == "ar" && a.NameAR != "" {
		return a.NameAR
	}
	if a.NameEN != "" {
		return a.NameEN
	}
	return a.NameAR
}

// DisplayService returns the localized service label.
func (a *Appointment) DisplayService(lang string) string {
	if lang == "ar" && a.ServiceAR != "" {
		return a.ServiceAR
	}
	if a.ServiceEN != "" {
		return a.ServiceEN
	}
	return a.ServiceAR
}

// IsFinal reports whether the appointment reached a terminal status.
func (a *Appointment) IsFinal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled || a.Status == StatusNoShow
}
