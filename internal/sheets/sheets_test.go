package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wakala/internal/model"
)

func TestFilterActiveBookings(t *testing.T) {
	svc := &SheetsService{}

	bookings := []model.Appointment{
		{ID: 1, Status: model.StatusSubmitted},
		{ID: 2, Status: model.StatusCancelled},
		{ID: 3, Status: model.StatusConfirmed},
		{ID: 4, Status: model.StatusCompleted},
		{ID: 5, Status: model.StatusCancelled},
	}

	active := svc.filterActiveBookings(bookings)
	assert.Len(t, active, 3)
	for _, b := range active {
		assert.NotEqual(t, model.StatusCancelled, b.Status)
	}
}

func TestFilterActiveBookingsEmpty(t *testing.T) {
	svc := &SheetsService{}
	assert.Empty(t, svc.filterActiveBookings(nil))
	assert.Empty(t, svc.filterActiveBookings([]model.Appointment{
		{Status: model.StatusCancelled},
	}))
}

func TestBookingRowValues(t *testing.T) {
	appt := model.Appointment{
		Reference:     "a1b2c3d4",
		NameEN:        "Omar Haddad",
		NameAR:        "عمر حداد",
		Email:         "omar@example.org",
		Phone:         "030 1111",
		Date:          time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
		StartTime:     "10:30",
		EndTime:       "11:00",
		Status:        model.StatusConfirmed,
		ServiceEN:     "Translation",
		AssignedStaff: "Amira",
		CreatedAt:     time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC),
	}

	row := bookingRowValues(&appt)
	assert.Len(t, row, len(headerRow))
	assert.Equal(t, "a1b2c3d4", row[0])
	assert.Equal(t, "Omar Haddad", row[1])
	assert.Equal(t, "2024-03-06", row[4])
	assert.Equal(t, "10:30", row[5])
	assert.Equal(t, "confirmed", row[7])
	assert.Equal(t, "2024-03-01 09:15", row[10])
}
