package model

import "time"

// Membership types.
const (
	MemberTypeMember    = "member"
	MemberTypeVolunteer = "volunteer"
)

// Membership is a member or volunteer intake record.
type Membership struct {
	ID         int64     `json:"id"`
	FullNameEN string    `json:"full_name_en"`
	FullNameAR string    `json:"full_name_ar"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	City       string    `json:"city,omitempty"`
	MemberType string    `json:"member_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// StaffContact is a registered staff member who receives booking
// notifications.
type StaffContact struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	ChatID  int64     `json:"chat_id"`
	AddedAt time.Time `json:"added_at"`
}
