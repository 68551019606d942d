package model

import "time"

// Contact mirrors the 'contacts' table. Every contact belongs to exactly one
// user; queries are always scoped by UserID.
type Contact struct {
	ID             uint64    `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number"`
	Birthday       time.Time `json:"birthday"`
	AdditionalInfo string    `json:"additional_info,omitempty"`
	UserID         uint64    `json:"-"`
}
