package models

import (
	"github.com/google/uuid"
)

// Role is the access level assigned to a user at setup time.
type Role string

const (
	RoleClient       Role = "client"
	RoleProfessional Role = "professional"
	RoleAdmin        Role = "admin"
)

// User represents an account keyed by its canonical phone number.
// PhoneNumber is the sole authentication factor; the unique index is
// what settles concurrent first-logins from the same number.
type User struct {
	BaseModel
	PhoneNumber   string     `gorm:"uniqueIndex" json:"phone_number"`
	Name          string     `json:"name"`
	Email         *string    `gorm:"uniqueIndex" json:"email,omitempty"`
	Role          Role       `gorm:"default:client" json:"role"`
	SetupComplete bool       `json:"setup_complete"`
	EventID       *uuid.UUID `gorm:"type:uuid" json:"event_id,omitempty"`
	Event         *Event     `json:"event,omitempty"`
}
