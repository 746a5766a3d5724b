package models

import (
	"time"

	"gorm.io/gorm"
)

type RegistrationStatus string

const (
	Registered RegistrationStatus = "registered"
	Waitlisted RegistrationStatus = "waitlisted"
	Cancelled  RegistrationStatus = "cancelled"
)

// Registration is one user's attendance record for one event. A cancelled
// row is terminal; re-joining creates a fresh row, so (event, user) is only
// unique among non-cancelled rows and the ledger enforces that in-band.
type Registration struct {
	gorm.Model
	EventID          uint               `json:"event_id" gorm:"index:idx_event_user"`
	UserID           uint               `json:"user_id" gorm:"index:idx_event_user"`
	User             User               `gorm:"foreignKey:UserID"`
	Status           RegistrationStatus `json:"status" gorm:"type:varchar(20);default:'registered'"`
	RegistrationDate time.Time          `json:"registration_date"`
}
