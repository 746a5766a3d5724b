package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type EventStatus string

const (
	StatusDraft             EventStatus = "draft"
	StatusPendingApproval   EventStatus = "pending_approval"
	StatusRevisionRequested EventStatus = "revision_requested"
	StatusPublished         EventStatus = "published"
	StatusCancelled         EventStatus = "cancelled"
	StatusCompleted         EventStatus = "completed"
)

// ValidationError marks input the engine refuses before touching storage.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type Event struct {
	gorm.Model
	CreatedByID       uint `gorm:"index"`
	CreatedBy         User `gorm:"foreignKey:CreatedByID"`
	Title             string
	Description       string
	LocationID        *uint
	Location          *Location
	MaxAttendees      *int     `json:"max_attendees"`
	AllowedCategories []string `gorm:"serializer:json"`
	StartsAt          time.Time
	RegistrationStart time.Time
	RegistrationEnd   time.Time
	Status            EventStatus `gorm:"type:varchar(30);default:'draft'"`
	RevisionComments  string
	ApproverID        *uint
	ApproverName      string
}

// Validate checks the date-window and capacity invariants. It looks only at
// the event itself; status-dependent rules (publish requires a future start)
// live in the workflow.
func (e *Event) Validate() error {
	if e.Title == "" {
		return Validationf("title is required")
	}
	if e.StartsAt.IsZero() || e.RegistrationStart.IsZero() || e.RegistrationEnd.IsZero() {
		return Validationf("event start and registration window are required")
	}
	if !e.RegistrationStart.Before(e.RegistrationEnd) {
		return Validationf("registration start must be before registration end")
	}
	if e.RegistrationEnd.After(e.StartsAt) {
		return Validationf("registration must close no later than the event start")
	}
	if e.MaxAttendees != nil && *e.MaxAttendees < 1 {
		return Validationf("max attendees must be at least 1")
	}
	return nil
}

// AllowsCategory reports whether a user category passes the allow-list.
// An empty list means the event is open to everyone.
func (e *Event) AllowsCategory(category string) bool {
	if len(e.AllowedCategories) == 0 {
		return true
	}
	for _, c := range e.AllowedCategories {
		if c == category {
			return true
		}
	}
	return false
}
