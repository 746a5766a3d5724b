// Package policy decides whether a user may register for an event. It is a
// pure predicate over a snapshot of the event and the candidate; it reads no
// storage and holds no state, so every business rule about who may register
// lives here and nowhere else.
package policy

import (
	"time"

	"github.com/campuslab/campus-events-api/internal/models"
)

// Reason identifies why a registration attempt was refused.
type Reason string

const (
	ReasonEventNotPublished   Reason = "event_not_published"
	ReasonRegistrationNotOpen Reason = "registration_not_open"
	ReasonRegistrationClosed  Reason = "registration_closed"
	ReasonCategoryNotAllowed  Reason = "category_not_allowed"
	ReasonAlreadyRegistered   Reason = "already_registered"
)

type IneligibleError struct {
	Reason Reason
}

func (e *IneligibleError) Error() string {
	return "ineligible: " + string(e.Reason)
}

// Candidate is the registering user as the policy sees them.
type Candidate struct {
	UserID   uint
	Category string
}

// Evaluate returns nil when the candidate may register, an *IneligibleError
// for a business-rule refusal, or a *models.ValidationError for malformed
// input. Checks run in a fixed order so a caller always gets the same reason
// for the same state. Capacity is deliberately not checked: a full event
// waitlists the candidate, it does not refuse them.
func Evaluate(event *models.Event, candidate Candidate, hasActiveRegistration bool, now time.Time) error {
	if event == nil {
		return models.Validationf("event is required")
	}
	if candidate.UserID == 0 {
		return models.Validationf("user is required")
	}
	if event.Status != models.StatusPublished {
		return &IneligibleError{Reason: ReasonEventNotPublished}
	}
	if now.Before(event.RegistrationStart) {
		return &IneligibleError{Reason: ReasonRegistrationNotOpen}
	}
	if now.After(event.RegistrationEnd) {
		return &IneligibleError{Reason: ReasonRegistrationClosed}
	}
	if !event.AllowsCategory(candidate.Category) {
		return &IneligibleError{Reason: ReasonCategoryNotAllowed}
	}
	if hasActiveRegistration {
		return &IneligibleError{Reason: ReasonAlreadyRegistered}
	}
	return nil
}
