// Package workflow is the event status state machine. Each transition
// mutates the event in memory and hands back the ApprovalHistory entry to
// persist alongside it; the lifecycle service commits both in one
// transaction. A failed transition leaves the event untouched.
package workflow

import (
	"errors"
	"time"

	"github.com/campuslab/campus-events-api/internal/models"
)

var (
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrForbidden         = errors.New("forbidden")
)

// Actor is whoever is performing a transition, as authenticated by the
// caller. The workflow authorizes, it does not authenticate.
type Actor struct {
	ID   uint
	Name string
	Role models.Role
}

func entry(e *models.Event, action models.HistoryAction, before models.EventStatus, actor Actor, comments string) *models.ApprovalHistory {
	return &models.ApprovalHistory{
		EventID:       e.ID,
		Action:        action,
		StatusBefore:  before,
		StatusAfter:   e.Status,
		PerformerID:   actor.ID,
		PerformerName: actor.Name,
		Comments:      comments,
	}
}

// Submit moves a draft or revision-requested event into the approval queue.
// Only the creator may submit; from draft only plain users do (reviewer
// roles publish directly instead), from revision_requested any creator role
// may resubmit. Resubmission clears the reviewer's comments.
func Submit(e *models.Event, actor Actor) (*models.ApprovalHistory, error) {
	if actor.ID != e.CreatedByID {
		return nil, ErrForbidden
	}
	before := e.Status
	switch e.Status {
	case models.StatusDraft:
		if !actor.Role.CanSubmitDraft() {
			return nil, ErrForbidden
		}
	case models.StatusRevisionRequested:
		e.RevisionComments = ""
	default:
		return nil, ErrInvalidTransition
	}
	e.Status = models.StatusPendingApproval
	return entry(e, models.ActionSubmitted, before, actor, ""), nil
}

// Approve publishes a pending event. The reviewer must hold an approving
// role and must not be the event's creator.
func Approve(e *models.Event, actor Actor, now time.Time) (*models.ApprovalHistory, error) {
	if !actor.Role.CanApprove() || actor.ID == e.CreatedByID {
		return nil, ErrForbidden
	}
	if e.Status != models.StatusPendingApproval {
		return nil, ErrInvalidTransition
	}
	if err := publishable(e, now); err != nil {
		return nil, err
	}
	before := e.Status
	e.Status = models.StatusPublished
	approverID := actor.ID
	e.ApproverID = &approverID
	e.ApproverName = actor.Name
	return entry(e, models.ActionApproved, before, actor, ""), nil
}

// RequestRevision sends a pending event back to its creator. Comments are
// what the creator acts on, so they are mandatory.
func RequestRevision(e *models.Event, actor Actor, comments string) (*models.ApprovalHistory, error) {
	if !actor.Role.CanApprove() || actor.ID == e.CreatedByID {
		return nil, ErrForbidden
	}
	if e.Status != models.StatusPendingApproval {
		return nil, ErrInvalidTransition
	}
	if comments == "" {
		return nil, models.Validationf("revision comments are required")
	}
	before := e.Status
	e.Status = models.StatusRevisionRequested
	e.RevisionComments = comments
	return entry(e, models.ActionRevisionRequested, before, actor, comments), nil
}

// Publish lets a creator with a reviewer role skip the approval queue and
// publish their own draft directly.
func Publish(e *models.Event, actor Actor, now time.Time) (*models.ApprovalHistory, error) {
	if actor.ID != e.CreatedByID || !actor.Role.CanPublishDirectly() {
		return nil, ErrForbidden
	}
	if e.Status != models.StatusDraft {
		return nil, ErrInvalidTransition
	}
	if err := publishable(e, now); err != nil {
		return nil, err
	}
	before := e.Status
	e.Status = models.StatusPublished
	approverID := actor.ID
	e.ApproverID = &approverID
	e.ApproverName = actor.Name
	return entry(e, models.ActionApproved, before, actor, ""), nil
}

// publishable enforces the publication-time invariant: the event must still
// be in the future and its registration window must not already be over.
func publishable(e *models.Event, now time.Time) error {
	if !e.StartsAt.After(now) {
		return models.Validationf("event start must be in the future to publish")
	}
	if e.RegistrationEnd.Before(now) {
		return models.Validationf("registration window already elapsed")
	}
	return nil
}

// Cancel withdraws a published event. The creator may cancel their own
// event; admins may cancel anyone's.
func Cancel(e *models.Event, actor Actor) error {
	if actor.ID != e.CreatedByID && !actor.Role.CanCancelAnyEvent() {
		return ErrForbidden
	}
	if e.Status != models.StatusPublished {
		return ErrInvalidTransition
	}
	e.Status = models.StatusCancelled
	return nil
}

// Complete marks a published event whose start has passed as completed.
// Time-based, not actor-based: triggered lazily on read or by the sweep.
func Complete(e *models.Event, now time.Time) error {
	if e.Status != models.StatusPublished {
		return ErrInvalidTransition
	}
	if now.Before(e.StartsAt) {
		return ErrInvalidTransition
	}
	e.Status = models.StatusCompleted
	return nil
}

// CanDelete reports whether the event is in a state where its creator may
// remove it entirely.
func CanDelete(e *models.Event) bool {
	return e.Status == models.StatusDraft || e.Status == models.StatusRevisionRequested
}

// CanEdit reports whether the creator may still change event metadata.
// Anything past the approval queue is frozen so reviewers approve what gets
// published.
func CanEdit(e *models.Event) bool {
	return e.Status == models.StatusDraft || e.Status == models.StatusRevisionRequested
}
