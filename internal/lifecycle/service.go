// Package lifecycle is the façade the API layer talks to. Every operation
// loads the event, authorizes the actor, delegates to the workflow or the
// ledger, and commits the result in a single transaction under the event's
// lock. Notifications go out after the lock is released.
package lifecycle

import (
	"errors"
	"log"
	"time"

	"github.com/campuslab/campus-events-api/internal/models"
	"github.com/campuslab/campus-events-api/internal/notifier"
	"github.com/campuslab/campus-events-api/internal/workflow"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("event not found")

type Service struct {
	db       *gorm.DB
	notifier notifier.Notifier
	locks    *eventLocks
}

func NewService(db *gorm.DB, n notifier.Notifier) *Service {
	return &Service{
		db:       db,
		notifier: n,
		locks:    newEventLocks(),
	}
}

// EventInput is the creator-editable part of an event.
type EventInput struct {
	Title             string
	Description       string
	LocationID        *uint
	MaxAttendees      *int
	AllowedCategories []string
	StartsAt          time.Time
	RegistrationStart time.Time
	RegistrationEnd   time.Time
}

func (in EventInput) apply(e *models.Event) {
	e.Title = in.Title
	e.Description = in.Description
	e.LocationID = in.LocationID
	e.MaxAttendees = in.MaxAttendees
	e.AllowedCategories = in.AllowedCategories
	e.StartsAt = in.StartsAt
	e.RegistrationStart = in.RegistrationStart
	e.RegistrationEnd = in.RegistrationEnd
}

// withEvent runs fn against the event inside its lock and a transaction.
// The lock is released before withEvent returns, so callers dispatch
// notifications afterwards without holding it.
func (s *Service) withEvent(eventID uint, fn func(tx *gorm.DB, event *models.Event) error) (*models.Event, error) {
	unlock := s.locks.lock(eventID)
	defer unlock()

	var event models.Event
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("CreatedBy").First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return fn(tx, &event)
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// dispatch is fire-and-forget: a failed notification is logged, never
// returned, and never rolls back the committed change it announces.
func (s *Service) dispatch(kind notifier.Kind, recipients []models.User, event models.Event, detail string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(kind, recipients, event, detail); err != nil {
		log.Printf("Notification dispatch failed for event %d: %v", event.ID, err)
	}
}

// Create stores a new draft owned by the actor. Validation happens before
// anything is persisted.
func (s *Service) Create(actor workflow.Actor, in EventInput) (*models.Event, error) {
	event := models.Event{
		CreatedByID: actor.ID,
		Status:      models.StatusDraft,
	}
	in.apply(&event)
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if err := s.db.Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// Update rewrites event metadata. Only the creator may edit, and only while
// the event has not entered or passed the approval queue.
func (s *Service) Update(actor workflow.Actor, eventID uint, in EventInput) (*models.Event, error) {
	return s.withEvent(eventID, func(tx *gorm.DB, event *models.Event) error {
		if event.CreatedByID != actor.ID {
			return workflow.ErrForbidden
		}
		if !workflow.CanEdit(event) {
			return workflow.ErrInvalidTransition
		}
		in.apply(event)
		if err := event.Validate(); err != nil {
			return err
		}
		return tx.Save(event).Error
	})
}

// Get returns the event, completing it lazily when its start has passed.
// Unpublished events are only visible to their creator and to reviewers.
func (s *Service) Get(actor workflow.Actor, eventID uint, now time.Time) (*models.Event, error) {
	var event models.Event
	err := s.db.Preload("CreatedBy").Preload("Location").First(&event, eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if event.Status == models.StatusPublished && !now.Before(event.StartsAt) {
		return s.withEvent(eventID, func(tx *gorm.DB, e *models.Event) error {
			if err := workflow.Complete(e, now); err != nil {
				// Lost the race: someone else already moved the event on.
				return nil
			}
			return tx.Save(e).Error
		})
	}

	if !s.visibleTo(&event, actor) {
		return nil, ErrNotFound
	}
	return &event, nil
}

func (s *Service) visibleTo(event *models.Event, actor workflow.Actor) bool {
	switch event.Status {
	case models.StatusPublished, models.StatusCancelled, models.StatusCompleted:
		return true
	}
	return event.CreatedByID == actor.ID || actor.Role.CanApprove()
}

// ListPublished returns events currently open to browse.
func (s *Service) ListPublished() ([]models.Event, error) {
	var events []models.Event
	err := s.db.Preload("Location").
		Where("status = ?", models.StatusPublished).
		Order("starts_at asc").
		Find(&events).Error
	return events, err
}

// ListPendingApproval is the reviewer queue, oldest submission first.
func (s *Service) ListPendingApproval(actor workflow.Actor) ([]models.Event, error) {
	if !actor.Role.CanApprove() {
		return nil, workflow.ErrForbidden
	}
	var events []models.Event
	err := s.db.Preload("CreatedBy").
		Where("status = ?", models.StatusPendingApproval).
		Order("updated_at asc").
		Find(&events).Error
	return events, err
}

// ListMine returns every event the actor created, any status.
func (s *Service) ListMine(actor workflow.Actor) ([]models.Event, error) {
	var events []models.Event
	err := s.db.Where("created_by_id = ?", actor.ID).
		Order("created_at desc").
		Find(&events).Error
	return events, err
}

// Delete removes a draft or revision-requested event along with its
// registrations. The approval trail is kept: history rows are append-only
// even across deletion.
func (s *Service) Delete(actor workflow.Actor, eventID uint) error {
	_, err := s.withEvent(eventID, func(tx *gorm.DB, event *models.Event) error {
		if event.CreatedByID != actor.ID {
			return workflow.ErrForbidden
		}
		if !workflow.CanDelete(event) {
			return workflow.ErrInvalidTransition
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Registration{}).Error; err != nil {
			return err
		}
		return tx.Delete(event).Error
	})
	return err
}

// CompleteElapsed is the periodic sweep backing the time-based
// published-to-completed transition. The lazy path in Get covers reads
// between sweeps.
func (s *Service) CompleteElapsed(now time.Time) (int64, error) {
	res := s.db.Model(&models.Event{}).
		Where("status = ? AND starts_at <= ?", models.StatusPublished, now).
		Update("status", models.StatusCompleted)
	return res.RowsAffected, res.Error
}
