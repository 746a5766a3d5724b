package lifecycle

import (
	"errors"
	"time"

	"github.com/campuslab/campus-events-api/internal/models"
	"github.com/campuslab/campus-events-api/internal/notifier"
	"github.com/campuslab/campus-events-api/internal/workflow"
	"gorm.io/gorm"
)

// Submit puts the actor's event into the approval queue and tells the
// reviewers' channel about it.
func (s *Service) Submit(actor workflow.Actor, eventID uint) (*models.Event, error) {
	event, err := s.withEvent(eventID, func(tx *gorm.DB, event *models.Event) error {
		hist, err := workflow.Submit(event, actor)
		if err != nil {
			return err
		}
		if err := tx.Save(event).Error; err != nil {
			return err
		}
		return tx.Create(hist).Error
	})
	if err != nil {
		return nil, err
	}
	s.dispatch(notifier.KindEventSubmitted, nil, *event, "submitted by "+actor.Name)
	return event, nil
}

// Approve publishes a pending event and notifies its creator.
func (s *Service) Approve(actor workflow.Actor, eventID uint, now time.Time) (*models.Event, error) {
	event, err := s.withEvent(eventID, func(tx *gorm.DB, event *models.Event) error {
		hist, err := workflow.Approve(event, actor, now)
		if err != nil {
			return err
		}
		if err := tx.Save(event).Error; err != nil {
			return err
		}
		return tx.Create(hist).Error
	})
	if err != nil {
		return nil, err
	}
	s.dispatch(notifier.KindEventApproved, []models.User{event.CreatedBy}, *event, "approved by "+actor.Name)
	return event, nil
}

// RequestRevision sends a pending event back to its creator with the
// reviewer's comments.
func (s *Service) RequestRevision(actor workflow.Actor, eventID uint, comments string) (*models.Event, error) {
	event, err := s.withEvent(eventID, func(tx *gorm.DB, event *models.Event) error {
		hist, err := workflow.RequestRevision(event, actor, comments)
		if err != nil {
			return err
		}
		if err := tx.Save(event).Error; err != nil {
			return err
		}
		return tx.Create(hist).Error
	})
	if err != nil {
		return nil, err
	}
	s.dispatch(notifier.KindRevisionRequested, []models.User{event.CreatedBy}, *event, comments)
	return event, nil
}

// Publish is the direct draft-to-published path for creators holding a
// reviewer role.
func (s *Service) Publish(actor workflow.Actor, eventID uint, now time.Time) (*models.Event, error) {
	return s.withEvent(eventID, func(tx *gorm.DB, event *models.Event) error {
		hist, err := workflow.Publish(event, actor, now)
		if err != nil {
			return err
		}
		if err := tx.Save(event).Error; err != nil {
			return err
		}
		return tx.Create(hist).Error
	})
}

// Cancel withdraws a published event and notifies everyone holding a
// registered (not waitlisted) spot.
func (s *Service) Cancel(actor workflow.Actor, eventID uint) (*models.Event, error) {
	var recipients []models.User
	event, err := s.withEvent(eventID, func(tx *gorm.DB, event *models.Event) error {
		if err := workflow.Cancel(event, actor); err != nil {
			return err
		}
		var regs []models.Registration
		if err := tx.Preload("User").
			Where("event_id = ? AND status = ?", event.ID, models.Registered).
			Find(&regs).Error; err != nil {
			return err
		}
		for _, r := range regs {
			recipients = append(recipients, r.User)
		}
		return tx.Save(event).Error
	})
	if err != nil {
		return nil, err
	}
	s.dispatch(notifier.KindEventCancelled, recipients, *event, "")
	return event, nil
}

// History returns the approval trail in commit order. Visible to the
// creator and to reviewers; attendees have no business reading it.
func (s *Service) History(actor workflow.Actor, eventID uint) ([]models.ApprovalHistory, error) {
	var event models.Event
	err := s.db.First(&event, eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if event.CreatedByID != actor.ID && !actor.Role.CanApprove() {
		return nil, workflow.ErrForbidden
	}

	var entries []models.ApprovalHistory
	err = s.db.Where("event_id = ?", eventID).
		Order("created_at asc, id asc").
		Find(&entries).Error
	return entries, err
}
