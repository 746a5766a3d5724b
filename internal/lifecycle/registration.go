package lifecycle

import (
	"errors"
	"time"

	"github.com/campuslab/campus-events-api/internal/ledger"
	"github.com/campuslab/campus-events-api/internal/models"
	"github.com/campuslab/campus-events-api/internal/notifier"
	"github.com/campuslab/campus-events-api/internal/workflow"
	"gorm.io/gorm"
)

// Join registers the actor for the event. The returned registration's
// status tells the caller whether they got a seat or a waitlist place.
func (s *Service) Join(actor workflow.Actor, eventID uint, now time.Time) (*models.Registration, error) {
	var reg *models.Registration
	_, err := s.withEvent(eventID, func(tx *gorm.DB, event *models.Event) error {
		var user models.User
		if err := tx.First(&user, actor.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var err error
		reg, err = ledger.Join(tx, event, user, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Leave cancels the actor's registration. When that frees a seat the
// earliest waitlisted user is promoted and notified.
func (s *Service) Leave(actor workflow.Actor, eventID uint) (*models.Registration, error) {
	var cancelled *models.Registration
	var promotedUser *models.User
	event, err := s.withEvent(eventID, func(tx *gorm.DB, event *models.Event) error {
		var promoted *models.Registration
		var err error
		cancelled, promoted, err = ledger.Leave(tx, event, actor.ID)
		if err != nil {
			return err
		}
		if promoted != nil {
			var user models.User
			if err := tx.First(&user, promoted.UserID).Error; err != nil {
				return err
			}
			promotedUser = &user
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if promotedUser != nil {
		s.dispatch(notifier.KindWaitlistPromoted, []models.User{*promotedUser}, *event, "")
	}
	return cancelled, nil
}

// Attendees returns the event's non-cancelled registrations, seated first,
// each group in registration order.
func (s *Service) Attendees(actor workflow.Actor, eventID uint) ([]models.Registration, error) {
	event, err := s.Get(actor, eventID, time.Now())
	if err != nil {
		return nil, err
	}

	var regs []models.Registration
	err = s.db.Preload("User").
		Where("event_id = ? AND status <> ?", event.ID, models.Cancelled).
		Order("status asc, registration_date asc, id asc").
		Find(&regs).Error
	return regs, err
}

// MyRegistrations returns the actor's non-cancelled registrations with the
// events attached, soonest event first.
func (s *Service) MyRegistrations(actor workflow.Actor) ([]models.Registration, error) {
	var regs []models.Registration
	err := s.db.
		Joins("JOIN events ON events.id = registrations.event_id AND events.deleted_at IS NULL").
		Where("registrations.user_id = ? AND registrations.status <> ?", actor.ID, models.Cancelled).
		Order("events.starts_at asc").
		Find(&regs).Error
	return regs, err
}

// Counts reports seated and waitlisted totals for an event, feeding the
// API's current_attendees and is_full fields.
func (s *Service) Counts(eventID uint) (registered, waitlisted int64, err error) {
	registered, err = ledger.CountByStatus(s.db, eventID, models.Registered)
	if err != nil {
		return 0, 0, err
	}
	waitlisted, err = ledger.CountByStatus(s.db, eventID, models.Waitlisted)
	return registered, waitlisted, err
}
