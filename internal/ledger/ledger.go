// Package ledger owns registration rows and the capacity bookkeeping around
// them. All functions take the caller's transaction handle: the lifecycle
// service wraps each join/leave in a per-event lock plus a gorm transaction,
// so the capacity check and the insert it guards commit together.
package ledger

import (
	"errors"
	"time"

	"github.com/campuslab/campus-events-api/internal/models"
	"github.com/campuslab/campus-events-api/internal/policy"
	"gorm.io/gorm"
)

var ErrNotRegistered = errors.New("no active registration for this event")

// Active returns the user's non-cancelled registration for the event, or
// nil when there is none. Cancelled rows are terminal and invisible here.
func Active(tx *gorm.DB, eventID, userID uint) (*models.Registration, error) {
	var reg models.Registration
	err := tx.Where("event_id = ? AND user_id = ? AND status <> ?", eventID, userID, models.Cancelled).
		First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// CountByStatus is the aggregate the capacity check and the API's
// current-attendees field are built on.
func CountByStatus(tx *gorm.DB, eventID uint, status models.RegistrationStatus) (int64, error) {
	var count int64
	err := tx.Model(&models.Registration{}).
		Where("event_id = ? AND status = ?", eventID, status).
		Count(&count).Error
	return count, err
}

// Join registers the user for the event, waitlisting them when the event is
// at capacity. Eligibility is evaluated first; capacity only decides
// registered versus waitlisted, it never refuses anyone.
func Join(tx *gorm.DB, event *models.Event, user models.User, now time.Time) (*models.Registration, error) {
	existing, err := Active(tx, event.ID, user.ID)
	if err != nil {
		return nil, err
	}
	candidate := policy.Candidate{UserID: user.ID, Category: user.Category}
	if err := policy.Evaluate(event, candidate, existing != nil, now); err != nil {
		return nil, err
	}

	status := models.Registered
	if event.MaxAttendees != nil {
		registered, err := CountByStatus(tx, event.ID, models.Registered)
		if err != nil {
			return nil, err
		}
		if registered >= int64(*event.MaxAttendees) {
			status = models.Waitlisted
		}
	}

	reg := models.Registration{
		EventID:          event.ID,
		UserID:           user.ID,
		Status:           status,
		RegistrationDate: now,
	}
	if err := tx.Create(&reg).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

// Leave cancels the user's active registration. When a registered (not
// waitlisted) attendee leaves, the freed slot goes to the earliest-waiting
// waitlisted registration; ordering is registration date with row id as the
// tiebreak, so promotion is deterministic. The promoted registration is
// returned so the caller can notify the user, nil when nobody was promoted.
func Leave(tx *gorm.DB, event *models.Event, userID uint) (cancelled, promoted *models.Registration, err error) {
	reg, err := Active(tx, event.ID, userID)
	if err != nil {
		return nil, nil, err
	}
	if reg == nil {
		return nil, nil, ErrNotRegistered
	}

	freedSlot := reg.Status == models.Registered
	reg.Status = models.Cancelled
	if err := tx.Save(reg).Error; err != nil {
		return nil, nil, err
	}

	if freedSlot {
		promoted, err = promoteNext(tx, event)
		if err != nil {
			return nil, nil, err
		}
	}
	return reg, promoted, nil
}

func promoteNext(tx *gorm.DB, event *models.Event) (*models.Registration, error) {
	if event.MaxAttendees != nil {
		registered, err := CountByStatus(tx, event.ID, models.Registered)
		if err != nil {
			return nil, err
		}
		if registered >= int64(*event.MaxAttendees) {
			return nil, nil
		}
	}

	var next models.Registration
	err := tx.Where("event_id = ? AND status = ?", event.ID, models.Waitlisted).
		Order("registration_date asc, id asc").
		First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	next.Status = models.Registered
	if err := tx.Save(&next).Error; err != nil {
		return nil, err
	}
	return &next, nil
}
