package policy

import (
	"errors"
	"testing"
	"time"

	"github.com/campuslab/campus-events-api/internal/models"
)

func publishedEvent() *models.Event {
	now := time.Now()
	return &models.Event{
		Title:             "Robotics Club Demo Night",
		Status:            models.StatusPublished,
		StartsAt:          now.Add(72 * time.Hour),
		RegistrationStart: now.Add(-24 * time.Hour),
		RegistrationEnd:   now.Add(48 * time.Hour),
	}
}

func reasonOf(t *testing.T, err error) Reason {
	t.Helper()
	var ineligible *IneligibleError
	if !errors.As(err, &ineligible) {
		t.Fatalf("expected IneligibleError, got %v", err)
	}
	return ineligible.Reason
}

func TestEvaluateEligible(t *testing.T) {
	event := publishedEvent()
	err := Evaluate(event, Candidate{UserID: 1, Category: "student"}, false, time.Now())
	if err != nil {
		t.Fatalf("expected eligible, got %v", err)
	}
}

func TestEvaluateNotPublished(t *testing.T) {
	for _, status := range []models.EventStatus{
		models.StatusDraft,
		models.StatusPendingApproval,
		models.StatusRevisionRequested,
		models.StatusCancelled,
		models.StatusCompleted,
	} {
		event := publishedEvent()
		event.Status = status
		err := Evaluate(event, Candidate{UserID: 1}, false, time.Now())
		if got := reasonOf(t, err); got != ReasonEventNotPublished {
			t.Errorf("status %s: expected %s, got %s", status, ReasonEventNotPublished, got)
		}
	}
}

func TestEvaluateRegistrationWindow(t *testing.T) {
	event := publishedEvent()

	early := event.RegistrationStart.Add(-time.Hour)
	err := Evaluate(event, Candidate{UserID: 1}, false, early)
	if got := reasonOf(t, err); got != ReasonRegistrationNotOpen {
		t.Errorf("before window: expected %s, got %s", ReasonRegistrationNotOpen, got)
	}

	late := event.RegistrationEnd.Add(time.Hour)
	err = Evaluate(event, Candidate{UserID: 1}, false, late)
	if got := reasonOf(t, err); got != ReasonRegistrationClosed {
		t.Errorf("after window: expected %s, got %s", ReasonRegistrationClosed, got)
	}

	// Boundary instants are inclusive on both ends
	if err := Evaluate(event, Candidate{UserID: 1}, false, event.RegistrationStart); err != nil {
		t.Errorf("at registration start: expected eligible, got %v", err)
	}
	if err := Evaluate(event, Candidate{UserID: 1}, false, event.RegistrationEnd); err != nil {
		t.Errorf("at registration end: expected eligible, got %v", err)
	}
}

func TestEvaluateCategories(t *testing.T) {
	event := publishedEvent()
	event.AllowedCategories = []string{"student", "faculty"}

	err := Evaluate(event, Candidate{UserID: 1, Category: "staff"}, false, time.Now())
	if got := reasonOf(t, err); got != ReasonCategoryNotAllowed {
		t.Errorf("expected %s, got %s", ReasonCategoryNotAllowed, got)
	}

	if err := Evaluate(event, Candidate{UserID: 1, Category: "faculty"}, false, time.Now()); err != nil {
		t.Errorf("allowed category: expected eligible, got %v", err)
	}

	// Empty allow-list means unrestricted
	event.AllowedCategories = nil
	if err := Evaluate(event, Candidate{UserID: 1, Category: "staff"}, false, time.Now()); err != nil {
		t.Errorf("unrestricted event: expected eligible, got %v", err)
	}
}

func TestEvaluateAlreadyRegistered(t *testing.T) {
	event := publishedEvent()
	err := Evaluate(event, Candidate{UserID: 1, Category: "student"}, true, time.Now())
	if got := reasonOf(t, err); got != ReasonAlreadyRegistered {
		t.Errorf("expected %s, got %s", ReasonAlreadyRegistered, got)
	}
}

func TestEvaluateReasonOrder(t *testing.T) {
	// Multiple rules fail at once; the first check in order wins.
	event := publishedEvent()
	event.Status = models.StatusDraft
	event.AllowedCategories = []string{"faculty"}

	err := Evaluate(event, Candidate{UserID: 1, Category: "student"}, true, event.RegistrationEnd.Add(time.Hour))
	if got := reasonOf(t, err); got != ReasonEventNotPublished {
		t.Errorf("expected %s to win, got %s", ReasonEventNotPublished, got)
	}
}

func TestEvaluateMalformedInput(t *testing.T) {
	var validationErr *models.ValidationError

	err := Evaluate(nil, Candidate{UserID: 1}, false, time.Now())
	if !errors.As(err, &validationErr) {
		t.Errorf("nil event: expected ValidationError, got %v", err)
	}

	err = Evaluate(publishedEvent(), Candidate{}, false, time.Now())
	if !errors.As(err, &validationErr) {
		t.Errorf("zero user: expected ValidationError, got %v", err)
	}
}
