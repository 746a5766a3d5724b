package models

import (
	"testing"
	"time"
)

func validEvent() *Event {
	now := time.Now()
	return &Event{
		Title:             "Open Mic Night",
		StartsAt:          now.Add(96 * time.Hour),
		RegistrationStart: now,
		RegistrationEnd:   now.Add(72 * time.Hour),
	}
}

func TestEventValidate(t *testing.T) {
	if err := validEvent().Validate(); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}
}

func TestEventValidateDates(t *testing.T) {
	e := validEvent()
	e.RegistrationStart = e.RegistrationEnd
	if err := e.Validate(); err == nil {
		t.Error("registration start == end should be rejected")
	}

	e = validEvent()
	e.RegistrationEnd = e.StartsAt.Add(time.Hour)
	if err := e.Validate(); err == nil {
		t.Error("registration ending after event start should be rejected")
	}

	// Registration closing exactly at the event start is allowed
	e = validEvent()
	e.RegistrationEnd = e.StartsAt
	if err := e.Validate(); err != nil {
		t.Errorf("registration end == event start rejected: %v", err)
	}
}

func TestEventValidateCapacity(t *testing.T) {
	e := validEvent()
	zero := 0
	e.MaxAttendees = &zero
	if err := e.Validate(); err == nil {
		t.Error("max attendees of 0 should be rejected")
	}

	one := 1
	e.MaxAttendees = &one
	if err := e.Validate(); err != nil {
		t.Errorf("max attendees of 1 rejected: %v", err)
	}

	e.MaxAttendees = nil
	if err := e.Validate(); err != nil {
		t.Errorf("unlimited capacity rejected: %v", err)
	}
}

func TestEventValidateRequiredFields(t *testing.T) {
	e := validEvent()
	e.Title = ""
	if err := e.Validate(); err == nil {
		t.Error("missing title should be rejected")
	}

	e = validEvent()
	e.StartsAt = time.Time{}
	if err := e.Validate(); err == nil {
		t.Error("missing start should be rejected")
	}
}

func TestRoleCapabilities(t *testing.T) {
	cases := []struct {
		role            Role
		submitDraft     bool
		publishDirectly bool
		approve         bool
		manageUsers     bool
	}{
		{RoleUser, true, false, false, false},
		{RoleApprover, false, true, true, false},
		{RoleAdmin, false, true, true, true},
		{RoleSuperAdmin, false, true, true, true},
	}
	for _, c := range cases {
		if got := c.role.CanSubmitDraft(); got != c.submitDraft {
			t.Errorf("%s.CanSubmitDraft() = %v", c.role, got)
		}
		if got := c.role.CanPublishDirectly(); got != c.publishDirectly {
			t.Errorf("%s.CanPublishDirectly() = %v", c.role, got)
		}
		if got := c.role.CanApprove(); got != c.approve {
			t.Errorf("%s.CanApprove() = %v", c.role, got)
		}
		if got := c.role.CanManageUsers(); got != c.manageUsers {
			t.Errorf("%s.CanManageUsers() = %v", c.role, got)
		}
	}
}

func TestAllowsCategory(t *testing.T) {
	e := validEvent()
	if !e.AllowsCategory("anything") {
		t.Error("empty allow-list should allow any category")
	}

	e.AllowedCategories = []string{"student"}
	if !e.AllowsCategory("student") {
		t.Error("listed category should be allowed")
	}
	if e.AllowsCategory("staff") {
		t.Error("unlisted category should be refused")
	}
}
