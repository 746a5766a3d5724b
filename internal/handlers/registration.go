package handlers

import (
	"context"
	"time"

	"github.com/campuslab/campus-events-api/internal/auth"
	"github.com/campuslab/campus-events-api/internal/lifecycle"
	"github.com/campuslab/campus-events-api/internal/models"
)

type RegistrationHandler struct {
	svc         *lifecycle.Service
	authHandler *auth.AuthHandler
}

func NewRegistrationHandler(svc *lifecycle.Service, authHandler *auth.AuthHandler) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, authHandler: authHandler}
}

type JoinEventRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type RegistrationView struct {
	EventID          uint                      `json:"event_id"`
	Status           models.RegistrationStatus `json:"status"`
	RegistrationDate time.Time                 `json:"registration_date"`
	Username         string                    `json:"username,omitempty"`
}

type JoinEventResponse struct {
	Body struct {
		Registration RegistrationView `json:"registration"`
		Message      string           `json:"message"`
	}
}

func (h *RegistrationHandler) HandleJoinEvent(ctx context.Context, input *JoinEventRequest) (*JoinEventResponse, error) {
	actor, err := h.authHandler.Actor(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	reg, err := h.svc.Join(actor, input.ID, time.Now())
	if err != nil {
		return nil, engineError(err)
	}

	res := &JoinEventResponse{}
	res.Body.Registration = RegistrationView{
		EventID:          reg.EventID,
		Status:           reg.Status,
		RegistrationDate: reg.RegistrationDate,
	}
	if reg.Status == models.Waitlisted {
		res.Body.Message = "The event is full, you have been added to the waitlist"
	} else {
		res.Body.Message = "You are registered"
	}
	return res, nil
}

type LeaveEventRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type LeaveEventResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *RegistrationHandler) HandleLeaveEvent(ctx context.Context, input *LeaveEventRequest) (*LeaveEventResponse, error) {
	actor, err := h.authHandler.Actor(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	if _, err := h.svc.Leave(actor, input.ID); err != nil {
		return nil, engineError(err)
	}

	res := &LeaveEventResponse{}
	res.Body.Message = "Your registration was cancelled"
	return res, nil
}

type MyRegistrationsRequest struct {
	auth.AuthInput
}

type MyRegistrationsResponse struct {
	Body []RegistrationView
}

func (h *RegistrationHandler) HandleMyRegistrations(ctx context.Context, input *MyRegistrationsRequest) (*MyRegistrationsResponse, error) {
	actor, err := h.authHandler.Actor(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	regs, err := h.svc.MyRegistrations(actor)
	if err != nil {
		return nil, engineError(err)
	}

	views := make([]RegistrationView, 0, len(regs))
	for _, r := range regs {
		views = append(views, RegistrationView{
			EventID:          r.EventID,
			Status:           r.Status,
			RegistrationDate: r.RegistrationDate,
		})
	}
	return &MyRegistrationsResponse{Body: views}, nil
}

type EventAttendeesRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type EventAttendeesResponse struct {
	Body []RegistrationView
}

func (h *RegistrationHandler) HandleEventAttendees(ctx context.Context, input *EventAttendeesRequest) (*EventAttendeesResponse, error) {
	actor, err := h.authHandler.Actor(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	regs, err := h.svc.Attendees(actor, input.ID)
	if err != nil {
		return nil, engineError(err)
	}

	views := make([]RegistrationView, 0, len(regs))
	for _, r := range regs {
		views = append(views, RegistrationView{
			EventID:          r.EventID,
			Status:           r.Status,
			RegistrationDate: r.RegistrationDate,
			Username:         r.User.Username,
		})
	}
	return &EventAttendeesResponse{Body: views}, nil
}
