package handlers

import (
	"context"
	"time"

	"github.com/campuslab/campus-events-api/internal/auth"
	"github.com/campuslab/campus-events-api/internal/lifecycle"
	"github.com/campuslab/campus-events-api/internal/models"
	"gorm.io/gorm"
)

type EventHandler struct {
	db          *gorm.DB
	svc         *lifecycle.Service
	authHandler *auth.AuthHandler
}

func NewEventHandler(db *gorm.DB, svc *lifecycle.Service, authHandler *auth.AuthHandler) *EventHandler {
	return &EventHandler{db: db, svc: svc, authHandler: authHandler}
}

type EventBody struct {
	Title             string    `json:"title" doc:"Event title" required:"true"`
	Description       string    `json:"description" doc:"What the event is about"`
	LocationID        *uint     `json:"location_id,omitempty" doc:"Campus venue"`
	MaxAttendees      *int      `json:"max_attendees,omitempty" doc:"Seat limit; omit for unlimited"`
	AllowedCategories []string  `json:"allowed_categories,omitempty" doc:"User categories allowed to register; empty means everyone"`
	StartsAt          time.Time `json:"starts_at" doc:"Event start" required:"true"`
	RegistrationStart time.Time `json:"registration_start" doc:"When registration opens" required:"true"`
	RegistrationEnd   time.Time `json:"registration_end" doc:"When registration closes" required:"true"`
}

func (b EventBody) input() lifecycle.EventInput {
	return lifecycle.EventInput{
		Title:             b.Title,
		Description:       b.Description,
		LocationID:        b.LocationID,
		MaxAttendees:      b.MaxAttendees,
		AllowedCategories: b.AllowedCategories,
		StartsAt:          b.StartsAt,
		RegistrationStart: b.RegistrationStart,
		RegistrationEnd:   b.RegistrationEnd,
	}
}

type EventView struct {
	ID                uint               `json:"id"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	LocationID        *uint              `json:"location_id,omitempty"`
	MaxAttendees      *int               `json:"max_attendees,omitempty"`
	AllowedCategories []string           `json:"allowed_categories,omitempty"`
	StartsAt          time.Time          `json:"starts_at"`
	RegistrationStart time.Time          `json:"registration_start"`
	RegistrationEnd   time.Time          `json:"registration_end"`
	Status            models.EventStatus `json:"status"`
	RevisionComments  string             `json:"revision_comments,omitempty"`
	ApproverName      string             `json:"approver_name,omitempty"`
	CreatedByID       uint               `json:"created_by_id"`
	CurrentAttendees  int64              `json:"current_attendees"`
	WaitlistCount     int64              `json:"waitlist_count"`
	IsFull            bool               `json:"is_full"`
}

func (h *EventHandler) view(e models.Event) (EventView, error) {
	registered, waitlisted, err := h.svc.Counts(e.ID)
	if err != nil {
		return EventView{}, err
	}
	return EventView{
		ID:                e.ID,
		Title:             e.Title,
		Description:       e.Description,
		LocationID:        e.LocationID,
		MaxAttendees:      e.MaxAttendees,
		AllowedCategories: e.AllowedCategories,
		StartsAt:          e.StartsAt,
		RegistrationStart: e.RegistrationStart,
		RegistrationEnd:   e.RegistrationEnd,
		Status:            e.Status,
		RevisionComments:  e.RevisionComments,
		ApproverName:      e.ApproverName,
		CreatedByID:       e.CreatedByID,
		CurrentAttendees:  registered,
		WaitlistCount:     waitlisted,
		IsFull:            e.MaxAttendees != nil && registered >= int64(*e.MaxAttendees),
	}, nil
}

func (h *EventHandler) views(events []models.Event) ([]EventView, error) {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		v, err := h.view(e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type CreateEventRequest struct {
	auth.AuthInput
	Body EventBody
}

type EventResponse struct {
	Body EventView
}

func (h *EventHandler) HandleCreateEvent(ctx context.Context, input *CreateEventRequest) (*EventResponse, error) {
	actor, err := h.authHandler.Actor(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	event, err := h.svc.Create(actor, input.Body.input())
	if err != nil {
		return nil, engineError(err)
	}

	view, err := h.view(*event)
	if err != nil {
		return nil, engineError(err)
	}
	return &EventResponse{Body: view}, nil
}

type UpdateEventRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body EventBody
}

func (h *EventHandler) HandleUpdateEvent(ctx context.Context, input *UpdateEventRequest) (*EventResponse, error) {
	actor, err := h.authHandler.Actor(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	event, err := h.svc.Update(actor, input.ID, input.Body.input())
	if err != nil {
		return nil, engineError(err)
	}

	view, err := h.view(*event)
	if err != nil {
		return nil, engineError(err)
	}
	return &EventResponse{Body: view}, nil
}

type GetEventRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *EventHandler) HandleGetEvent(ctx context.Context, input *GetEventRequest) (*EventResponse, error) {
	actor, err := h.authHandler.Actor(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	event, err := h.svc.Get(actor, input.ID, time.Now())
	if err != nil {
		return nil, engineError(err)
	}

	view, err := h.view(*event)
	if err != nil {
		return nil, engineError(err)
	}
	return &EventResponse{Body: view}, nil
}

type ListEventsRequest struct {
	auth.AuthInput
	Scope string `query:"scope" enum:"published,mine,pending" default:"published" doc:"published = browsable events, mine = events you created, pending = approval queue"`
}

type ListEventsResponse struct {
	Body []EventView
}

func (h *EventHandler) HandleListEvents(ctx context.Context, input *ListEventsRequest) (*ListEventsResponse, error) {
	actor, err := h.authHandler.Actor(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var events []models.Event
	switch input.Scope {
	case "mine":
		events, err = h.svc.ListMine(actor)
	case "pending":
		events, err = h.svc.ListPendingApproval(actor)
	default:
		events, err = h.svc.ListPublished()
	}
	if err != nil {
		return nil, engineError(err)
	}

	views, err := h.views(events)
	if err != nil {
		return nil, engineError(err)
	}
	return &ListEventsResponse{Body: views}, nil
}

type EventActionRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *EventHandler) HandleSubmitEvent(ctx context.Context, input *EventActionRequest) (*EventResponse, error) {
	actor, err := h.authHandler.Actor(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	event, err := h.svc.Submit(actor, input.ID)
	if err != nil {
		return nil, engineError(err)
	}

	view, err := h.view(*event)
	if err != nil {
		return nil, engineError(err)
	}
	return &EventResponse{Body: view}, nil
}

func (h *EventHandler) HandleApproveEvent(ctx context.Context, input *EventActionRequest) (*EventResponse, error) {
	actor, err := h.authHandler.Actor(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	event, err := h.svc.Approve(actor, input.ID, time.Now())
	if err != nil {
		return nil, engineError(err)
	}

	view, err := h.view(*event)
	if err != nil {
		return nil, engineError(err)
	}
	return &EventResponse{Body: view}, nil
}

type RequestRevisionRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Comments string `json:"comments" doc:"What the creator must change" required:"true"`
	}
}

func (h *EventHandler) HandleRequestRevision(ctx context.Context, input *RequestRevisionRequest) (*EventResponse, error) {
	actor, err := h.authHandler.Actor(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	event, err := h.svc.RequestRevision(actor, input.ID, input.Body.Comments)
	if err != nil {
		return nil, engineError(err)
	}

	view, err := h.view(*event)
	if err != nil {
		return nil, engineError(err)
	}
	return &EventResponse{Body: view}, nil
}

func (h *EventHandler) HandlePublishEvent(ctx context.Context, input *EventActionRequest) (*EventResponse, error) {
	actor, err := h.authHandler.Actor(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	event, err := h.svc.Publish(actor, input.ID, time.Now())
	if err != nil {
		return nil, engineError(err)
	}

	view, err := h.view(*event)
	if err != nil {
		return nil, engineError(err)
	}
	return &EventResponse{Body: view}, nil
}

func (h *EventHandler) HandleCancelEvent(ctx context.Context, input *EventActionRequest) (*EventResponse, error) {
	actor, err := h.authHandler.Actor(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	event, err := h.svc.Cancel(actor, input.ID)
	if err != nil {
		return nil, engineError(err)
	}

	view, err := h.view(*event)
	if err != nil {
		return nil, engineError(err)
	}
	return &EventResponse{Body: view}, nil
}

func (h *EventHandler) HandleDeleteEvent(ctx context.Context, input *EventActionRequest) (*struct{}, error) {
	actor, err := h.authHandler.Actor(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	if err := h.svc.Delete(actor, input.ID); err != nil {
		return nil, engineError(err)
	}
	return nil, nil
}

type HistoryEntryView struct {
	Action        models.HistoryAction `json:"action"`
	StatusBefore  models.EventStatus   `json:"status_before"`
	StatusAfter   models.EventStatus   `json:"status_after"`
	PerformerName string               `json:"performer_name"`
	Comments      string               `json:"comments,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

type EventHistoryResponse struct {
	Body []HistoryEntryView
}

func (h *EventHandler) HandleEventHistory(ctx context.Context, input *EventActionRequest) (*EventHistoryResponse, error) {
	actor, err := h.authHandler.Actor(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	entries, err := h.svc.History(actor, input.ID)
	if err != nil {
		return nil, engineError(err)
	}

	views := make([]HistoryEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, HistoryEntryView{
			Action:        e.Action,
			StatusBefore:  e.StatusBefore,
			StatusAfter:   e.StatusAfter,
			PerformerName: e.PerformerName,
			Comments:      e.Comments,
			CreatedAt:     e.CreatedAt,
		})
	}
	return &EventHistoryResponse{Body: views}, nil
}
