package handlers

import (
	"context"

	"github.com/campuslab/campus-events-api/internal/auth"
	"github.com/campuslab/campus-events-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type LocationHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewLocationHandler(db *gorm.DB, authHandler *auth.AuthHandler) *LocationHandler {
	return &LocationHandler{db: db, authHandler: authHandler}
}

type LocationView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Building string `json:"building"`
	Room     string `json:"room"`
	Capacity int    `json:"capacity"`
}

type ListLocationsRequest struct {
	auth.AuthInput
}

type ListLocationsResponse struct {
	Body []LocationView
}

func (h *LocationHandler) HandleListLocations(ctx context.Context, input *ListLocationsRequest) (*ListLocationsResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	var locations []models.Location
	if err := h.db.Order("building asc, room asc").Find(&locations).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list locations")
	}

	views := make([]LocationView, 0, len(locations))
	for _, l := range locations {
		views = append(views, LocationView{
			ID:       l.ID,
			Name:     l.Name,
			Building: l.Building,
			Room:     l.Room,
			Capacity: l.Capacity,
		})
	}
	return &ListLocationsResponse{Body: views}, nil
}

type CreateLocationRequest struct {
	auth.AuthInput
	Body struct {
		Name     string `json:"name" required:"true"`
		Building string `json:"building"`
		Room     string `json:"room"`
		Capacity int    `json:"capacity"`
	}
}

type CreateLocationResponse struct {
	Body LocationView
}

func (h *LocationHandler) HandleCreateLocation(ctx context.Context, input *CreateLocationRequest) (*CreateLocationResponse, error) {
	actor, err := h.authHandler.Actor(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanManageUsers() {
		return nil, huma.Error403Forbidden("Access denied: admin role required")
	}

	location := models.Location{
		Name:     input.Body.Name,
		Building: input.Body.Building,
		Room:     input.Body.Room,
		Capacity: input.Body.Capacity,
	}
	if err := h.db.Create(&location).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create location")
	}

	return &CreateLocationResponse{Body: LocationView{
		ID:       location.ID,
		Name:     location.Name,
		Building: location.Building,
		Room:     location.Room,
		Capacity: location.Capacity,
	}}, nil
}
