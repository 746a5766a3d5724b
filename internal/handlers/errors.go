package handlers

import (
	"errors"

	"github.com/campuslab/campus-events-api/internal/ledger"
	"github.com/campuslab/campus-events-api/internal/lifecycle"
	"github.com/campuslab/campus-events-api/internal/models"
	"github.com/campuslab/campus-events-api/internal/policy"
	"github.com/campuslab/campus-events-api/internal/workflow"
	"github.com/danielgtaylor/huma/v2"
)

// engineError maps the engine's error taxonomy onto HTTP statuses. Huma
// errors pass through untouched so auth failures keep their 401.
func engineError(err error) error {
	var statusErr huma.StatusError
	if errors.As(err, &statusErr) {
		return err
	}

	var validationErr *models.ValidationError
	var ineligibleErr *policy.IneligibleError
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, workflow.ErrForbidden):
		return huma.Error403Forbidden("You are not allowed to do that")
	case errors.Is(err, workflow.ErrInvalidTransition):
		return huma.Error400BadRequest("The event's status does not allow this action")
	case errors.Is(err, ledger.ErrNotRegistered):
		return huma.Error400BadRequest(err.Error())
	case errors.As(err, &validationErr):
		return huma.Error400BadRequest(validationErr.Msg)
	case errors.As(err, &ineligibleErr):
		return huma.Error400BadRequest(ineligibleErr.Error())
	}
	return huma.Error500InternalServerError("Internal error: " + err.Error())
}
