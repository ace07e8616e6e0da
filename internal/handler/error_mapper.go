package handler

import (
	"errors"

	"github.com/lacupula/imperium/internal/evidence"
	"github.com/lacupula/imperium/internal/model"
	"github.com/lacupula/imperium/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSessionInvalid):
		return model.NewUnauthorizedError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrInsufficientRank),
		errors.Is(err, service.ErrPostNotAllowed):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrGuildNotFound):
		return model.NewNotFoundError("guild")
	case errors.Is(err, service.ErrApplicationNotFound):
		return model.NewNotFoundError("application")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrGuildNameExists),
		errors.Is(err, service.ErrAlreadyAffiliated),
		errors.Is(err, service.ErrDuplicateApplication):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "credentials", Message: err.Error()}})

	case errors.Is(err, service.ErrGuildNameRequired),
		errors.Is(err, service.ErrGuildNameTooLong),
		errors.Is(err, service.ErrGuildDescTooLong),
		errors.Is(err, service.ErrMissionTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "guild", Message: err.Error()}})

	case errors.Is(err, service.ErrEvidenceRequired):
		return model.NewValidationError([]model.FieldError{{Field: "evidence", Message: err.Error()}})

	case errors.Is(err, service.ErrInvalidDecision):
		return model.NewValidationError([]model.FieldError{{Field: "decision", Message: err.Error()}})

	case errors.Is(err, service.ErrNewsTitleRequired),
		errors.Is(err, service.ErrNewsTitleTooLong),
		errors.Is(err, service.ErrNewsContentRequired),
		errors.Is(err, service.ErrNewsContentTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "news", Message: err.Error()}})

	// State errors → 422
	case errors.Is(err, service.ErrGuildHasNoRanks):
		return model.NewValidationError([]model.FieldError{{Field: "state", Message: err.Error()}})

	// ===== Upload Errors → 400/413 =====
	case errors.Is(err, evidence.ErrTooLarge):
		return &model.ProblemDetails{
			Type:   "https://imperium.lacupula.dev/errors/payload-too-large",
			Title:  "Payload Too Large",
			Status: 413,
			Detail: err.Error(),
		}

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}
