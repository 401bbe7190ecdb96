package handlers

import (
	"errors"
	"log"

	"peerpay/internal/core/domain"
	"peerpay/internal/pkg/response"
	"peerpay/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// writeError maps a service error to its status and envelope
func writeError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, validate.ErrInvalidBody) {
		return response.BadRequest(c, "Invalid request body")
	}

	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindConflict:
		return response.BadRequest(c, err.Error())
	case domain.KindUnauthorized:
		return response.Unauthorized(c, err.Error())
	case domain.KindForbidden:
		return response.Forbidden(c, "Forbidden")
	case domain.KindNotFound:
		return response.NotFound(c, err.Error())
	}

	log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	return response.InternalServerError(c, fallback)
}

// bindError reports a body that failed to parse or validate
func bindError(c *fiber.Ctx, err error) error {
	if errors.Is(err, validate.ErrInvalidBody) {
		return response.BadRequest(c, "Invalid request body")
	}
	return response.BadRequest(c, err.Error())
}

// matchesCaller checks a legacy userId body field against the token.
// An empty field is accepted.
func matchesCaller(caller *domain.Identity, bodyUserID string) bool {
	if bodyUserID == "" {
		return true
	}
	id, err := uuid.Parse(bodyUserID)
	return err == nil && id == caller.UserID
}
