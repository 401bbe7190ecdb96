package handlers

import (
	"peerpay/internal/adapters/http/middleware"
	"peerpay/internal/core/services"
	"peerpay/internal/pkg/response"
	"peerpay/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UserHandler handles user document and lookup endpoints
type UserHandler struct {
	userService   *services.UserService
	ledgerService *services.LedgerService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, ledgerService *services.LedgerService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		ledgerService: ledgerService,
	}
}

// RemoveCardRequest represents remove card request body
type RemoveCardRequest struct {
	UserID     string `json:"userId"`
	CardNumber string `json:"cardNumber" validate:"required"`
}

// GetUser returns the caller's own user document
// @Summary Get user document
// @Description Profile, balance, cards, friends, requests and transactions. Only the owner may read it.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil || id != caller.UserID {
		return response.Forbidden(c, "Forbidden")
	}

	doc, err := h.userService.GetUser(c.Context(), caller.UserID, id)
	if err != nil {
		return writeError(c, err, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", doc)
}

// GetUsername resolves a user id to its username
// @Summary Get username by id
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/username/{id} [get]
func (h *UserHandler) GetUsername(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	username, err := h.userService.UsernameByID(c.Context(), id)
	if err != nil {
		return writeError(c, err, "Failed to get username")
	}

	return response.Success(c, "", fiber.Map{"username": username})
}

// UsernameInfo returns the public profile of a payment recipient
// @Summary Get recipient info
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UsernameInfoInput true "Username"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/username-info [post]
func (h *UserHandler) UsernameInfo(c *fiber.Ctx) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	input, err := validate.BindAndValidate[services.UsernameInfoInput](c)
	if err != nil {
		return bindError(c, err)
	}

	info, err := h.userService.UsernameInfo(c.Context(), caller, input.Username)
	if err != nil {
		return writeError(c, err, "Failed to get user info")
	}

	return response.Success(c, "", info)
}

// RemoveCard deletes a saved card
// @Summary Remove saved card
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RemoveCardRequest true "Card"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/remove-card [post]
func (h *UserHandler) RemoveCard(c *fiber.Ctx) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	req, err := validate.BindAndValidate[RemoveCardRequest](c)
	if err != nil {
		return bindError(c, err)
	}
	if !matchesCaller(caller, req.UserID) {
		return response.Forbidden(c, "Forbidden")
	}

	if err := h.ledgerService.RemoveCard(c.Context(), caller.UserID, req.CardNumber); err != nil {
		return writeError(c, err, "Failed to remove card")
	}

	return response.Success(c, "Card removed successfully", nil)
}
