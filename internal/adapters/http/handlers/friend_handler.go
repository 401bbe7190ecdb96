package handlers

import (
	"context"

	"peerpay/internal/adapters/http/middleware"
	"peerpay/internal/core/services"
	"peerpay/internal/pkg/response"
	"peerpay/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// FriendHandler handles social graph endpoints
type FriendHandler struct {
	socialService *services.SocialService
}

// NewFriendHandler creates a new friend handler
func NewFriendHandler(socialService *services.SocialService) *FriendHandler {
	return &FriendHandler{socialService: socialService}
}

type friendAction func(ctx context.Context, actorID uuid.UUID, friendUsername string) error

// run binds the common body, checks the legacy userId and applies the action
func (h *FriendHandler) run(c *fiber.Ctx, action friendAction, message string) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	input, err := validate.BindAndValidate[services.FriendActionInput](c)
	if err != nil {
		return bindError(c, err)
	}
	if !matchesCaller(caller, input.UserID) {
		return response.Forbidden(c, "Forbidden")
	}

	if err := action(c.Context(), caller.UserID, input.FriendUsername); err != nil {
		return writeError(c, err, "Failed to update friend request")
	}

	return response.Success(c, message, nil)
}

// AddFriend sends a friend request
// @Summary Send friend request
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.FriendActionInput true "Friend"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/add-friend [post]
func (h *FriendHandler) AddFriend(c *fiber.Ctx) error {
	return h.run(c, h.socialService.SendFriendRequest, "Friend request sent successfully")
}

// AcceptFriendRequest accepts a pending friend request
// @Summary Accept friend request
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.FriendActionInput true "Friend"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/accept-friend-request [post]
func (h *FriendHandler) AcceptFriendRequest(c *fiber.Ctx) error {
	return h.run(c, h.socialService.AcceptFriendRequest, "Friend request accepted successfully")
}

// DeclineFriendRequest declines a pending friend request
// @Summary Decline friend request
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.FriendActionInput true "Friend"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/decline-friend-request [post]
func (h *FriendHandler) DeclineFriendRequest(c *fiber.Ctx) error {
	return h.run(c, h.socialService.DeclineFriendRequest, "Friend request declined successfully")
}

// CancelFriendRequest withdraws a sent friend request
// @Summary Cancel friend request
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.FriendActionInput true "Friend"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/cancel-friend-request [post]
func (h *FriendHandler) CancelFriendRequest(c *fiber.Ctx) error {
	return h.run(c, h.socialService.CancelFriendRequest, "Friend request canceled successfully")
}

// DeleteFriend removes a friend
// @Summary Remove friend
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.FriendActionInput true "Friend"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/delete-friend [post]
func (h *FriendHandler) DeleteFriend(c *fiber.Ctx) error {
	return h.run(c, h.socialService.DeleteFriend, "Friend successfully removed")
}

// FriendsInfo resolves display data for username lists
// @Summary Friends and requests details
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.FriendsInfoInput true "Username lists"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/friends-info [post]
func (h *FriendHandler) FriendsInfo(c *fiber.Ctx) error {
	input, err := validate.BindAndValidate[services.FriendsInfoInput](c)
	if err != nil {
		return bindError(c, err)
	}

	info, err := h.socialService.FriendsInfo(c.Context(), input)
	if err != nil {
		return writeError(c, err, "Failed to get friends info")
	}

	return response.Success(c, "", info)
}
