package handlers

import (
	"peerpay/internal/adapters/http/middleware"
	"peerpay/internal/core/services"
	"peerpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FeedHandler serves the friends feed
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// Feed returns friends' public transactions
// @Summary Friends feed
// @Tags Feed
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /feed [get]
func (h *FeedHandler) Feed(c *fiber.Ctx) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	feed, err := h.feedService.BuildFeed(c.Context(), caller.UserID)
	if err != nil {
		return writeError(c, err, "Failed to build feed")
	}

	return response.Success(c, "", feed)
}
