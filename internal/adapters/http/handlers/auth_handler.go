package handlers

import (
	"peerpay/internal/adapters/http/middleware"
	"peerpay/internal/config"
	"peerpay/internal/core/services"
	"peerpay/internal/pkg/response"
	"peerpay/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, userService *services.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		cfg:         cfg,
	}
}

// Register handles user registration
// @Summary Register new user
// @Description Register a new user with a zero balance
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	input, err := validate.BindAndValidate[services.RegisterInput](c)
	if err != nil {
		return bindError(c, err)
	}

	result, err := h.authService.Register(c.Context(), input)
	if err != nil {
		return writeError(c, err, "Failed to register user")
	}

	h.setAuthCookie(c, result.Token)

	return response.Created(c, "User registered successfully", result)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	input, err := validate.BindAndValidate[services.LoginInput](c)
	if err != nil {
		return bindError(c, err)
	}

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		return writeError(c, err, "Failed to login")
	}

	h.setAuthCookie(c, result.Token)

	return response.Success(c, "Login successful", result)
}

// Me returns the current user document
// @Summary Get current user
// @Description Get the authenticated user's document
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	doc, err := h.userService.GetUser(c.Context(), caller.UserID, caller.UserID)
	if err != nil {
		return writeError(c, err, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": doc,
	})
}

// setAuthCookie sets the access token cookie
func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		MaxAge:   h.cfg.JWT.ExpiryHours * 60 * 60,
		Secure:   h.cfg.IsProd(),
		HTTPOnly: true,
		SameSite: "lax",
	})
}
