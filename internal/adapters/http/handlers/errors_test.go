package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"peerpay/internal/core/domain"
	"peerpay/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{validate.ErrInvalidBody, http.StatusBadRequest},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{fmt.Errorf("%w: password too short", domain.ErrInvalidInput), http.StatusBadRequest},
		{domain.ErrInsufficientBalance, http.StatusBadRequest},
		{domain.ErrAlreadyFriends, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrRecipientNotFound, http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return writeError(c, tt.err, "fallback")
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestMatchesCaller(t *testing.T) {
	caller := &domain.Identity{UserID: uuid.New()}

	assert.True(t, matchesCaller(caller, ""))
	assert.True(t, matchesCaller(caller, caller.UserID.String()))
	assert.False(t, matchesCaller(caller, uuid.NewString()))
	assert.False(t, matchesCaller(caller, "not-a-uuid"))
}
