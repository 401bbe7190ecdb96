package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		state   RelationState
		action  RelationAction
		want    RelationState
		wantErr error
	}{
		{RelationNone, ActionSend, RelationSent, nil},
		{RelationSent, ActionSend, RelationSent, ErrAlreadySent},
		{RelationReceived, ActionSend, RelationReceived, ErrAlreadyReceived},
		{RelationFriends, ActionSend, RelationFriends, ErrAlreadyFriends},

		{RelationReceived, ActionAccept, RelationFriends, nil},
		{RelationNone, ActionAccept, RelationNone, ErrNoPendingRequest},
		{RelationSent, ActionAccept, RelationSent, ErrNoPendingRequest},

		{RelationReceived, ActionDecline, RelationNone, nil},
		{RelationSent, ActionDecline, RelationSent, ErrNoPendingRequest},

		{RelationSent, ActionCancel, RelationNone, nil},
		{RelationReceived, ActionCancel, RelationReceived, ErrNoPendingRequest},

		{RelationFriends, ActionUnfriend, RelationNone, nil},
		{RelationSent, ActionUnfriend, RelationNone, nil},
		{RelationReceived, ActionUnfriend, RelationNone, nil},
		{RelationNone, ActionUnfriend, RelationNone, ErrNotFriends},

		{RelationNone, RelationAction("poke"), RelationNone, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.state, tt.action), func(t *testing.T) {
			got, err := Transition(tt.state, tt.action)
			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCardInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		card    CardInput
		wantErr error
	}{
		{"valid", CardInput{CardNumber: "4111111111111111", ExpirationMonth: 6, ExpirationYear: 25}, nil},
		{"valid later year", CardInput{CardNumber: "4111111111111111", ExpirationMonth: 1, ExpirationYear: 27}, nil},
		{"missing number", CardInput{ExpirationMonth: 6, ExpirationYear: 26}, ErrInvalidInput},
		{"month zero", CardInput{CardNumber: "4111", ExpirationMonth: 0, ExpirationYear: 26}, ErrInvalidCardMonth},
		{"month thirteen", CardInput{CardNumber: "4111", ExpirationMonth: 13, ExpirationYear: 26}, ErrInvalidCardMonth},
		{"past year", CardInput{CardNumber: "4111", ExpirationMonth: 12, ExpirationYear: 24}, ErrInvalidCardYear},
		{"may 2025", CardInput{CardNumber: "4111", ExpirationMonth: 5, ExpirationYear: 25}, ErrCardExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.card.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(ErrInvalidAmount))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("debit: %w", ErrInsufficientBalance)))
	assert.Equal(t, KindNotFound, KindOf(ErrRecipientNotFound))
	assert.Equal(t, KindForbidden, KindOf(ErrForbidden))
	assert.Equal(t, KindConsistency, KindOf(ErrConsistency))
	assert.Equal(t, KindInternal, KindOf(fmt.Errorf("boom")))
}

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "**** 1111", MaskCardNumber("4111111111111111"))
	assert.Equal(t, "**** 12", MaskCardNumber("12"))
}
