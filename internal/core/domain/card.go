package domain

import "strings"

// Card expiry dates are two-digit years; nothing before June 2025 is accepted.
const (
	minCardYear  = 25
	minCardMonth = 6
)

// CardInput is a card payload attached to a deposit or withdrawal
type CardInput struct {
	CardNumber      string `json:"cardNumber"`
	ExpirationMonth int    `json:"expirationMonth"`
	ExpirationYear  int    `json:"expirationYear"`
	CVV             string `json:"cvv"`
	CardHolder      string `json:"cardHolder"`
	IsSaved         bool   `json:"isSaved"`
}

// Validate checks the card number and expiry
func (c *CardInput) Validate() error {
	if strings.TrimSpace(c.CardNumber) == "" {
		return ErrInvalidInput
	}
	if c.ExpirationMonth <= 0 || c.ExpirationMonth > 12 {
		return ErrInvalidCardMonth
	}
	if c.ExpirationYear < minCardYear {
		return ErrInvalidCardYear
	}
	if c.ExpirationYear == minCardYear && c.ExpirationMonth < minCardMonth {
		return ErrCardExpired
	}
	return nil
}
