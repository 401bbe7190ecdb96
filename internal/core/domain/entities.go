package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of ledger movement
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionTransfer   TransactionType = "transfer"
)

// TransactionRole is the side of a movement a ledger row belongs to
type TransactionRole string

const (
	RoleSender   TransactionRole = "sender"
	RoleReceiver TransactionRole = "receiver"
)

// Identity is the verified caller resolved from a bearer token
type Identity struct {
	UserID   uuid.UUID
	Email    string
	Username string
}

// FriendSummary is the display projection of a user
type FriendSummary struct {
	Username    string `json:"username"`
	Displayname string `json:"displayname"`
	Avatar      string `json:"avatar"`
}

// FeedEntry is one public movement in a user's feed
type FeedEntry struct {
	FromUsername string          `json:"fromUsername"`
	ToUsername   string          `json:"toUsername"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note"`
	Date         time.Time       `json:"date"`
}

// TransferEvent is emitted after a transfer commits
type TransferEvent struct {
	TransferID        uuid.UUID       `json:"transferId"`
	SenderID          uuid.UUID       `json:"senderId"`
	RecipientID       uuid.UUID       `json:"recipientId"`
	SenderUsername    string          `json:"senderUsername"`
	RecipientUsername string          `json:"recipientUsername"`
	Amount            decimal.Decimal `json:"amount"`
	Note              string          `json:"note"`
	IsPublic          bool            `json:"isPublic"`
	Date              time.Time       `json:"date"`
}

// MaskCardNumber keeps the last four digits of a card number
func MaskCardNumber(number string) string {
	if len(number) <= 4 {
		return "**** " + number
	}
	return "**** " + number[len(number)-4:]
}
