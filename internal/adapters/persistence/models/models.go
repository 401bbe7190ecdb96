package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Users & saved cards
// ============================================================

// User represents users table
type User struct {
	ID          uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	Username    string          `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email       string          `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Displayname string          `gorm:"size:100;not null" json:"displayname"`
	Phone       string          `gorm:"size:30" json:"phone"`
	Avatar      string          `gorm:"size:255" json:"avatar"`
	Password    string          `gorm:"size:255;not null" json:"-"`
	Balance     decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserResponse DTO
type UserResponse struct {
	ID          uuid.UUID       `json:"id"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	Displayname string          `json:"displayname"`
	Phone       string          `json:"phone"`
	Avatar      string          `json:"avatar"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Displayname: u.Displayname,
		Phone:       u.Phone,
		Avatar:      u.Avatar,
		Balance:     u.Balance,
		CreatedAt:   u.CreatedAt,
	}
}

// Card represents cards table
type Card struct {
	ID              uuid.UUID `gorm:"type:char(36);primaryKey" json:"-"`
	UserID          uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_card_user_number,priority:1" json:"-"`
	CardNumber      string    `gorm:"size:32;not null;uniqueIndex:idx_card_user_number,priority:2" json:"cardNumber"`
	ExpirationMonth int       `gorm:"not null" json:"expirationMonth"`
	ExpirationYear  int       `gorm:"not null" json:"expirationYear"`
	CVV             string    `gorm:"column:cvv;size:4" json:"-"`
	CardHolder      string    `gorm:"size:100" json:"cardHolder"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Card) TableName() string {
	return "cards"
}

func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ============================================================
// Ledger
// ============================================================

// Transaction represents transactions table (append-only ledger)
type Transaction struct {
	ID             uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	OwnerID        uuid.UUID       `gorm:"type:char(36);not null;index:idx_tx_owner_date,priority:1;uniqueIndex:idx_tx_owner_idem,priority:1" json:"-"`
	TransferID     *uuid.UUID      `gorm:"type:char(36);index" json:"transferId,omitempty"`
	Type           string          `gorm:"size:20;not null" json:"type"`
	Role           string          `gorm:"size:20;not null" json:"role"`
	From           string          `gorm:"column:from_ref;size:64;not null" json:"from"`
	To             string          `gorm:"column:to_ref;size:64;not null" json:"to"`
	FromUsername   string          `gorm:"size:50" json:"fromUsername,omitempty"`
	ToUsername     string          `gorm:"size:50" json:"toUsername,omitempty"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Note           string          `gorm:"size:255" json:"note"`
	IsPublic       bool            `gorm:"not null;default:false" json:"isPublic"`
	Date           time.Time       `gorm:"not null;index:idx_tx_owner_date,priority:2" json:"date"`
	IdempotencyKey *string         `gorm:"size:100;uniqueIndex:idx_tx_owner_idem,priority:2" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// MoneyRequest represents money_requests table
type MoneyRequest struct {
	ID                uuid.UUID       `gorm:"type:char(36);primaryKey"`
	SenderID          uuid.UUID       `gorm:"type:char(36);not null;index"`
	RecipientID       uuid.UUID       `gorm:"type:char(36);not null;index"`
	SenderUsername    string          `gorm:"size:50;not null"`
	RecipientUsername string          `gorm:"size:50;not null"`
	Amount            decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Note              string          `gorm:"size:255"`
	IsPublic          bool            `gorm:"not null;default:false"`
	Date              time.Time       `gorm:"not null"`
}

func (MoneyRequest) TableName() string {
	return "money_requests"
}

func (m *MoneyRequest) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MoneyRequestView is one side of a money request
type MoneyRequestView struct {
	Counterparty string          `json:"counterparty"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note"`
	IsPublic     bool            `json:"isPublic"`
	Date         time.Time       `json:"date"`
}

// ViewFor projects the request from the perspective of userID
func (m *MoneyRequest) ViewFor(userID uuid.UUID) MoneyRequestView {
	counterparty := m.RecipientUsername
	if userID == m.RecipientID {
		counterparty = m.SenderUsername
	}
	return MoneyRequestView{
		Counterparty: counterparty,
		Amount:       m.Amount,
		Note:         m.Note,
		IsPublic:     m.IsPublic,
		Date:         m.Date,
	}
}

// ============================================================
// Social graph
// ============================================================

// Relation states as stored
const (
	RelationPending = "pending"
	RelationFriends = "friends"
)

// Relation represents relations table, one row per unordered user pair
type Relation struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserLowID   uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_relation_pair,priority:1"`
	UserHighID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_relation_pair,priority:2;index"`
	RequesterID uuid.UUID `gorm:"type:char(36);not null"`
	State       string    `gorm:"size:20;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Relation) TableName() string {
	return "relations"
}

func (r *Relation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// OrderedPair returns the pair in storage order
func OrderedPair(a, b uuid.UUID) (low, high uuid.UUID) {
	if a.String() < b.String() {
		return a, b
	}
	return b, a
}

// Other returns the member of the pair that is not userID
func (r *Relation) Other(userID uuid.UUID) uuid.UUID {
	if r.UserLowID == userID {
		return r.UserHighID
	}
	return r.UserLowID
}

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Card{},
		&Transaction{},
		&MoneyRequest{},
		&Relation{},
	)
}
