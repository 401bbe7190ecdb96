package repositories

import (
	"context"

	"peerpay/internal/adapters/persistence/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TxManager runs a function inside one database transaction carried by ctx
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsernames(ctx context.Context, usernames []string) ([]*models.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error)
	ListAll(ctx context.Context) ([]*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Credit adds amount to the balance.
	Credit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	// Debit subtracts amount only when the balance covers it. false means nothing changed.
	Debit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error)
}

// CardRepository defines saved card repository interface
type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	GetByNumber(ctx context.Context, userID uuid.UUID, cardNumber string) (*models.Card, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Card, error)
	Delete(ctx context.Context, userID uuid.UUID, cardNumber string) (int64, error)
}

// OwnerSum is the signed ledger total of one owner
type OwnerSum struct {
	OwnerID uuid.UUID
	Total   decimal.Decimal
}

// TransactionRepository defines ledger repository interface
type TransactionRepository interface {
	Create(ctx context.Context, txs ...*models.Transaction) error
	GetByIdempotencyKey(ctx context.Context, ownerID uuid.UUID, key string) (*models.Transaction, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*models.Transaction, int64, error)
	AllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Transaction, error)
	ListPublicByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]*models.Transaction, error)
	SumByOwner(ctx context.Context) ([]OwnerSum, error)
	SumForOwner(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error)
	IncompleteTransfers(ctx context.Context) ([]uuid.UUID, error)
}

// MoneyRequestRepository defines money request repository interface
type MoneyRequestRepository interface {
	Create(ctx context.Context, req *models.MoneyRequest) error
	ListSent(ctx context.Context, userID uuid.UUID) ([]*models.MoneyRequest, error)
	ListReceived(ctx context.Context, userID uuid.UUID) ([]*models.MoneyRequest, error)
}

// RelationRepository defines social graph repository interface
type RelationRepository interface {
	// GetForUpdate locks and returns the row of the pair, gorm.ErrRecordNotFound when absent.
	GetForUpdate(ctx context.Context, a, b uuid.UUID) (*models.Relation, error)
	Create(ctx context.Context, rel *models.Relation) error
	Update(ctx context.Context, rel *models.Relation) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Relation, error)
	FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
