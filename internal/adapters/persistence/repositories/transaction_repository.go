package repositories

import (
	"context"

	"peerpay/internal/adapters/persistence/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new ledger repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create appends ledger rows in one statement
func (r *transactionRepository) Create(ctx context.Context, txs ...*models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(txs).Error
}

func (r *transactionRepository) GetByIdempotencyKey(ctx context.Context, ownerID uuid.UUID, key string) (*models.Transaction, error) {
	var tx models.Transaction
	err := conn(ctx, r.db).
		Where("owner_id = ? AND idempotency_key = ?", ownerID, key).
		First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// ListByOwner lists the rows of one owner, newest first
func (r *transactionRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*models.Transaction, int64, error) {
	var txs []*models.Transaction
	var total int64

	query := conn(ctx, r.db).Model(&models.Transaction{}).Where("owner_id = ?", ownerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := conn(ctx, r.db).
		Where("owner_id = ?", ownerID).
		Order("date DESC").
		Offset(offset).Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

func (r *transactionRepository) AllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	err := conn(ctx, r.db).Where("owner_id = ?", ownerID).Order("date DESC").Find(&txs).Error
	return txs, err
}

// ListPublicByOwners lists public rows owned by any of ownerIDs, newest first
func (r *transactionRepository) ListPublicByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	if len(ownerIDs) == 0 {
		return txs, nil
	}
	err := conn(ctx, r.db).
		Where("owner_id IN ? AND is_public = ?", ownerIDs, true).
		Order("date DESC").
		Find(&txs).Error
	return txs, err
}

// SumByOwner returns receiver rows minus sender rows per owner
func (r *transactionRepository) SumByOwner(ctx context.Context) ([]OwnerSum, error) {
	var sums []OwnerSum
	err := conn(ctx, r.db).Model(&models.Transaction{}).
		Select("owner_id, SUM(CASE WHEN role = ? THEN amount ELSE -amount END) AS total", "receiver").
		Group("owner_id").
		Scan(&sums).Error
	return sums, err
}

// SumForOwner returns receiver rows minus sender rows of one owner
func (r *transactionRepository) SumForOwner(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	var sum struct {
		Total decimal.Decimal
	}
	err := conn(ctx, r.db).Model(&models.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN role = ? THEN amount ELSE -amount END), 0) AS total", "receiver").
		Where("owner_id = ?", ownerID).
		Scan(&sum).Error
	return sum.Total, err
}

// IncompleteTransfers returns transfer ids without exactly one sender and one receiver row
func (r *transactionRepository) IncompleteTransfers(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := conn(ctx, r.db).Model(&models.Transaction{}).
		Where("transfer_id IS NOT NULL").
		Group("transfer_id").
		Having("SUM(CASE WHEN role = ? THEN 1 ELSE 0 END) <> 1 OR SUM(CASE WHEN role = ? THEN 1 ELSE 0 END) <> 1", "sender", "receiver").
		Pluck("transfer_id", &ids).Error
	return ids, err
}
