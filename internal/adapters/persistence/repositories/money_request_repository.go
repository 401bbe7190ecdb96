package repositories

import (
	"context"

	"peerpay/internal/adapters/persistence/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type moneyRequestRepository struct {
	db *gorm.DB
}

// NewMoneyRequestRepository creates a new money request repository
func NewMoneyRequestRepository(db *gorm.DB) MoneyRequestRepository {
	return &moneyRequestRepository{db: db}
}

func (r *moneyRequestRepository) Create(ctx context.Context, req *models.MoneyRequest) error {
	return conn(ctx, r.db).Create(req).Error
}

func (r *moneyRequestRepository) ListSent(ctx context.Context, userID uuid.UUID) ([]*models.MoneyRequest, error) {
	var reqs []*models.MoneyRequest
	err := conn(ctx, r.db).Where("sender_id = ?", userID).Order("date DESC").Find(&reqs).Error
	return reqs, err
}

func (r *moneyRequestRepository) ListReceived(ctx context.Context, userID uuid.UUID) ([]*models.MoneyRequest, error) {
	var reqs []*models.MoneyRequest
	err := conn(ctx, r.db).Where("recipient_id = ?", userID).Order("date DESC").Find(&reqs).Error
	return reqs, err
}
