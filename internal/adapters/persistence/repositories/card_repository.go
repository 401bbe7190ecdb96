package repositories

import (
	"context"

	"peerpay/internal/adapters/persistence/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a new card repository
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	return conn(ctx, r.db).Create(card).Error
}

func (r *cardRepository) GetByNumber(ctx context.Context, userID uuid.UUID, cardNumber string) (*models.Card, error) {
	var card models.Card
	err := conn(ctx, r.db).
		Where("user_id = ? AND card_number = ?", userID, cardNumber).
		First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Card, error) {
	var cards []*models.Card
	err := conn(ctx, r.db).Where("user_id = ?", userID).Order("created_at ASC").Find(&cards).Error
	return cards, err
}

// Delete removes a saved card and reports how many rows were deleted
func (r *cardRepository) Delete(ctx context.Context, userID uuid.UUID, cardNumber string) (int64, error) {
	result := conn(ctx, r.db).
		Where("user_id = ? AND card_number = ?", userID, cardNumber).
		Delete(&models.Card{})
	return result.RowsAffected, result.Error
}
