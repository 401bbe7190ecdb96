package repositories

import (
	"context"

	"peerpay/internal/adapters/persistence/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type relationRepository struct {
	db *gorm.DB
}

// NewRelationRepository creates a new relation repository
func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

func (r *relationRepository) GetForUpdate(ctx context.Context, a, b uuid.UUID) (*models.Relation, error) {
	low, high := models.OrderedPair(a, b)

	var rel models.Relation
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		First(&rel).Error
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (r *relationRepository) Create(ctx context.Context, rel *models.Relation) error {
	rel.UserLowID, rel.UserHighID = models.OrderedPair(rel.UserLowID, rel.UserHighID)
	return conn(ctx, r.db).Create(rel).Error
}

func (r *relationRepository) Update(ctx context.Context, rel *models.Relation) error {
	return conn(ctx, r.db).Save(rel).Error
}

func (r *relationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Where("id = ?", id).Delete(&models.Relation{}).Error
}

// ListByUser lists every relation row the user is part of
func (r *relationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Relation, error) {
	var rels []*models.Relation
	err := conn(ctx, r.db).
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Order("created_at ASC").
		Find(&rels).Error
	return rels, err
}

// FriendIDs returns the ids of the user's accepted friends
func (r *relationRepository) FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var rels []*models.Relation
	err := conn(ctx, r.db).
		Where("state = ? AND (user_low_id = ? OR user_high_id = ?)", models.RelationFriends, userID, userID).
		Find(&rels).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, rel.Other(userID))
	}
	return ids, nil
}
