package repositories

import (
	"context"

	"peerpay/internal/adapters/persistence/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return conn(ctx, r.db).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := conn(ctx, r.db).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDForUpdate gets a user by ID with a row lock
func (r *userRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername gets a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := conn(ctx, r.db).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := conn(ctx, r.db).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsernames gets all users whose username is in the list
func (r *userRepository) FindByUsernames(ctx context.Context, usernames []string) ([]*models.User, error) {
	var users []*models.User
	if len(usernames) == 0 {
		return users, nil
	}
	err := conn(ctx, r.db).Where("username IN ?", usernames).Find(&users).Error
	return users, err
}

// FindByIDs gets all users whose id is in the list
func (r *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error) {
	var users []*models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := conn(ctx, r.db).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// ListAll lists every user ordered by creation
func (r *userRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := conn(ctx, r.db).Order("created_at ASC").Find(&users).Error
	return users, err
}

// ExistsByUsername checks if username exists
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Credit increments the balance of a user
func (r *userRepository) Credit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	result := conn(ctx, r.db).Model(&models.User{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Debit decrements the balance with a compare-and-swap on the current value
func (r *userRepository) Debit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	result := conn(ctx, r.db).Model(&models.User{}).
		Where("id = ? AND balance >= ?", id, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
