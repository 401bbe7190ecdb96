// Package testutil opens throwaway databases for tests.
package testutil

import (
	"fmt"
	"testing"

	"peerpay/internal/adapters/persistence/models"
	"peerpay/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// UserPassword is the password of every user made by CreateUser
const UserPassword = "secret123"

// NewDB opens a private in-memory sqlite database with every table migrated
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// CreateUser inserts a user named username with the given balance
func CreateUser(t *testing.T, db *gorm.DB, username string, balance int64) *models.User {
	t.Helper()

	hashed, err := password.Hash(UserPassword)
	require.NoError(t, err)

	user := &models.User{
		Username:    username,
		Email:       username + "@example.com",
		Displayname: username,
		Password:    hashed,
		Balance:     decimal.NewFromInt(balance),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// Balance reads the stored balance of a user
func Balance(t *testing.T, db *gorm.DB, id uuid.UUID) decimal.Decimal {
	t.Helper()

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return user.Balance
}

// UserByName loads a user by username
func UserByName(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	var user models.User
	require.NoError(t, db.First(&user, "username = ?", username).Error)
	return &user
}
