package config

import (
	"testing"

	"peerpay/internal/adapters/persistence/models"
	"peerpay/internal/pkg/password"
	"peerpay/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_Run(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "bob", 7)

	require.NoError(t, NewSeeder(db).Run())
	// running twice is harmless
	require.NoError(t, NewSeeder(db).Run())

	var users []models.User
	require.NoError(t, db.Order("username").Find(&users).Error)
	require.Len(t, users, 3)

	assert.Equal(t, "alice", users[0].Username)
	assert.True(t, password.Verify(DemoPassword, users[0].Password))
	assert.True(t, users[0].Balance.IsZero())

	// existing bob is untouched
	assert.Equal(t, "bob", users[1].Username)
	assert.Equal(t, "7", users[1].Balance.String())
}
