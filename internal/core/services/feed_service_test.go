package services

import (
	"context"
	"testing"

	"peerpay/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func befriend(t *testing.T, env *testEnv, a, b string) {
	t.Helper()
	ctx := context.Background()

	ua := testutil.UserByName(t, env.db, a)
	ub := testutil.UserByName(t, env.db, b)
	require.NoError(t, env.social.SendFriendRequest(ctx, ua.ID, b))
	require.NoError(t, env.social.AcceptFriendRequest(ctx, ub.ID, a))
}

func TestFeedService_BuildFeed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "alice", 0)
	bob := testutil.CreateUser(t, env.db, "bob", 0)
	testutil.CreateUser(t, env.db, "carol", 0)
	dave := testutil.CreateUser(t, env.db, "dave", 0)

	befriend(t, env, "alice", "bob")
	befriend(t, env, "alice", "carol")

	_, err := env.ledger.Deposit(ctx, bob.ID, &DepositInput{Amount: amount(100)}, "")
	require.NoError(t, err)
	_, err = env.ledger.Deposit(ctx, dave.ID, &DepositInput{Amount: amount(100)}, "")
	require.NoError(t, err)

	// both sides are alice's friends, shown once
	_, err = env.ledger.Send(ctx, bob.ID, &SendInput{Recipient: "carol", Amount: amount(20), Note: "pizza", IsPublic: true}, "")
	require.NoError(t, err)
	// private
	_, err = env.ledger.Send(ctx, bob.ID, &SendInput{Recipient: "carol", Amount: amount(5)}, "")
	require.NoError(t, err)
	// not a friend of alice
	_, err = env.ledger.Send(ctx, dave.ID, &SendInput{Recipient: "alice", Amount: amount(1), IsPublic: true}, "")
	require.NoError(t, err)

	feed, err := env.feed.BuildFeed(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "bob", feed[0].FromUsername)
	assert.Equal(t, "carol", feed[0].ToUsername)
	assert.Equal(t, "pizza", feed[0].Note)
	assertAmount(t, 20, feed[0].Amount)
}

func TestFeedService_BuildFeed_NoFriends(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice", 0)

	feed, err := env.feed.BuildFeed(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestFeedService_Resolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "alice", 0)

	assert.Equal(t, "stored", env.feed.resolve(ctx, "stored", alice.ID.String()))
	assert.Equal(t, "alice", env.feed.resolve(ctx, "", alice.ID.String()))
	assert.Equal(t, "**** 1111", env.feed.resolve(ctx, "", "**** 1111"))
	assert.Equal(t, unknownUsername, env.feed.resolve(ctx, "", "00000000-0000-0000-0000-000000000001"))
}
