package services

import (
	"context"
	"testing"

	"peerpay/internal/adapters/persistence/models"
	"peerpay/internal/adapters/persistence/repositories"
	"peerpay/internal/core/domain"
	"peerpay/internal/pkg/logger"
	"peerpay/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileService_Run_Clean(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "alice", 0)
	bob := testutil.CreateUser(t, env.db, "bob", 0)

	_, err := env.ledger.Deposit(ctx, alice.ID, &DepositInput{Amount: amount(100)}, "")
	require.NoError(t, err)
	_, err = env.ledger.Send(ctx, alice.ID, &SendInput{Recipient: "bob", Amount: amount(40)}, "")
	require.NoError(t, err)
	_, err = env.ledger.Withdraw(ctx, bob.ID, &WithdrawInput{Amount: amount(15)}, "")
	require.NoError(t, err)

	report, err := env.reconcile.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.CheckedUsers)
	assert.True(t, report.OK())
	assert.NoError(t, report.Err())
}

func TestReconcileService_Run_FindsMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "alice", 0)

	_, err := env.ledger.Deposit(ctx, alice.ID, &DepositInput{Amount: amount(100)}, "")
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", alice.ID).Update("balance", amount(250)).Error)

	report, err := env.reconcile.Run(ctx)
	require.NoError(t, err)
	require.Len(t, report.BalanceMismatches, 1)
	assert.Equal(t, "alice", report.BalanceMismatches[0].Username)
	assertAmount(t, 250, report.BalanceMismatches[0].Balance)
	assertAmount(t, 100, report.BalanceMismatches[0].Ledger)
	assert.ErrorIs(t, report.Err(), domain.ErrConsistency)
}

// depositAfterList runs a write right after the user list has been read
type depositAfterList struct {
	repositories.UserRepository
	write func()
}

func (r *depositAfterList) ListAll(ctx context.Context) ([]*models.User, error) {
	users, err := r.UserRepository.ListAll(ctx)
	if err == nil && r.write != nil {
		r.write()
		r.write = nil
	}
	return users, err
}

func TestReconcileService_Run_DepositDuringSweep(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "alice", 0)

	users := &depositAfterList{
		UserRepository: repositories.NewUserRepository(env.db),
		write: func() {
			_, err := env.ledger.Deposit(ctx, alice.ID, &DepositInput{Amount: amount(10)}, "")
			require.NoError(t, err)
		},
	}
	reconciler := NewReconcileService(
		repositories.NewTxManager(env.db),
		users,
		repositories.NewTransactionRepository(env.db),
		logger.Discard(),
	)

	report, err := reconciler.Run(ctx)
	require.NoError(t, err)
	assert.True(t, report.OK(), "%+v", report.BalanceMismatches)
	assertAmount(t, 10, testutil.Balance(t, env.db, alice.ID))
}

func TestReconcileService_Run_FindsIncompleteTransfer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "alice", 0)

	transferID := uuid.New()
	require.NoError(t, env.db.Create(&models.Transaction{
		OwnerID:    alice.ID,
		TransferID: &transferID,
		Type:       string(domain.TransactionTransfer),
		Role:       string(domain.RoleReceiver),
		From:       uuid.NewString(),
		To:         alice.ID.String(),
		Amount:     amount(5),
	}).Error)
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", alice.ID).Update("balance", amount(5)).Error)

	report, err := env.reconcile.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.BalanceMismatches)
	assert.Equal(t, []uuid.UUID{transferID}, report.IncompleteTransfers)
	assert.False(t, report.OK())
}

func TestReconcileService_Start(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.reconcile.Start(""))
	env.reconcile.Stop()

	assert.Error(t, env.reconcile.Start("not a schedule"))

	require.NoError(t, env.reconcile.Start("@every 1h"))
	env.reconcile.Stop()
}
