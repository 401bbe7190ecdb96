package services

import (
	"context"
	"sync"
	"testing"

	"peerpay/internal/adapters/persistence/repositories"
	"peerpay/internal/config"
	"peerpay/internal/core/domain"
	"peerpay/internal/pkg/logger"
	"peerpay/internal/testutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// recordingPublisher keeps every published event
type recordingPublisher struct {
	events chan domain.TransferEvent
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{events: make(chan domain.TransferEvent, 16)}
}

func (p *recordingPublisher) PublishTransfer(_ context.Context, event domain.TransferEvent) error {
	p.events <- event
	return nil
}

// mapCache is an in-memory UsernameCache
type mapCache struct {
	mu    sync.Mutex
	names map[uuid.UUID]string
	hits  int
}

func newMapCache() *mapCache {
	return &mapCache{names: map[uuid.UUID]string{}}
}

func (c *mapCache) Get(_ context.Context, id uuid.UUID) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name, ok := c.names[id]
	if ok {
		c.hits++
	}
	return name, ok
}

func (c *mapCache) Set(_ context.Context, id uuid.UUID, username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[id] = username
}

type testEnv struct {
	db        *gorm.DB
	auth      *AuthService
	ledger    *LedgerService
	social    *SocialService
	users     *UserService
	feed      *FeedService
	reconcile *ReconcileService
	events    *recordingPublisher
	cache     *mapCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	log := logger.Discard()

	txm := repositories.NewTxManager(db)
	userRepo := repositories.NewUserRepository(db)
	cardRepo := repositories.NewCardRepository(db)
	txRepo := repositories.NewTransactionRepository(db)
	reqRepo := repositories.NewMoneyRequestRepository(db)
	relRepo := repositories.NewRelationRepository(db)

	events := newRecordingPublisher()
	cache := newMapCache()

	social := NewSocialService(txm, userRepo, relRepo, log)
	users := NewUserService(userRepo, cardRepo, txRepo, reqRepo, social, cache, log)

	return &testEnv{
		db:        db,
		auth:      NewAuthService(userRepo, config.JWTConfig{Secret: "test-secret", ExpiryHours: 1}, log),
		ledger:    NewLedgerService(txm, userRepo, cardRepo, txRepo, reqRepo, events, log),
		social:    social,
		users:     users,
		feed:      NewFeedService(userRepo, relRepo, txRepo, users, log),
		reconcile: NewReconcileService(txm, userRepo, txRepo, log),
		events:    events,
		cache:     cache,
	}
}

// ledgerWith builds a ledger service over the same database with some repositories swapped
func (e *testEnv) ledgerWith(cards repositories.CardRepository, txs repositories.TransactionRepository) *LedgerService {
	if cards == nil {
		cards = repositories.NewCardRepository(e.db)
	}
	if txs == nil {
		txs = repositories.NewTransactionRepository(e.db)
	}
	return NewLedgerService(
		repositories.NewTxManager(e.db),
		repositories.NewUserRepository(e.db),
		cards,
		txs,
		repositories.NewMoneyRequestRepository(e.db),
		e.events,
		logger.Discard(),
	)
}
