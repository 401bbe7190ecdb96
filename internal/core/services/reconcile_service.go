package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"peerpay/internal/adapters/persistence/repositories"
	"peerpay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const reconcileTimeout = 5 * time.Minute

// BalanceMismatch is a user whose balance differs from its ledger total
type BalanceMismatch struct {
	UserID   uuid.UUID       `json:"userId"`
	Username string          `json:"username"`
	Balance  decimal.Decimal `json:"balance"`
	Ledger   decimal.Decimal `json:"ledger"`
}

// ReconcileReport lists every broken ledger invariant found in one sweep
type ReconcileReport struct {
	CheckedUsers        int               `json:"checkedUsers"`
	BalanceMismatches   []BalanceMismatch `json:"balanceMismatches"`
	IncompleteTransfers []uuid.UUID       `json:"incompleteTransfers"`
}

// OK reports whether the sweep found nothing
func (r *ReconcileReport) OK() bool {
	return len(r.BalanceMismatches) == 0 && len(r.IncompleteTransfers) == 0
}

// Err wraps domain.ErrConsistency when the sweep found something
func (r *ReconcileReport) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%w: %d balance mismatches, %d incomplete transfers",
		domain.ErrConsistency, len(r.BalanceMismatches), len(r.IncompleteTransfers))
}

// ReconcileService checks balances against the ledger
type ReconcileService struct {
	txm      repositories.TxManager
	userRepo repositories.UserRepository
	txRepo   repositories.TransactionRepository
	logger   *slog.Logger
	cron     *cron.Cron
}

// NewReconcileService creates a new reconciler
func NewReconcileService(
	txm repositories.TxManager,
	userRepo repositories.UserRepository,
	txRepo repositories.TransactionRepository,
	logger *slog.Logger,
) *ReconcileService {
	return &ReconcileService{
		txm:      txm,
		userRepo: userRepo,
		txRepo:   txRepo,
		logger:   logger,
	}
}

// Run performs one sweep
func (s *ReconcileService) Run(ctx context.Context) (*ReconcileReport, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sums, err := s.txRepo.SumByOwner(ctx)
	if err != nil {
		return nil, err
	}
	incomplete, err := s.txRepo.IncompleteTransfers(ctx)
	if err != nil {
		return nil, err
	}

	ledger := make(map[uuid.UUID]decimal.Decimal, len(sums))
	for _, sum := range sums {
		ledger[sum.OwnerID] = sum.Total
	}

	report := &ReconcileReport{
		CheckedUsers:        len(users),
		BalanceMismatches:   []BalanceMismatch{},
		IncompleteTransfers: incomplete,
	}
	if report.IncompleteTransfers == nil {
		report.IncompleteTransfers = []uuid.UUID{}
	}

	// The sweep reads are not one snapshot, so a write committing between
	// them shows up here. Suspects are checked again under a row lock.
	for _, u := range users {
		if u.Balance.Equal(ledger[u.ID]) {
			continue
		}
		mismatch, err := s.confirm(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if mismatch != nil {
			report.BalanceMismatches = append(report.BalanceMismatches, *mismatch)
		}
	}

	for _, m := range report.BalanceMismatches {
		s.logger.Error("balance does not match ledger",
			"error", domain.ErrConsistency,
			"user_id", m.UserID,
			"username", m.Username,
			"balance", m.Balance,
			"ledger", m.Ledger,
		)
	}
	for _, id := range report.IncompleteTransfers {
		s.logger.Error("transfer is missing a side", "error", domain.ErrConsistency, "transfer_id", id)
	}

	s.logger.Info("reconcile finished",
		"users", report.CheckedUsers,
		"mismatches", len(report.BalanceMismatches),
		"incomplete_transfers", len(report.IncompleteTransfers),
	)
	return report, nil
}

// confirm compares one user's balance with its ledger inside a transaction
// holding the user row, so in-flight balance writes have committed.
func (s *ReconcileService) confirm(ctx context.Context, userID uuid.UUID) (*BalanceMismatch, error) {
	var mismatch *BalanceMismatch
	err := s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		total, err := s.txRepo.SumForOwner(ctx, userID)
		if err != nil {
			return err
		}
		if !user.Balance.Equal(total) {
			mismatch = &BalanceMismatch{
				UserID:   user.ID,
				Username: user.Username,
				Balance:  user.Balance,
				Ledger:   total,
			}
		}
		return nil
	})
	return mismatch, err
}

// Start schedules Run on the cron spec. An empty spec disables the schedule.
func (s *ReconcileService) Start(spec string) error {
	if spec == "" {
		log.Println("⏸️ Reconciler schedule disabled")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		defer cancel()
		if _, err := s.Run(ctx); err != nil {
			s.logger.Error("reconcile failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", spec, err)
	}

	s.cron = c
	c.Start()
	log.Printf("🚀 Reconciler started [%s]", spec)
	return nil
}

// Stop waits for a running sweep to finish
func (s *ReconcileService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	log.Println("🛑 Reconciler stopped")
}
