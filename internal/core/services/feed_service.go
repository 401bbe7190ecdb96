package services

import (
	"context"
	"errors"
	"log/slog"

	"peerpay/internal/adapters/persistence/repositories"
	"peerpay/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const unknownUsername = "unknown"

// FeedService builds the feed of friends' public movements
type FeedService struct {
	userRepo repositories.UserRepository
	relRepo  repositories.RelationRepository
	txRepo   repositories.TransactionRepository
	users    *UserService
	logger   *slog.Logger
}

// NewFeedService creates a new feed service
func NewFeedService(
	userRepo repositories.UserRepository,
	relRepo repositories.RelationRepository,
	txRepo repositories.TransactionRepository,
	users *UserService,
	logger *slog.Logger,
) *FeedService {
	return &FeedService{
		userRepo: userRepo,
		relRepo:  relRepo,
		txRepo:   txRepo,
		users:    users,
		logger:   logger,
	}
}

// BuildFeed returns friends' public transactions, newest first.
// A transfer between two friends appears once.
func (s *FeedService) BuildFeed(ctx context.Context, userID uuid.UUID) ([]domain.FeedEntry, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	friendIDs, err := s.relRepo.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	txs, err := s.txRepo.ListPublicByOwners(ctx, friendIDs)
	if err != nil {
		return nil, err
	}

	feed := make([]domain.FeedEntry, 0, len(txs))
	seen := make(map[uuid.UUID]struct{})
	for _, tx := range txs {
		if tx.TransferID != nil {
			if _, dup := seen[*tx.TransferID]; dup {
				continue
			}
			seen[*tx.TransferID] = struct{}{}
		}

		feed = append(feed, domain.FeedEntry{
			FromUsername: s.resolve(ctx, tx.FromUsername, tx.From),
			ToUsername:   s.resolve(ctx, tx.ToUsername, tx.To),
			Amount:       tx.Amount,
			Note:         tx.Note,
			Date:         tx.Date,
		})
	}
	return feed, nil
}

// resolve prefers the stored username, then the id lookup
func (s *FeedService) resolve(ctx context.Context, stored, ref string) string {
	if stored != "" {
		return stored
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		// masked card or external party
		return ref
	}
	name, err := s.users.UsernameByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Warn("feed username lookup failed", "id", id, "error", err)
		}
		return unknownUsername
	}
	return name
}
