package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"peerpay/internal/adapters/persistence/models"
	"peerpay/internal/adapters/persistence/repositories"
	"peerpay/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserService serves user documents and username lookups
type UserService struct {
	userRepo repositories.UserRepository
	cardRepo repositories.CardRepository
	txRepo   repositories.TransactionRepository
	reqRepo  repositories.MoneyRequestRepository
	social   *SocialService
	cache    UsernameCache
	logger   *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	cardRepo repositories.CardRepository,
	txRepo repositories.TransactionRepository,
	reqRepo repositories.MoneyRequestRepository,
	social *SocialService,
	cache UsernameCache,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		cardRepo: cardRepo,
		txRepo:   txRepo,
		reqRepo:  reqRepo,
		social:   social,
		cache:    cache,
		logger:   logger,
	}
}

// MoneyRequestLists holds money requests by direction
type MoneyRequestLists struct {
	Sent     []models.MoneyRequestView `json:"sent"`
	Received []models.MoneyRequestView `json:"received"`
}

// UserDocument is the full view of a user returned to its owner
type UserDocument struct {
	*models.UserResponse
	Cards               []*models.Card        `json:"cards"`
	Friends             []string              `json:"friends"`
	Requests            RequestLists          `json:"requests"`
	Transactions        []*models.Transaction `json:"transactions"`
	TransactionRequests MoneyRequestLists     `json:"transactionRequests"`
}

// UsernameInfoInput represents username info input
type UsernameInfoInput struct {
	Username string `json:"username" validate:"required"`
}

// GetUser returns the document of id. Only the owner may read it.
func (s *UserService) GetUser(ctx context.Context, callerID, id uuid.UUID) (*UserDocument, error) {
	if callerID != id {
		return nil, domain.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	cards, err := s.cardRepo.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	rels, err := s.social.Relations(ctx, id)
	if err != nil {
		return nil, err
	}
	txs, err := s.txRepo.AllByOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	sent, err := s.reqRepo.ListSent(ctx, id)
	if err != nil {
		return nil, err
	}
	received, err := s.reqRepo.ListReceived(ctx, id)
	if err != nil {
		return nil, err
	}

	return &UserDocument{
		UserResponse: user.ToResponse(),
		Cards:        cards,
		Friends:      rels.Friends,
		Requests:     rels.Requests,
		Transactions: txs,
		TransactionRequests: MoneyRequestLists{
			Sent:     views(sent, id),
			Received: views(received, id),
		},
	}, nil
}

func views(reqs []*models.MoneyRequest, userID uuid.UUID) []models.MoneyRequestView {
	out := make([]models.MoneyRequestView, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.ViewFor(userID))
	}
	return out
}

// UsernameInfo returns the public profile of a payment recipient
func (s *UserService) UsernameInfo(ctx context.Context, caller *domain.Identity, username string) (*domain.FriendSummary, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if user.ID == caller.UserID {
		return nil, domain.ErrSelfTransfer
	}

	return &domain.FriendSummary{
		Username:    user.Username,
		Displayname: user.Displayname,
		Avatar:      user.Avatar,
	}, nil
}

// UsernameByID resolves a username through the cache
func (s *UserService) UsernameByID(ctx context.Context, id uuid.UUID) (string, error) {
	if name, ok := s.cache.Get(ctx, id); ok {
		return name, nil
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", err
	}

	s.cache.Set(ctx, id, user.Username)
	return user.Username, nil
}
