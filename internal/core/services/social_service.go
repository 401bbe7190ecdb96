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

// SocialService manages friendships and friend requests
type SocialService struct {
	txm      repositories.TxManager
	userRepo repositories.UserRepository
	relRepo  repositories.RelationRepository
	logger   *slog.Logger
}

// NewSocialService creates a new social graph service
func NewSocialService(
	txm repositories.TxManager,
	userRepo repositories.UserRepository,
	relRepo repositories.RelationRepository,
	logger *slog.Logger,
) *SocialService {
	return &SocialService{
		txm:      txm,
		userRepo: userRepo,
		relRepo:  relRepo,
		logger:   logger,
	}
}

// FriendActionInput is the body of every friend request endpoint
type FriendActionInput struct {
	UserID         string `json:"userId"`
	FriendUsername string `json:"friendUsername" validate:"required"`
}

// FriendsInfoInput lists usernames to resolve. Every list must be present.
type FriendsInfoInput struct {
	FriendsUsernames  []string `json:"friendsUsernames"`
	ReceivedUsernames []string `json:"receivedUsernames"`
	SentUsernames     []string `json:"sentUsernames"`
}

// FriendsInfo is the display projection of the three lists
type FriendsInfo struct {
	Friends          []domain.FriendSummary `json:"friends"`
	ReceivedRequests []domain.FriendSummary `json:"receivedRequests"`
	SentRequests     []domain.FriendSummary `json:"sentRequests"`
}

// RequestLists holds pending friend requests by direction
type RequestLists struct {
	Sent     []string `json:"sent"`
	Received []string `json:"received"`
}

// Relations is a user's own view of the social graph
type Relations struct {
	Friends  []string     `json:"friends"`
	Requests RequestLists `json:"requests"`
}

// SendFriendRequest sends a friend request from actorID to friendUsername
func (s *SocialService) SendFriendRequest(ctx context.Context, actorID uuid.UUID, friendUsername string) error {
	return s.apply(ctx, actorID, friendUsername, domain.ActionSend)
}

// AcceptFriendRequest accepts the pending request friendUsername sent to actorID
func (s *SocialService) AcceptFriendRequest(ctx context.Context, actorID uuid.UUID, friendUsername string) error {
	return s.apply(ctx, actorID, friendUsername, domain.ActionAccept)
}

// DeclineFriendRequest declines the pending request friendUsername sent to actorID
func (s *SocialService) DeclineFriendRequest(ctx context.Context, actorID uuid.UUID, friendUsername string) error {
	return s.apply(ctx, actorID, friendUsername, domain.ActionDecline)
}

// CancelFriendRequest withdraws the request actorID sent to friendUsername
func (s *SocialService) CancelFriendRequest(ctx context.Context, actorID uuid.UUID, friendUsername string) error {
	return s.apply(ctx, actorID, friendUsername, domain.ActionCancel)
}

// DeleteFriend removes the friendship, or any pending request, between the two users
func (s *SocialService) DeleteFriend(ctx context.Context, actorID uuid.UUID, friendUsername string) error {
	return s.apply(ctx, actorID, friendUsername, domain.ActionUnfriend)
}

// apply reads the pair under lock, runs the transition and writes the result
func (s *SocialService) apply(ctx context.Context, actorID uuid.UUID, friendUsername string, action domain.RelationAction) error {
	friendUsername = strings.TrimSpace(friendUsername)
	if friendUsername == "" {
		return domain.ErrInvalidInput
	}

	err := s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		actor, err := s.userRepo.GetByID(ctx, actorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		if actor.Username == friendUsername {
			return domain.ErrSelfRequest
		}

		friend, err := s.userRepo.GetByUsername(ctx, friendUsername)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrFriendNotFound
			}
			return err
		}

		rel, err := s.relRepo.GetForUpdate(ctx, actor.ID, friend.ID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			rel = nil
		}

		next, err := domain.Transition(viewState(rel, actor.ID), action)
		if err != nil {
			return err
		}

		switch next {
		case domain.RelationNone:
			if rel == nil {
				return nil
			}
			return s.relRepo.Delete(ctx, rel.ID)
		case domain.RelationSent:
			return s.relRepo.Create(ctx, &models.Relation{
				UserLowID:   actor.ID,
				UserHighID:  friend.ID,
				RequesterID: actor.ID,
				State:       models.RelationPending,
			})
		case domain.RelationFriends:
			rel.State = models.RelationFriends
			return s.relRepo.Update(ctx, rel)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConcurrentUpdate
		}
		return err
	}

	s.logger.Info("relation updated", "actor_id", actorID, "friend", friendUsername, "action", action)
	return nil
}

// viewState derives the state of the pair as seen by userID
func viewState(rel *models.Relation, userID uuid.UUID) domain.RelationState {
	switch {
	case rel == nil:
		return domain.RelationNone
	case rel.State == models.RelationFriends:
		return domain.RelationFriends
	case rel.RequesterID == userID:
		return domain.RelationSent
	default:
		return domain.RelationReceived
	}
}

// FriendsInfo resolves display data for three username lists in one query
func (s *SocialService) FriendsInfo(ctx context.Context, input *FriendsInfoInput) (*FriendsInfo, error) {
	if input.FriendsUsernames == nil || input.ReceivedUsernames == nil || input.SentUsernames == nil {
		return nil, domain.ErrInvalidInput
	}

	all := make([]string, 0, len(input.FriendsUsernames)+len(input.ReceivedUsernames)+len(input.SentUsernames))
	all = append(all, input.FriendsUsernames...)
	all = append(all, input.ReceivedUsernames...)
	all = append(all, input.SentUsernames...)

	users, err := s.userRepo.FindByUsernames(ctx, all)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*models.User, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}

	return &FriendsInfo{
		Friends:          summaries(input.FriendsUsernames, byName),
		ReceivedRequests: summaries(input.ReceivedUsernames, byName),
		SentRequests:     summaries(input.SentUsernames, byName),
	}, nil
}

// summaries keeps the order of names and skips unknown users
func summaries(names []string, byName map[string]*models.User) []domain.FriendSummary {
	out := make([]domain.FriendSummary, 0, len(names))
	for _, name := range names {
		if u, ok := byName[name]; ok {
			out = append(out, domain.FriendSummary{
				Username:    u.Username,
				Displayname: u.Displayname,
				Avatar:      u.Avatar,
			})
		}
	}
	return out
}

// Relations projects the user's friends and pending requests as usernames
func (s *SocialService) Relations(ctx context.Context, userID uuid.UUID) (*Relations, error) {
	rels, err := s.relRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, rel.Other(userID))
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	out := &Relations{
		Friends:  []string{},
		Requests: RequestLists{Sent: []string{}, Received: []string{}},
	}
	for _, rel := range rels {
		name, ok := names[rel.Other(userID)]
		if !ok {
			continue
		}
		switch viewState(rel, userID) {
		case domain.RelationFriends:
			out.Friends = append(out.Friends, name)
		case domain.RelationSent:
			out.Requests.Sent = append(out.Requests.Sent, name)
		case domain.RelationReceived:
			out.Requests.Received = append(out.Requests.Received, name)
		}
	}
	return out, nil
}
