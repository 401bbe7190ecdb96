package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"peerpay/internal/adapters/persistence/models"
	"peerpay/internal/adapters/persistence/repositories"
	"peerpay/internal/core/domain"
	"peerpay/internal/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// externalParty labels the outside end of a deposit or withdrawal made without a card
const externalParty = "external"

const publishTimeout = 5 * time.Second

// LedgerService moves money and records it in the ledger
type LedgerService struct {
	txm      repositories.TxManager
	userRepo repositories.UserRepository
	cardRepo repositories.CardRepository
	txRepo   repositories.TransactionRepository
	reqRepo  repositories.MoneyRequestRepository
	events   EventPublisher
	logger   *slog.Logger
	now      func() time.Time
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	txm repositories.TxManager,
	userRepo repositories.UserRepository,
	cardRepo repositories.CardRepository,
	txRepo repositories.TransactionRepository,
	reqRepo repositories.MoneyRequestRepository,
	events EventPublisher,
	logger *slog.Logger,
) *LedgerService {
	return &LedgerService{
		txm:      txm,
		userRepo: userRepo,
		cardRepo: cardRepo,
		txRepo:   txRepo,
		reqRepo:  reqRepo,
		events:   events,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// DepositInput represents deposit input, card fields are optional
type DepositInput struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
	domain.CardInput
}

// WithdrawInput represents withdraw input
type WithdrawInput struct {
	UserID     string          `json:"userId"`
	Amount     decimal.Decimal `json:"amount"`
	CardNumber string          `json:"cardNumber" validate:"max=32"`
	CardHolder string          `json:"cardHolder" validate:"max=100"`
}

// SendInput represents transfer input
type SendInput struct {
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note" validate:"max=255"`
	IsPublic  bool            `json:"isPublic"`
}

// RequestMoneyInput represents money request input
type RequestMoneyInput struct {
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note" validate:"max=255"`
	IsPublic  bool            `json:"isPublic"`
}

// BalanceResult is returned by balance changing operations
type BalanceResult struct {
	NewBalance decimal.Decimal `json:"newBalance"`
	TransferID *uuid.UUID      `json:"transferId,omitempty"`
	Replayed   bool            `json:"replayed,omitempty"`
}

// Deposit credits the user's balance, saving the card when asked to
func (s *LedgerService) Deposit(ctx context.Context, userID uuid.UUID, input *DepositInput, idempotencyKey string) (*BalanceResult, error) {
	amount := input.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	hasCard := strings.TrimSpace(input.CardNumber) != ""
	if hasCard {
		if err := input.CardInput.Validate(); err != nil {
			return nil, err
		}
	}

	var result *BalanceResult
	err := s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.getUser(ctx, userID, domain.ErrUserNotFound)
		if err != nil {
			return err
		}

		if replay, err := s.replay(ctx, userID, idempotencyKey); err != nil || replay != nil {
			result = replay
			return err
		}

		if hasCard && input.IsSaved {
			if err := s.saveCard(ctx, userID, &input.CardInput); err != nil {
				return err
			}
		}

		if err := s.userRepo.Credit(ctx, userID, amount); err != nil {
			return err
		}

		from := externalParty
		if hasCard {
			from = domain.MaskCardNumber(input.CardNumber)
		}
		row := &models.Transaction{
			OwnerID:        userID,
			Type:           string(domain.TransactionDeposit),
			Role:           string(domain.RoleReceiver),
			From:           from,
			To:             userID.String(),
			ToUsername:     user.Username,
			Amount:         amount,
			Date:           s.now(),
			IdempotencyKey: keyOrNil(idempotencyKey),
		}
		if err := s.txRepo.Create(ctx, row); err != nil {
			return err
		}

		result, err = s.balanceOf(ctx, userID)
		return err
	})
	if err != nil {
		return s.afterRollback(ctx, userID, idempotencyKey, err)
	}

	s.logger.Info("deposit completed", "user_id", userID, "amount", amount, "replayed", result.Replayed)
	return result, nil
}

// Withdraw debits the user's balance when it covers the amount
func (s *LedgerService) Withdraw(ctx context.Context, userID uuid.UUID, input *WithdrawInput, idempotencyKey string) (*BalanceResult, error) {
	amount := input.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	var result *BalanceResult
	err := s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.getUser(ctx, userID, domain.ErrUserNotFound)
		if err != nil {
			return err
		}

		if replay, err := s.replay(ctx, userID, idempotencyKey); err != nil || replay != nil {
			result = replay
			return err
		}

		ok, err := s.userRepo.Debit(ctx, userID, amount)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInsufficientBalance
		}

		to := externalParty
		if strings.TrimSpace(input.CardNumber) != "" {
			to = domain.MaskCardNumber(input.CardNumber)
		}
		row := &models.Transaction{
			OwnerID:        userID,
			Type:           string(domain.TransactionWithdrawal),
			Role:           string(domain.RoleSender),
			From:           userID.String(),
			To:             to,
			FromUsername:   user.Username,
			Amount:         amount,
			Date:           s.now(),
			IdempotencyKey: keyOrNil(idempotencyKey),
		}
		if err := s.txRepo.Create(ctx, row); err != nil {
			return err
		}

		result, err = s.balanceOf(ctx, userID)
		return err
	})
	if err != nil {
		return s.afterRollback(ctx, userID, idempotencyKey, err)
	}

	s.logger.Info("withdrawal completed", "user_id", userID, "amount", amount, "replayed", result.Replayed)
	return result, nil
}

// Send transfers money to another user. The debit, the credit and both
// ledger rows commit together or not at all.
func (s *LedgerService) Send(ctx context.Context, senderID uuid.UUID, input *SendInput, idempotencyKey string) (*BalanceResult, error) {
	recipient := strings.TrimSpace(input.Recipient)
	amount := input.Amount.Round(2)
	if recipient == "" || !amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	var (
		result *BalanceResult
		event  *domain.TransferEvent
	)
	err := s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		sender, err := s.getUser(ctx, senderID, domain.ErrUserNotFound)
		if err != nil {
			return err
		}
		if sender.Username == recipient {
			return domain.ErrSelfTransfer
		}

		receiver, err := s.userRepo.GetByUsername(ctx, recipient)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRecipientNotFound
			}
			return err
		}

		if replay, err := s.replay(ctx, senderID, idempotencyKey); err != nil || replay != nil {
			result = replay
			return err
		}

		ok, err := s.userRepo.Debit(ctx, senderID, amount)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInsufficientBalance
		}
		if err := s.userRepo.Credit(ctx, receiver.ID, amount); err != nil {
			return err
		}

		transferID := uuid.New()
		date := s.now()
		base := models.Transaction{
			TransferID:   &transferID,
			Type:         string(domain.TransactionTransfer),
			From:         sender.ID.String(),
			To:           receiver.ID.String(),
			FromUsername: sender.Username,
			ToUsername:   receiver.Username,
			Amount:       amount,
			Note:         input.Note,
			IsPublic:     input.IsPublic,
			Date:         date,
		}
		senderRow, receiverRow := base, base
		senderRow.OwnerID = sender.ID
		senderRow.Role = string(domain.RoleSender)
		senderRow.IdempotencyKey = keyOrNil(idempotencyKey)
		receiverRow.OwnerID = receiver.ID
		receiverRow.Role = string(domain.RoleReceiver)

		if err := s.txRepo.Create(ctx, &senderRow, &receiverRow); err != nil {
			return err
		}

		result, err = s.balanceOf(ctx, senderID)
		if err != nil {
			return err
		}
		result.TransferID = &transferID

		event = &domain.TransferEvent{
			TransferID:        transferID,
			SenderID:          sender.ID,
			RecipientID:       receiver.ID,
			SenderUsername:    sender.Username,
			RecipientUsername: receiver.Username,
			Amount:            amount,
			Note:              input.Note,
			IsPublic:          input.IsPublic,
			Date:              date,
		}
		return nil
	})
	if err != nil {
		return s.afterRollback(ctx, senderID, idempotencyKey, err)
	}

	if event != nil {
		s.logger.Info("transfer completed",
			"transfer_id", event.TransferID,
			"from", event.SenderUsername,
			"to", event.RecipientUsername,
			"amount", amount,
		)
		s.publish(*event)
	}
	return result, nil
}

// RequestMoney records a money request. No funds move.
func (s *LedgerService) RequestMoney(ctx context.Context, senderID uuid.UUID, input *RequestMoneyInput) error {
	recipient := strings.TrimSpace(input.Recipient)
	amount := input.Amount.Round(2)
	if recipient == "" || !amount.IsPositive() {
		return domain.ErrInvalidInput
	}

	sender, err := s.getUser(ctx, senderID, domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	if sender.Username == recipient {
		return domain.ErrSelfRequest
	}

	receiver, err := s.userRepo.GetByUsername(ctx, recipient)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipientNotFound
		}
		return err
	}

	req := &models.MoneyRequest{
		SenderID:          sender.ID,
		RecipientID:       receiver.ID,
		SenderUsername:    sender.Username,
		RecipientUsername: receiver.Username,
		Amount:            amount,
		Note:              input.Note,
		IsPublic:          input.IsPublic,
		Date:              s.now(),
	}
	if err := s.reqRepo.Create(ctx, req); err != nil {
		return err
	}

	s.logger.Info("money request sent", "from", sender.Username, "to", receiver.Username, "amount", amount)
	return nil
}

// ListTransactions lists the caller's ledger rows, newest first
func (s *LedgerService) ListTransactions(ctx context.Context, userID uuid.UUID, params *pagination.Params) (*pagination.Response, error) {
	txs, total, err := s.txRepo.ListByOwner(ctx, userID, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}
	return pagination.NewResponse(txs, params, total), nil
}

// RemoveCard deletes a saved card of the user
func (s *LedgerService) RemoveCard(ctx context.Context, userID uuid.UUID, cardNumber string) error {
	if strings.TrimSpace(cardNumber) == "" {
		return domain.ErrInvalidInput
	}
	if _, err := s.getUser(ctx, userID, domain.ErrUserNotFound); err != nil {
		return err
	}

	deleted, err := s.cardRepo.Delete(ctx, userID, cardNumber)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrCardNotFound
	}

	s.logger.Info("card removed", "user_id", userID, "card", domain.MaskCardNumber(cardNumber))
	return nil
}

func (s *LedgerService) getUser(ctx context.Context, id uuid.UUID, notFound error) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	return user, nil
}

func (s *LedgerService) saveCard(ctx context.Context, userID uuid.UUID, card *domain.CardInput) error {
	_, err := s.cardRepo.GetByNumber(ctx, userID, card.CardNumber)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.cardRepo.Create(ctx, &models.Card{
		UserID:          userID,
		CardNumber:      card.CardNumber,
		ExpirationMonth: card.ExpirationMonth,
		ExpirationYear:  card.ExpirationYear,
		CVV:             card.CVV,
		CardHolder:      card.CardHolder,
	})
}

func (s *LedgerService) balanceOf(ctx context.Context, userID uuid.UUID) (*BalanceResult, error) {
	user, err := s.getUser(ctx, userID, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return &BalanceResult{NewBalance: user.Balance}, nil
}

// replay returns a result when the key was already used by this owner
func (s *LedgerService) replay(ctx context.Context, ownerID uuid.UUID, key string) (*BalanceResult, error) {
	if key == "" {
		return nil, nil
	}
	prev, err := s.txRepo.GetByIdempotencyKey(ctx, ownerID, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	result, err := s.balanceOf(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	result.TransferID = prev.TransferID
	result.Replayed = true
	return result, nil
}

// afterRollback turns a lost idempotency race into a replay
func (s *LedgerService) afterRollback(ctx context.Context, ownerID uuid.UUID, key string, err error) (*BalanceResult, error) {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}
	if key != "" {
		result, replayErr := s.replay(ctx, ownerID, key)
		if replayErr != nil || result != nil {
			return result, replayErr
		}
	}
	// the duplicate came from another index, nothing was written
	return nil, domain.ErrConcurrentUpdate
}

// publish sends the event without blocking the caller.
// The request context is not reused since it ends with the response.
func (s *LedgerService) publish(event domain.TransferEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.events.PublishTransfer(ctx, event); err != nil {
			s.logger.Warn("transfer event not published", "transfer_id", event.TransferID, "error", err)
		}
	}()
}

func keyOrNil(key string) *string {
	if key == "" {
		return nil
	}
	return &key
}
