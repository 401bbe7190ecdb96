package handlers

import (
	"peerpay/internal/adapters/http/middleware"
	"peerpay/internal/core/services"
	"peerpay/internal/pkg/pagination"
	"peerpay/internal/pkg/response"
	"peerpay/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// IdempotencyHeader carries the client key of a balance changing request
const IdempotencyHeader = "Idempotency-Key"

// TransactionHandler handles ledger endpoints
type TransactionHandler struct {
	ledgerService *services.LedgerService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(ledgerService *services.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

// Deposit credits the caller's balance
// @Summary Deposit
// @Description Deposit from a card. The card is saved when isSaved is set.
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key"
// @Param body body services.DepositInput true "Deposit"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transactions/deposit [post]
func (h *TransactionHandler) Deposit(c *fiber.Ctx) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	input, err := validate.BindAndValidate[services.DepositInput](c)
	if err != nil {
		return bindError(c, err)
	}
	if !matchesCaller(caller, input.UserID) {
		return response.Forbidden(c, "Forbidden")
	}

	result, err := h.ledgerService.Deposit(c.Context(), caller.UserID, input, c.Get(IdempotencyHeader))
	if err != nil {
		return writeError(c, err, "Failed to deposit")
	}

	return response.Replayable(c, "Deposit successful", result, result.Replayed)
}

// Withdraw debits the caller's balance
// @Summary Withdraw
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key"
// @Param body body services.WithdrawInput true "Withdrawal"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transactions/withdraw [post]
func (h *TransactionHandler) Withdraw(c *fiber.Ctx) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	input, err := validate.BindAndValidate[services.WithdrawInput](c)
	if err != nil {
		return bindError(c, err)
	}
	if !matchesCaller(caller, input.UserID) {
		return response.Forbidden(c, "Forbidden")
	}

	result, err := h.ledgerService.Withdraw(c.Context(), caller.UserID, input, c.Get(IdempotencyHeader))
	if err != nil {
		return writeError(c, err, "Failed to withdraw")
	}

	return response.Replayable(c, "Withdrawal successful", result, result.Replayed)
}

// Send transfers money to another user
// @Summary Send money
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key"
// @Param body body services.SendInput true "Transfer"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transactions/send [post]
func (h *TransactionHandler) Send(c *fiber.Ctx) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	input, err := validate.BindAndValidate[services.SendInput](c)
	if err != nil {
		return bindError(c, err)
	}

	result, err := h.ledgerService.Send(c.Context(), caller.UserID, input, c.Get(IdempotencyHeader))
	if err != nil {
		return writeError(c, err, "Failed to send money")
	}

	return response.Replayable(c, "Transfer successful", result, result.Replayed)
}

// RequestMoney asks another user for money
// @Summary Request money
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RequestMoneyInput true "Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transactions/request [post]
func (h *TransactionHandler) RequestMoney(c *fiber.Ctx) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	input, err := validate.BindAndValidate[services.RequestMoneyInput](c)
	if err != nil {
		return bindError(c, err)
	}

	if err := h.ledgerService.RequestMoney(c.Context(), caller.UserID, input); err != nil {
		return writeError(c, err, "Failed to request money")
	}

	return response.Success(c, "Money request sent successfully", nil)
}

// List returns the caller's transactions, newest first
// @Summary List transactions
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	caller, ok := middleware.CurrentIdentity(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.ledgerService.ListTransactions(c.Context(), caller.UserID, pagination.GetParams(c))
	if err != nil {
		return writeError(c, err, "Failed to list transactions")
	}

	return response.Success(c, "", result)
}
