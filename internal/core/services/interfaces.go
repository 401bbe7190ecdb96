package services

import (
	"context"

	"peerpay/internal/core/domain"

	"github.com/google/uuid"
)

// UsernameCache caches immutable id to username lookups
type UsernameCache interface {
	Get(ctx context.Context, id uuid.UUID) (string, bool)
	Set(ctx context.Context, id uuid.UUID, username string)
}

// EventPublisher publishes ledger events after commit
type EventPublisher interface {
	PublishTransfer(ctx context.Context, event domain.TransferEvent) error
}
