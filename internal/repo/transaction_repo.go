package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/mimipoint/backend/internal/domain/model"
)

type TransactionRepo interface {
	CreateTransaction(ctx context.Context, tx model.Transaction) (model.Transaction, error)

	GetTransactionByID(ctx context.Context, id uuid.UUID) (model.Transaction, error)

	GetTransactionByReference(ctx context.Context, reference string) (model.Transaction, error)

	ListTransactions(ctx context.Context, limit, offset int) ([]model.Transaction, error)

	ListUserTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Transaction, error)

	// SettleIfPending flips a pending transaction to its final status as a
	// single conditional UPDATE. Returns false when the row was already
	// settled, so concurrent confirmations apply the payment effect once.
	SettleIfPending(ctx context.Context, id uuid.UUID, status model.TransactionStatus, providerResponse []byte) (bool, error)

	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}
