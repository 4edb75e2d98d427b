package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mimipoint/backend/internal/domain/model"
)

type WalletRepo interface {
	CreateWallet(ctx context.Context, w model.Wallet) (model.Wallet, error)

	GetWalletByID(ctx context.Context, id uuid.UUID) (model.Wallet, error)

	ListWallets(ctx context.Context, userID uuid.UUID) ([]model.Wallet, error)

	ListWalletsByType(ctx context.Context, userID uuid.UUID, walletType model.WalletType) ([]model.Wallet, error)

	DeleteWallet(ctx context.Context, id uuid.UUID) error

	// Deposit adds amount unconditionally.
	Deposit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error

	// Withdraw subtracts amount only while balance >= amount, as a single
	// conditional UPDATE. Returns false when the balance guard fails.
	Withdraw(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error)
}
