package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
	"github.com/mimipoint/backend/internal/domain/model"
)

type WalletRepo struct {
	db *gorm.DB
}

func NewWalletRepo(db *gorm.DB) *WalletRepo {
	return &WalletRepo{db: db}
}

func (p *WalletRepo) CreateWallet(ctx context.Context, w model.Wallet) (model.Wallet, error) {
	if err := p.db.WithContext(ctx).Create(&w).Error; err != nil {
		return model.Wallet{}, customErrors.WrapInternal(err, "CreateWallet")
	}
	return w, nil
}

func (p *WalletRepo) GetWalletByID(ctx context.Context, id uuid.UUID) (model.Wallet, error) {
	var w model.Wallet
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&w)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Wallet{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Wallet{}, customErrors.WrapInternal(err, "GetWalletByID")
	}

	return w, nil
}

func (p *WalletRepo) ListWallets(ctx context.Context, userID uuid.UUID) ([]model.Wallet, error) {
	var wallets []model.Wallet
	res := p.db.WithContext(ctx).Where("user_id = ?", userID).Find(&wallets)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListWallets")
	}
	return wallets, nil
}

func (p *WalletRepo) ListWalletsByType(ctx context.Context, userID uuid.UUID, walletType model.WalletType) ([]model.Wallet, error) {
	var wallets []model.Wallet
	res := p.db.WithContext(ctx).
		Where("user_id = ? AND wallet_type = ?", userID, walletType).
		Find(&wallets)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListWalletsByType")
	}
	return wallets, nil
}

func (p *WalletRepo) DeleteWallet(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Delete(&model.Wallet{}, id)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteWallet")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}

func (p *WalletRepo) Deposit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	res := p.db.WithContext(ctx).
		Model(&model.Wallet{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", amount))
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "Deposit")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}

// Withdraw decrements the balance only while it stays non-negative. The
// guard lives in the WHERE clause so concurrent withdrawals serialize on
// the row update instead of racing a read-then-write.
func (p *WalletRepo) Withdraw(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	res := p.db.WithContext(ctx).
		Model(&model.Wallet{}).
		Where("id = ? AND balance >= ?", id, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if err := res.Error; err != nil {
		return false, customErrors.WrapInternal(err, "Withdraw")
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	return true, nil
}
