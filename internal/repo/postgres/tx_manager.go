package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/mimipoint/backend/internal/repo"
)

type txRepos struct {
	users        repo.UserRepo
	oobTokens    repo.OOBTokenRepo
	wallets      repo.WalletRepo
	transactions repo.TransactionRepo
}

func (r *txRepos) Users() repo.UserRepo               { return r.users }
func (r *txRepos) OOBTokens() repo.OOBTokenRepo       { return r.oobTokens }
func (r *txRepos) Wallets() repo.WalletRepo           { return r.wallets }
func (r *txRepos) Transactions() repo.TransactionRepo { return r.transactions }

type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

func (tm *TxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := &txRepos{
			users:        NewUserRepo(tx),
			oobTokens:    NewOOBTokenRepo(tx),
			wallets:      NewWalletRepo(tx),
			transactions: NewTransactionRepo(tx),
		}
		return fn(r)
	})
}
