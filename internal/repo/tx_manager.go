package repo

import "context"

// TxRepos exposes the repositories participating in one database transaction.
type TxRepos interface {
	Users() UserRepo
	OOBTokens() OOBTokenRepo
	Wallets() WalletRepo
	Transactions() TransactionRepo
}

// TxManager hides transaction begin/commit/rollback from services.
// Out-of-band token redemption consumes the code and applies its domain
// effect inside one WithinTx call; the wallet service pairs each balance
// change with its transaction row the same way.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
