package wallet

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
	"github.com/mimipoint/backend/internal/domain/model"
	"github.com/mimipoint/backend/internal/payment/paystack"
	"github.com/mimipoint/backend/internal/repo"
)

// Every user owns one wallet per currency; List lazily creates the missing
// ones so callers never see a partial set.
var walletTypes = []model.WalletType{model.WalletNaira, model.WalletDollar, model.WalletEuro}

type Service struct {
	wallets      repo.WalletRepo
	transactions repo.TransactionRepo
	activities   repo.ActivityRepo
	tx           repo.TxManager
	gateway      paystack.Gateway
	log          *zap.Logger
}

func NewService(
	wallets repo.WalletRepo,
	transactions repo.TransactionRepo,
	activities repo.ActivityRepo,
	tx repo.TxManager,
	gateway paystack.Gateway,
	log *zap.Logger,
) *Service {
	return &Service{
		wallets:      wallets,
		transactions: transactions,
		activities:   activities,
		tx:           tx,
		gateway:      gateway,
		log:          log,
	}
}

func newReference() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", customErrors.WrapInternal(err, "newReference")
	}
	return "Payment--" + hex.EncodeToString(buf)[:11], nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]model.Wallet, error) {
	existing, err := s.wallets.ListWallets(ctx, userID)
	if err != nil {
		return nil, err
	}

	have := make(map[model.WalletType]bool, len(existing))
	for _, w := range existing {
		have[w.WalletType] = true
	}
	for _, wt := range walletTypes {
		if have[wt] {
			continue
		}
		created, err := s.wallets.CreateWallet(ctx, model.Wallet{
			ID:         uuid.New(),
			UserID:     userID,
			WalletType: wt,
			Balance:    decimal.Zero,
		})
		if err != nil {
			return nil, err
		}
		existing = append(existing, created)
	}

	return existing, nil
}

func (s *Service) Get(ctx context.Context, userID, walletID uuid.UUID) (model.Wallet, error) {
	w, err := s.wallets.GetWalletByID(ctx, walletID)
	if err != nil {
		return model.Wallet{}, err
	}
	if w.UserID != userID {
		return model.Wallet{}, customErrors.ErrPermissionDenied
	}
	return w, nil
}

func (s *Service) Delete(ctx context.Context, userID, walletID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, walletID); err != nil {
		return err
	}
	if err := s.wallets.DeleteWallet(ctx, walletID); err != nil {
		return err
	}

	s.recordActivity(ctx, userID, fmt.Sprintf("deleted wallet %s", walletID), model.ActivityDelete)
	return nil
}

// Deposit credits the wallet and records a successful topup transaction.
// The balance change and the transaction row commit together.
func (s *Service) Deposit(ctx context.Context, userID, walletID uuid.UUID, amount decimal.Decimal) (model.Transaction, error) {
	if !amount.IsPositive() {
		return model.Transaction{}, customErrors.NewInvalidArgument("amount must be positive")
	}
	if _, err := s.Get(ctx, userID, walletID); err != nil {
		return model.Transaction{}, err
	}

	var tx model.Transaction
	err := s.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Wallets().Deposit(ctx, walletID, amount); err != nil {
			return err
		}
		var err error
		tx, err = s.record(ctx, r.Transactions(), userID, walletID, model.TxTopup, amount, model.TxSuccess, nil)
		return err
	})
	if err != nil {
		return model.Transaction{}, err
	}

	s.recordActivity(ctx, userID, fmt.Sprintf("deposited %s", amount.StringFixed(2)), model.ActivityUpdate)
	return tx, nil
}

// Withdraw debits the wallet through a conditional update so two concurrent
// withdrawals can never overdraw it. The guard failing surfaces as
// ErrInsufficientFunds and rolls back without recording anything.
func (s *Service) Withdraw(ctx context.Context, userID, walletID uuid.UUID, amount decimal.Decimal, txType model.TransactionType) (model.Transaction, error) {
	if !amount.IsPositive() {
		return model.Transaction{}, customErrors.NewInvalidArgument("amount must be positive")
	}
	if _, err := s.Get(ctx, userID, walletID); err != nil {
		return model.Transaction{}, err
	}

	var tx model.Transaction
	err := s.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ok, err := r.Wallets().Withdraw(ctx, walletID, amount)
		if err != nil {
			return err
		}
		if !ok {
			return customErrors.ErrInsufficientFunds
		}
		tx, err = s.record(ctx, r.Transactions(), userID, walletID, txType, amount, model.TxSuccess, nil)
		return err
	})
	if err != nil {
		return model.Transaction{}, err
	}

	s.recordActivity(ctx, userID, fmt.Sprintf("withdrew %s", amount.StringFixed(2)), model.ActivityUpdate)
	return tx, nil
}

// InitiateTopup opens a pending transaction whose reference the frontend
// hands to the payment provider. The wallet is only credited once
// ConfirmTopup sees the provider report success.
func (s *Service) InitiateTopup(ctx context.Context, userID, walletID uuid.UUID, amount decimal.Decimal) (model.Transaction, error) {
	if !amount.IsPositive() {
		return model.Transaction{}, customErrors.NewInvalidArgument("amount must be positive")
	}
	if _, err := s.Get(ctx, userID, walletID); err != nil {
		return model.Transaction{}, err
	}

	return s.record(ctx, s.transactions, userID, walletID, model.TxTopup, amount, model.TxPending, nil)
}

// ConfirmTopup settles a pending topup after asking the provider whether it
// was paid. The pending-to-settled flip is a conditional UPDATE inside the
// same transaction as the credit, so a reference confirmed twice in parallel
// credits the wallet exactly once.
func (s *Service) ConfirmTopup(ctx context.Context, userID uuid.UUID, reference string) (model.Transaction, error) {
	tx, err := s.transactions.GetTransactionByReference(ctx, reference)
	if err != nil {
		return model.Transaction{}, err
	}
	if tx.UserID != userID {
		return model.Transaction{}, customErrors.ErrPermissionDenied
	}
	if tx.Status != model.TxPending {
		return tx, nil
	}

	paid, payload, err := s.gateway.VerifyPayment(ctx, reference)
	if err != nil {
		return model.Transaction{}, err
	}

	status := model.TxFailed
	if paid {
		status = model.TxSuccess
	}

	var settled bool
	err = s.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ok, err := r.Transactions().SettleIfPending(ctx, tx.ID, status, payload)
		if err != nil {
			return err
		}
		settled = ok
		if !ok || !paid || tx.WalletID == nil {
			return nil
		}
		return r.Wallets().Deposit(ctx, *tx.WalletID, tx.Amount)
	})
	if err != nil {
		return model.Transaction{}, err
	}
	if !settled {
		// Another confirmation won the flip; report what it left behind.
		return s.transactions.GetTransactionByID(ctx, tx.ID)
	}

	tx.Status = status
	tx.ProviderResponse = payload
	if paid {
		s.recordActivity(ctx, userID, fmt.Sprintf("topup %s confirmed", reference), model.ActivityUpdate)
	}
	return tx, nil
}

// ListTransactions returns the user's transactions, newest first.
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Transaction, error) {
	return s.transactions.ListUserTransactions(ctx, userID, limit, offset)
}

// ListAllTransactions is the admin view across every user.
func (s *Service) ListAllTransactions(ctx context.Context, limit, offset int) ([]model.Transaction, error) {
	return s.transactions.ListTransactions(ctx, limit, offset)
}

func (s *Service) GetTransaction(ctx context.Context, userID, id uuid.UUID) (model.Transaction, error) {
	tx, err := s.transactions.GetTransactionByID(ctx, id)
	if err != nil {
		return model.Transaction{}, err
	}
	if tx.UserID != userID {
		return model.Transaction{}, customErrors.ErrPermissionDenied
	}
	return tx, nil
}

func (s *Service) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetTransaction(ctx, userID, id); err != nil {
		return err
	}
	if err := s.transactions.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	s.recordActivity(ctx, userID, fmt.Sprintf("deleted transaction %s", id), model.ActivityDelete)
	return nil
}

func (s *Service) record(
	ctx context.Context,
	transactions repo.TransactionRepo,
	userID, walletID uuid.UUID,
	txType model.TransactionType,
	amount decimal.Decimal,
	status model.TransactionStatus,
	payload []byte,
) (model.Transaction, error) {
	ref, err := newReference()
	if err != nil {
		return model.Transaction{}, err
	}
	return transactions.CreateTransaction(ctx, model.Transaction{
		ID:               uuid.New(),
		UserID:           userID,
		WalletID:         &walletID,
		TransactionType:  txType,
		Amount:           amount,
		Status:           status,
		Reference:        ref,
		ProviderResponse: payload,
	})
}

func (s *Service) recordActivity(ctx context.Context, userID uuid.UUID, description string, kind model.ActivityType) {
	a := model.Activity{
		ID:           uuid.New(),
		UserID:       userID,
		Description:  description,
		ActivityType: kind,
	}
	if err := s.activities.CreateActivity(ctx, a); err != nil {
		s.log.Warn("record activity", zap.Error(err))
	}
}
