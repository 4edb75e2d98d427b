package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
	"github.com/mimipoint/backend/internal/domain/model"
)

type TransactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

func (p *TransactionRepo) CreateTransaction(ctx context.Context, tx model.Transaction) (model.Transaction, error) {
	res := p.db.WithContext(ctx).Create(&tx)
	if err := res.Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.Transaction{}, customErrors.ErrAlreadyExists
		}
		return model.Transaction{}, customErrors.WrapInternal(err, "CreateTransaction")
	}
	return tx, nil
}

func (p *TransactionRepo) GetTransactionByID(ctx context.Context, id uuid.UUID) (model.Transaction, error) {
	var tx model.Transaction
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&tx)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Transaction{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Transaction{}, customErrors.WrapInternal(err, "GetTransactionByID")
	}

	return tx, nil
}

func (p *TransactionRepo) GetTransactionByReference(ctx context.Context, reference string) (model.Transaction, error) {
	var tx model.Transaction
	res := p.db.WithContext(ctx).Where("reference = ?", reference).First(&tx)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Transaction{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Transaction{}, customErrors.WrapInternal(err, "GetTransactionByReference")
	}

	return tx, nil
}

func (p *TransactionRepo) ListTransactions(ctx context.Context, limit, offset int) ([]model.Transaction, error) {
	var txs []model.Transaction
	res := p.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListTransactions")
	}
	return txs, nil
}

func (p *TransactionRepo) ListUserTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Transaction, error) {
	var txs []model.Transaction
	res := p.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs)
	if err := res.Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListUserTransactions")
	}
	return txs, nil
}

func (p *TransactionRepo) SettleIfPending(ctx context.Context, id uuid.UUID, status model.TransactionStatus, providerResponse []byte) (bool, error) {
	res := p.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.TxPending).
		Updates(map[string]interface{}{
			"status":            status,
			"provider_response": providerResponse,
		})
	if err := res.Error; err != nil {
		return false, customErrors.WrapInternal(err, "SettleIfPending")
	}

	return res.RowsAffected > 0, nil
}

func (p *TransactionRepo) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Delete(&model.Transaction{}, id)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteTransaction")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}
