package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
	"github.com/mimipoint/backend/internal/domain/model"
)

type OOBTokenRepo struct {
	db *gorm.DB
}

func NewOOBTokenRepo(db *gorm.DB) *OOBTokenRepo {
	return &OOBTokenRepo{db: db}
}

// Replace deletes any previous token for the same (email, kind) before
// inserting, so re-issuing invalidates the old code.
func (p *OOBTokenRepo) Replace(ctx context.Context, token model.OutOfBandToken) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("email = ? AND kind = ?", token.Email, token.Kind).
			Delete(&model.OutOfBandToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&token).Error
	})
	if err != nil {
		return customErrors.WrapInternal(err, "Replace")
	}
	return nil
}

func (p *OOBTokenRepo) GetByToken(ctx context.Context, kind model.TokenKind, token string) (model.OutOfBandToken, error) {
	var t model.OutOfBandToken
	res := p.db.WithContext(ctx).Where("kind = ? AND token = ?", kind, token).First(&t)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.OutOfBandToken{}, customErrors.ErrInvalidToken
	}
	if err := res.Error; err != nil {
		return model.OutOfBandToken{}, customErrors.WrapInternal(err, "GetByToken")
	}

	return t, nil
}

// Consume deletes the row; a second redemption of the same code finds
// nothing and fails.
func (p *OOBTokenRepo) Consume(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Delete(&model.OutOfBandToken{}, id)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "Consume")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrInvalidToken
	}

	return nil
}
