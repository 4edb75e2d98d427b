package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
	"github.com/mimipoint/backend/internal/domain/model"
	"github.com/mimipoint/backend/internal/repo"
)

// TokenService issues and redeems the emailed one-time codes shared by the
// verification, password reset and two-factor flows.
type TokenService struct {
	oobTokens repo.OOBTokenRepo
	txm       repo.TxManager
	ttl       time.Duration
}

func NewTokenService(oobTokens repo.OOBTokenRepo, txm repo.TxManager, ttl time.Duration) *TokenService {
	return &TokenService{oobTokens: oobTokens, txm: txm, ttl: ttl}
}

func opaqueValue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", customErrors.WrapInternal(err, "opaqueValue")
	}
	return hex.EncodeToString(buf), nil
}

// Generate mints a fresh code for the email, replacing any live code of
// the same kind.
func (s *TokenService) Generate(ctx context.Context, email string, kind model.TokenKind) (model.OutOfBandToken, error) {
	value, err := opaqueValue()
	if err != nil {
		return model.OutOfBandToken{}, err
	}

	token := model.OutOfBandToken{
		ID:        uuid.New(),
		Email:     email,
		Kind:      kind,
		Token:     value,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.oobTokens.Replace(ctx, token); err != nil {
		return model.OutOfBandToken{}, err
	}

	return token, nil
}

// Redeem consumes the code and runs the domain effect in one database
// transaction. Expired or already-consumed codes fail uniformly with
// ErrInvalidToken; a failed effect rolls the consumption back.
func (s *TokenService) Redeem(ctx context.Context, kind model.TokenKind, value string, effect func(r repo.TxRepos, email string) error) error {
	return s.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		token, err := r.OOBTokens().GetByToken(ctx, kind, value)
		if err != nil {
			return err
		}
		if time.Now().After(token.ExpiresAt) {
			return customErrors.ErrInvalidToken
		}
		if err := r.OOBTokens().Consume(ctx, token.ID); err != nil {
			return err
		}
		return effect(r, token.Email)
	})
}
