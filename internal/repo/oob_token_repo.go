package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/mimipoint/backend/internal/domain/model"
)

// OOBTokenRepo stores the emailed one-time codes. Replace enforces at most
// one live token per (email, kind); Consume deletes the row so a code is
// valid exactly once between issuance and redemption or expiry.
type OOBTokenRepo interface {
	Replace(ctx context.Context, token model.OutOfBandToken) error

	GetByToken(ctx context.Context, kind model.TokenKind, token string) (model.OutOfBandToken, error)

	Consume(ctx context.Context, id uuid.UUID) error
}
