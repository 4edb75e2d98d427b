package repo

import (
	"context"
	"time"
)

// TokenRepo is the revocation blocklist: jtis marked here are treated as
// invalid until their natural expiry, after which the store forgets them.
type TokenRepo interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error

	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// OAuthCodeRepo maps single-use browser exchange codes to user ids. Kept
// separate from TokenRepo so the two TTL policies never cross-contaminate.
type OAuthCodeRepo interface {
	Store(ctx context.Context, code string, userID string, ttl time.Duration) error

	// Redeem returns the mapped user id and deletes the code in one step.
	Redeem(ctx context.Context, code string) (string, error)
}
