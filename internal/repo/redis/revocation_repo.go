package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
)

const (
	revokedPrefix   = "revoked:"
	oauthCodePrefix = "oauthcode:"
)

// RevocationRepo blocklists token ids. Entries expire together with the
// token they revoke, so the set never outgrows the number of still-valid
// revocations.
type RevocationRepo struct {
	client *redis.Client
}

func NewRevocationRepo(client *redis.Client) *RevocationRepo {
	return &RevocationRepo{client: client}
}

func (r *RevocationRepo) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired, nothing to block.
		return nil
	}
	return r.client.Set(ctx, revokedPrefix+jti, "1", ttl).Err()
}

func (r *RevocationRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	count, err := r.client.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// OAuthCodeRepo holds the one-time browser exchange codes in their own
// keyspace with their own TTL policy.
type OAuthCodeRepo struct {
	client *redis.Client
}

func NewOAuthCodeRepo(client *redis.Client) *OAuthCodeRepo {
	return &OAuthCodeRepo{client: client}
}

func (r *OAuthCodeRepo) Store(ctx context.Context, code string, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, oauthCodePrefix+code, userID, ttl).Err()
}

// Redeem fetches and deletes atomically so a code can be exchanged once.
func (r *OAuthCodeRepo) Redeem(ctx context.Context, code string) (string, error) {
	userID, err := r.client.GetDel(ctx, oauthCodePrefix+code).Result()
	if errors.Is(err, redis.Nil) {
		return "", customErrors.ErrInvalidToken
	}
	if err != nil {
		return "", err
	}

	return userID, nil
}
