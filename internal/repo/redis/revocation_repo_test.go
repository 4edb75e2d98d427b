package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redisv9.Client) {
	mr := miniredis.RunT(t)
	return mr, redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
}

func TestRevocationRepo_Revoke(t *testing.T) {
	_, client := newClient(t)
	repo := NewRevocationRepo(client)
	ctx := context.Background()

	exp := time.Now().Add(time.Minute)
	if err := repo.Revoke(ctx, "jti", exp); err != nil {
		t.Fatalf("revoke %v", err)
	}
	ok, err := repo.IsRevoked(ctx, "jti")
	if err != nil || !ok {
		t.Fatalf("is revoked %v %v", ok, err)
	}
}

func TestRevocationRepo_NotRevoked(t *testing.T) {
	_, client := newClient(t)
	repo := NewRevocationRepo(client)

	ok, err := repo.IsRevoked(context.Background(), "unknown")
	if err != nil || ok {
		t.Fatalf("is revoked %v %v", ok, err)
	}
}

func TestRevocationRepo_EntryExpires(t *testing.T) {
	mr, client := newClient(t)
	repo := NewRevocationRepo(client)
	ctx := context.Background()

	if err := repo.Revoke(ctx, "jti", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("revoke %v", err)
	}
	mr.FastForward(2 * time.Minute)

	ok, err := repo.IsRevoked(ctx, "jti")
	if err != nil || ok {
		t.Fatalf("entry should have expired: %v %v", ok, err)
	}
}

func TestRevocationRepo_ExpiredTokenNoop(t *testing.T) {
	_, client := newClient(t)
	repo := NewRevocationRepo(client)
	ctx := context.Background()

	if err := repo.Revoke(ctx, "old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("revoke %v", err)
	}
	ok, _ := repo.IsRevoked(ctx, "old")
	if ok {
		t.Fatal("expired token should not be stored")
	}
}

func TestOAuthCodeRepo_SingleUse(t *testing.T) {
	_, client := newClient(t)
	repo := NewOAuthCodeRepo(client)
	ctx := context.Background()

	if err := repo.Store(ctx, "code", "user-1", time.Minute); err != nil {
		t.Fatalf("store %v", err)
	}

	userID, err := repo.Redeem(ctx, "code")
	if err != nil || userID != "user-1" {
		t.Fatalf("redeem %q %v", userID, err)
	}

	if _, err := repo.Redeem(ctx, "code"); !customErrors.IsInvalidToken(err) {
		t.Fatalf("second redeem should fail with invalid token, got %v", err)
	}
}

func TestOAuthCodeRepo_Expires(t *testing.T) {
	mr, client := newClient(t)
	repo := NewOAuthCodeRepo(client)
	ctx := context.Background()

	if err := repo.Store(ctx, "code", "user-1", time.Minute); err != nil {
		t.Fatalf("store %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := repo.Redeem(ctx, "code"); !customErrors.IsInvalidToken(err) {
		t.Fatalf("expired code should fail with invalid token, got %v", err)
	}
}

func TestKeyspacesDoNotCollide(t *testing.T) {
	_, client := newClient(t)
	revocation := NewRevocationRepo(client)
	codes := NewOAuthCodeRepo(client)
	ctx := context.Background()

	if err := codes.Store(ctx, "abc", "user-1", time.Minute); err != nil {
		t.Fatalf("store %v", err)
	}
	ok, err := revocation.IsRevoked(ctx, "abc")
	if err != nil || ok {
		t.Fatalf("oauth code leaked into revocation keyspace: %v %v", ok, err)
	}
}
