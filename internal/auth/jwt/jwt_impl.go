package jwt

import (
	"crypto/rsa"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mimipoint/backend/internal/config"
	customErrors "github.com/mimipoint/backend/internal/domain/errors"
	"github.com/mimipoint/backend/internal/domain/model"
)

type jwtUtilImpl struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	audience   string
}

func NewJWTUtil(cfg *config.Config) (*jwtUtilImpl, error) {
	privPem, err := os.ReadFile(cfg.JWTPrivateKeyPath)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "read private key")
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPem)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "parse private key")
	}

	pubPem, err := os.ReadFile(cfg.JWTPublicKeyPath)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "read public key")
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPem)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "parse public key")
	}

	return &jwtUtilImpl{
		privateKey: privKey,
		publicKey:  pubKey,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
	}, nil
}

func (j *jwtUtilImpl) registered(userID uuid.UUID, ttl time.Duration, jti string) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Issuer:    j.issuer,
		Audience:  jwt.ClaimStrings{j.audience},
		ID:        jti,
	}
}

func (j *jwtUtilImpl) GenerateAccessToken(userID uuid.UUID, role model.Role) (token string, exp time.Time, jti string, err error) {
	jti = uuid.NewString()

	claims := AccessClaims{
		RegisteredClaims: j.registered(userID, j.accessTTL, jti),
		Role:             role,
		Refresh:          false,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(j.privateKey)
	if err != nil {
		return "", time.Time{}, "", customErrors.WrapInternal(err, "sign access token")
	}

	return signed, claims.ExpiresAt.Time, jti, nil
}

func (j *jwtUtilImpl) GenerateRefreshToken(userID uuid.UUID, role model.Role) (token string, exp time.Time, jti string, err error) {
	jti = uuid.NewString()

	claims := RefreshClaims{
		RegisteredClaims: j.registered(userID, j.refreshTTL, jti),
		Role:             role,
		Refresh:          true,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(j.privateKey)
	if err != nil {
		return "", time.Time{}, "", customErrors.WrapInternal(err, "sign refresh token")
	}

	return signed, claims.ExpiresAt.Time, jti, nil
}

func (j *jwtUtilImpl) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != jwt.SigningMethodRS256.Alg() {
		return nil, customErrors.ErrInvalidToken
	}
	return j.publicKey, nil
}

// ValidateAccessToken checks signature, expiry, issuer/audience and the
// refresh flag. Every failure collapses into ErrInvalidToken so callers
// cannot tell a forged token from an expired one.
func (j *jwtUtilImpl) ValidateAccessToken(raw string) (AccessClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &AccessClaims{}, j.keyFunc,
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(j.audience),
	)

	if err != nil || !token.Valid {
		return AccessClaims{}, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok {
		return AccessClaims{}, customErrors.WrapInternal(
			errors.New("claims not AccessClaims"), "ValidateAccessToken",
		)
	}

	if claims.Refresh {
		return AccessClaims{}, customErrors.ErrInvalidToken
	}

	return *claims, nil
}

func (j *jwtUtilImpl) ValidateRefreshToken(raw string) (RefreshClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &RefreshClaims{}, j.keyFunc,
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(j.audience),
	)

	if err != nil || !token.Valid {
		return RefreshClaims{}, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*RefreshClaims)
	if !ok {
		return RefreshClaims{}, customErrors.WrapInternal(
			errors.New("claims not RefreshClaims"), "ValidateRefreshToken",
		)
	}

	if !claims.Refresh {
		return RefreshClaims{}, customErrors.ErrInvalidToken
	}

	return *claims, nil
}
