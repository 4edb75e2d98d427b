package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mimipoint/backend/internal/domain/model"
)

// AccessClaims authorize API calls. Role is embedded at issue time and is
// not re-read on refresh, so a role change only takes effect after re-login.
type AccessClaims struct {
	jwt.RegisteredClaims
	Role    model.Role `json:"role"`
	Refresh bool       `json:"refresh"`
}

// RefreshClaims are used only to mint new access tokens. They carry the
// subject's role so the refreshed access token can be signed without a
// database read.
type RefreshClaims struct {
	jwt.RegisteredClaims
	Role    model.Role `json:"role"`
	Refresh bool       `json:"refresh"`
}

type JWTUtil interface {
	GenerateAccessToken(userID uuid.UUID, role model.Role) (token string, exp time.Time, jti string, err error)
	GenerateRefreshToken(userID uuid.UUID, role model.Role) (token string, exp time.Time, jti string, err error)
	ValidateAccessToken(token string) (claims AccessClaims, err error)
	ValidateRefreshToken(token string) (claims RefreshClaims, err error)
}
