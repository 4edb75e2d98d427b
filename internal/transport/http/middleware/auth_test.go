package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	jwtutil "github.com/mimipoint/backend/internal/auth/jwt"
	"github.com/mimipoint/backend/internal/config"
	"github.com/mimipoint/backend/internal/domain/model"
)

type fakeRevocations struct {
	revoked map[string]bool
}

func (f *fakeRevocations) Revoke(_ context.Context, jti string, _ time.Time) error {
	f.revoked[jti] = true
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

func authRouter(t *testing.T) (*gin.Engine, jwtutil.JWTUtil, *fakeRevocations) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	util, err := jwtutil.NewJWTUtil(&config.Config{
		JWTPrivateKeyPath: "../../../auth/jwt/testdata/priv.pem",
		JWTPublicKeyPath:  "../../../auth/jwt/testdata/pub.pem",
		AccessTokenTTL:    time.Minute,
		RefreshTokenTTL:   time.Hour,
		Issuer:            "test",
		Audience:          "test",
	})
	require.NoError(t, err)

	revocations := &fakeRevocations{revoked: make(map[string]bool)}

	r := gin.New()
	r.Use(BearerAuth(util, revocations))
	r.GET("/me", func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.String()})
	})
	r.GET("/admin", RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, util, revocations
}

func get(r *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestBearerAuth(t *testing.T) {
	r, util, _ := authRouter(t)

	w := get(r, "/me", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/me", "garbage")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token, _, _, err := util.GenerateAccessToken(uuid.New(), model.RoleCustomer)
	require.NoError(t, err)
	w = get(r, "/me", token)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBearerAuth_RejectsRevoked(t *testing.T) {
	r, util, revocations := authRouter(t)

	token, exp, jti, err := util.GenerateAccessToken(uuid.New(), model.RoleCustomer)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, get(r, "/me", token).Code)
	require.NoError(t, revocations.Revoke(context.Background(), jti, exp))
	require.Equal(t, http.StatusUnauthorized, get(r, "/me", token).Code)
}

func TestBearerAuth_RejectsRefreshToken(t *testing.T) {
	r, util, _ := authRouter(t)

	refresh, _, _, err := util.GenerateRefreshToken(uuid.New(), model.RoleCustomer)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, get(r, "/me", refresh).Code)
}

func TestRequireRole(t *testing.T) {
	r, util, _ := authRouter(t)

	customer, _, _, err := util.GenerateAccessToken(uuid.New(), model.RoleCustomer)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, get(r, "/admin", customer).Code)

	admin, _, _, err := util.GenerateAccessToken(uuid.New(), model.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, get(r, "/admin", admin).Code)
}
