package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
)

// Profile is the identity asserted by the external provider.
type Profile struct {
	Email         string
	FirstName     string
	LastName      string
	Avatar        string
	EmailVerified bool
}

// Provider exchanges an authorization code from the browser redirect for
// a verified identity.
type Provider interface {
	Exchange(ctx context.Context, code string) (Profile, error)
}

const (
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

type GoogleProvider struct {
	clientID     string
	clientSecret string
	redirectURL  string
	tokenURL     string
	userInfoURL  string
	httpClient   *http.Client
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		tokenURL:     googleTokenURL,
		userInfoURL:  googleUserInfoURL,
		httpClient:   &http.Client{},
	}
}

type googleTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type googleUserInfo struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func (g *GoogleProvider) Exchange(ctx context.Context, code string) (Profile, error) {
	form := url.Values{
		"code":          {code},
		"client_id":     {g.clientID},
		"client_secret": {g.clientSecret},
		"redirect_uri":  {g.redirectURL},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Profile{}, customErrors.WrapInternal(err, "build token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: google token: %v", customErrors.ErrUpstreamProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("%w: google token status %d", customErrors.ErrUpstreamProvider, resp.StatusCode)
	}

	var token googleTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return Profile{}, fmt.Errorf("%w: google token: decode: %v", customErrors.ErrUpstreamProvider, err)
	}

	infoReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return Profile{}, customErrors.WrapInternal(err, "build userinfo request")
	}
	infoReq.Header.Set("Authorization", "Bearer "+token.AccessToken)

	infoResp, err := g.httpClient.Do(infoReq)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: google userinfo: %v", customErrors.ErrUpstreamProvider, err)
	}
	defer infoResp.Body.Close()

	if infoResp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("%w: google userinfo status %d", customErrors.ErrUpstreamProvider, infoResp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(infoResp.Body).Decode(&info); err != nil {
		return Profile{}, fmt.Errorf("%w: google userinfo: decode: %v", customErrors.ErrUpstreamProvider, err)
	}

	return Profile{
		Email:         info.Email,
		FirstName:     info.GivenName,
		LastName:      info.FamilyName,
		Avatar:        info.Picture,
		EmailVerified: info.EmailVerified,
	}, nil
}
