package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mimipoint/backend/internal/auth/dto"
	"github.com/mimipoint/backend/internal/auth/hash"
	jwtutil "github.com/mimipoint/backend/internal/auth/jwt"
	"github.com/mimipoint/backend/internal/auth/oauth"
	customErrors "github.com/mimipoint/backend/internal/domain/errors"
	"github.com/mimipoint/backend/internal/domain/model"
	"github.com/mimipoint/backend/internal/notify"
	"github.com/mimipoint/backend/internal/repo"
)

type authServiceImpl struct {
	users      repo.UserRepo
	revoked    repo.TokenRepo
	oauthCodes repo.OAuthCodeRepo
	codes      *TokenService
	activities repo.ActivityRepo
	hasher     *hash.Hasher
	jwtUtil    jwtutil.JWTUtil
	provider   oauth.Provider
	dispatcher *notify.Dispatcher
	validate   *validator.Validate
	log        *zap.Logger

	frontendURL  string
	oauthCodeTTL time.Duration
}

func NewAuthService(
	users repo.UserRepo,
	revoked repo.TokenRepo,
	oauthCodes repo.OAuthCodeRepo,
	codes *TokenService,
	activities repo.ActivityRepo,
	hasher *hash.Hasher,
	jwtUtil jwtutil.JWTUtil,
	provider oauth.Provider,
	dispatcher *notify.Dispatcher,
	validate *validator.Validate,
	log *zap.Logger,
	frontendURL string,
	oauthCodeTTL time.Duration,
) AuthService {
	return &authServiceImpl{
		users:        users,
		revoked:      revoked,
		oauthCodes:   oauthCodes,
		codes:        codes,
		activities:   activities,
		hasher:       hasher,
		jwtUtil:      jwtUtil,
		provider:     provider,
		dispatcher:   dispatcher,
		validate:     validate,
		log:          log,
		frontendURL:  frontendURL,
		oauthCodeTTL: oauthCodeTTL,
	}
}

func (s *authServiceImpl) issuePair(userID uuid.UUID, role model.Role) (model.TokenPair, error) {
	access, accessExp, _, err := s.jwtUtil.GenerateAccessToken(userID, role)
	if err != nil {
		return model.TokenPair{}, err
	}
	refresh, refreshExp, _, err := s.jwtUtil.GenerateRefreshToken(userID, role)
	if err != nil {
		return model.TokenPair{}, err
	}
	now := time.Now()
	return model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessTTL:    accessExp.Sub(now),
		RefreshTTL:   refreshExp.Sub(now),
		UserID:       userID,
	}, nil
}

func (s *authServiceImpl) sendCode(ctx context.Context, user model.User, kind model.TokenKind) error {
	token, err := s.codes.Generate(ctx, user.Email, kind)
	if err != nil {
		return err
	}

	var subject, body string
	switch kind {
	case model.TokenVerification:
		subject = "Verify your account"
		body = fmt.Sprintf("<p>Hi %s,</p><p>Your verification code is <b>%s</b>.</p>", user.FirstName, token.Token)
	case model.TokenPasswordReset:
		subject = "Reset your password"
		body = fmt.Sprintf("<p>Hi %s,</p><p>Your password reset code is <b>%s</b>.</p>", user.FirstName, token.Token)
	case model.TokenTwoFactor:
		subject = "Your login code"
		body = fmt.Sprintf("<p>Hi %s,</p><p>Your login code is <b>%s</b>.</p>", user.FirstName, token.Token)
	}

	s.dispatcher.MailAsync([]notify.EmailRecipient{{Email: user.Email, Name: user.FirstName}}, subject, body)
	return nil
}

func (s *authServiceImpl) recordActivity(ctx context.Context, userID uuid.UUID, kind model.ActivityType, description string) {
	a := model.Activity{
		ID:           uuid.New(),
		UserID:       userID,
		Description:  description,
		ActivityType: kind,
	}
	if err := s.activities.CreateActivity(ctx, a); err != nil {
		s.log.Warn("record activity", zap.Error(err))
	}
}

func (s *authServiceImpl) Register(ctx context.Context, in dto.RegisterDTO) (model.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}

	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return model.User{}, customErrors.ErrAlreadyExists
	} else if !customErrors.IsNotFound(err) {
		return model.User{}, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		ID:           uuid.New(),
		FirstName:    in.FirstName,
		Email:        in.Email,
		PasswordHash: &hashed,
		Role:         model.RoleCustomer,
	}
	if in.LastName != "" {
		user.LastName = &in.LastName
	}

	if _, err := s.users.CreateUser(ctx, user); err != nil {
		return model.User{}, err
	}

	if err := s.sendCode(ctx, user, model.TokenVerification); err != nil {
		s.log.Warn("send verification code", zap.Error(err))
	}
	s.recordActivity(ctx, user.ID, model.ActivityCreate, "account created")

	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, in dto.LoginDTO) (LoginResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return LoginResult{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return LoginResult{}, err
	}
	if user.PasswordHash == nil {
		return LoginResult{}, customErrors.ErrOAuthOnly
	}

	ok, err := s.hasher.Verify(in.Password, *user.PasswordHash)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		return LoginResult{}, customErrors.ErrInvalidCredentials
	}

	if !user.IsVerified {
		if err := s.sendCode(ctx, user, model.TokenVerification); err != nil {
			return LoginResult{}, err
		}
		return LoginResult{Outcome: OutcomeVerificationNeeded, UserID: user.ID, Email: user.Email}, nil
	}

	if user.TwoFactorEnabled {
		if err := s.sendCode(ctx, user, model.TokenTwoFactor); err != nil {
			return LoginResult{}, err
		}
		return LoginResult{Outcome: OutcomeTwoFactorRequired, UserID: user.ID, Email: user.Email}, nil
	}

	pair, err := s.issuePair(user.ID, user.Role)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Outcome: OutcomeSession, Pair: pair, UserID: user.ID, Email: user.Email}, nil
}

// Refresh rotates the whole pair: the presented refresh token's jti is
// revoked for its remaining lifetime so it cannot mint a second pair. Role
// is re-signed from the refresh claims without a database read, so a role
// change only takes effect after the next full login.
func (s *authServiceImpl) Refresh(ctx context.Context, in dto.RefreshDTO) (model.TokenPair, error) {
	if err := s.validate.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := s.jwtUtil.ValidateRefreshToken(in.RefreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return model.TokenPair{}, err
	}
	if revoked {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return model.TokenPair{}, err
	}

	return s.issuePair(userID, claims.Role)
}

func (s *authServiceImpl) Logout(ctx context.Context, in dto.LogoutDTO) error {
	if err := s.validate.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := s.jwtUtil.ValidateAccessToken(in.AccessToken)
	if err != nil {
		return err
	}

	return s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *authServiceImpl) Validate(ctx context.Context, in dto.ValidateDTO) (model.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := s.jwtUtil.ValidateAccessToken(in.AccessToken)
	if err != nil {
		return model.User{}, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return model.User{}, err
	}
	if revoked {
		return model.User{}, customErrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.User{}, customErrors.ErrInvalidToken
	}

	return s.users.GetUserByID(ctx, userID)
}

func (s *authServiceImpl) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return customErrors.ErrAlreadyExists
	}
	return s.sendCode(ctx, user, model.TokenVerification)
}

func (s *authServiceImpl) VerifyAccount(ctx context.Context, token string) (model.TokenPair, error) {
	var verified model.User

	err := s.codes.Redeem(ctx, model.TokenVerification, token, func(r repo.TxRepos, email string) error {
		user, err := r.Users().GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		user.IsVerified = true
		if err := r.Users().UpdateUser(ctx, user); err != nil {
			return err
		}
		verified = user
		return nil
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	s.recordActivity(ctx, verified.ID, model.ActivityUpdate, "account verified")
	return s.issuePair(verified.ID, verified.Role)
}

func (s *authServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.PasswordHash == nil {
		return customErrors.ErrOAuthOnly
	}
	return s.sendCode(ctx, user, model.TokenPasswordReset)
}

func (s *authServiceImpl) ConfirmPasswordReset(ctx context.Context, in dto.PasswordResetConfirmDTO) error {
	if err := s.validate.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}
	if in.NewPassword != in.ConfirmNewPassword {
		return customErrors.ErrPasswordMismatch
	}

	hashed, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}

	var reset model.User
	err = s.codes.Redeem(ctx, model.TokenPasswordReset, in.Token, func(r repo.TxRepos, email string) error {
		user, err := r.Users().GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		user.PasswordHash = &hashed
		if err := r.Users().UpdateUser(ctx, user); err != nil {
			return err
		}
		reset = user
		return nil
	})
	if err != nil {
		return err
	}

	s.recordActivity(ctx, reset.ID, model.ActivityUpdate, "password reset")
	return nil
}

func (s *authServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, in dto.ChangePasswordDTO) error {
	if err := s.validate.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}
	if in.NewPassword != in.ConfirmNewPassword {
		return customErrors.ErrPasswordMismatch
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == nil {
		return customErrors.ErrOAuthOnly
	}

	ok, err := s.hasher.Verify(in.OldPassword, *user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return customErrors.ErrInvalidCredentials
	}

	hashed, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = &hashed
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return err
	}

	s.recordActivity(ctx, user.ID, model.ActivityUpdate, "password changed")
	return nil
}

func (s *authServiceImpl) EnableTwoFactor(ctx context.Context, userID uuid.UUID) error {
	return s.setTwoFactor(ctx, userID, true)
}

func (s *authServiceImpl) DisableTwoFactor(ctx context.Context, userID uuid.UUID) error {
	return s.setTwoFactor(ctx, userID, false)
}

func (s *authServiceImpl) setTwoFactor(ctx context.Context, userID uuid.UUID, enabled bool) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TwoFactorEnabled == enabled {
		return nil
	}
	user.TwoFactorEnabled = enabled
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return err
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	s.recordActivity(ctx, user.ID, model.ActivityUpdate, "two-factor "+state)
	return nil
}

func (s *authServiceImpl) VerifyTwoFactorCode(ctx context.Context, code string) (model.TokenPair, error) {
	var user model.User

	err := s.codes.Redeem(ctx, model.TokenTwoFactor, code, func(r repo.TxRepos, email string) error {
		u, err := r.Users().GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	return s.issuePair(user.ID, user.Role)
}

func (s *authServiceImpl) ResendTwoFactorCode(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !user.TwoFactorEnabled {
		return customErrors.NewInvalidArgument("two-factor is not enabled")
	}
	return s.sendCode(ctx, user, model.TokenTwoFactor)
}

// OAuthExchange links the provider identity to a local account and mints a
// one-time exchange code. Only the code travels in the redirect URL; the
// session pair is issued when the frontend redeems it.
func (s *authServiceImpl) OAuthExchange(ctx context.Context, providerCode string) (string, error) {
	profile, err := s.provider.Exchange(ctx, providerCode)
	if err != nil {
		return "", err
	}

	user, err := s.users.GetUserByEmail(ctx, profile.Email)
	switch {
	case customErrors.IsNotFound(err):
		user = model.User{
			ID:            uuid.New(),
			FirstName:     profile.FirstName,
			Email:         profile.Email,
			Role:          model.RoleCustomer,
			IsVerified:    profile.EmailVerified,
			IsOAuth:       true,
			LoginProvider: "google",
		}
		if profile.LastName != "" {
			user.LastName = &profile.LastName
		}
		if profile.Avatar != "" {
			user.Avatar = &profile.Avatar
		}
		if _, err := s.users.CreateUser(ctx, user); err != nil {
			return "", err
		}
		s.recordActivity(ctx, user.ID, model.ActivityCreate, "account created via google")
	case err != nil:
		return "", err
	}

	code, err := opaqueValue()
	if err != nil {
		return "", err
	}
	if err := s.oauthCodes.Store(ctx, code, user.ID.String(), s.oauthCodeTTL); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/oauth_success?code=%s", s.frontendURL, code), nil
}

func (s *authServiceImpl) RedeemOAuthCode(ctx context.Context, code string) (LoginResult, error) {
	rawID, err := s.oauthCodes.Redeem(ctx, code)
	if err != nil {
		return LoginResult{}, err
	}

	userID, err := uuid.Parse(rawID)
	if err != nil {
		return LoginResult{}, customErrors.ErrInvalidToken
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return LoginResult{}, err
	}

	if !user.IsVerified {
		if err := s.sendCode(ctx, user, model.TokenVerification); err != nil {
			return LoginResult{}, err
		}
		return LoginResult{Outcome: OutcomeVerificationNeeded, UserID: user.ID, Email: user.Email}, nil
	}

	if user.TwoFactorEnabled {
		if err := s.sendCode(ctx, user, model.TokenTwoFactor); err != nil {
			return LoginResult{}, err
		}
		return LoginResult{Outcome: OutcomeTwoFactorRequired, UserID: user.ID, Email: user.Email}, nil
	}

	pair, err := s.issuePair(user.ID, user.Role)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Outcome: OutcomeSession, Pair: pair, UserID: user.ID, Email: user.Email}, nil
}

func (s *authServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	return s.users.GetUserByID(ctx, id)
}

func (s *authServiceImpl) UpdateProfile(ctx context.Context, id uuid.UUID, in dto.UpdateProfileDTO) (model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = in.LastName
	}
	if in.Phone != nil {
		user.Phone = in.Phone
	}
	if in.Address != nil {
		user.Address = in.Address
	}
	if in.State != nil {
		user.State = in.State
	}
	if in.Country != nil {
		user.Country = in.Country
	}
	if in.Avatar != nil {
		user.Avatar = in.Avatar
	}
	if in.Bio != nil {
		user.Bio = in.Bio
	}
	if in.Gender != nil {
		user.Gender = in.Gender
	}
	if in.FCMToken != nil {
		user.FCMToken = in.FCMToken
	}
	user.ProfileCompleted = user.Phone != nil && user.Address != nil && user.Country != nil

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return model.User{}, err
	}

	s.recordActivity(ctx, user.ID, model.ActivityUpdate, "profile updated")
	return user, nil
}
