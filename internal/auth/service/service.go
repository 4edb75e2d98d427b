package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mimipoint/backend/internal/auth/dto"
	"github.com/mimipoint/backend/internal/domain/model"
)

// LoginOutcome distinguishes the three successful results of a login
// attempt. Only OutcomeSession carries tokens; the other two are not
// errors, the caller has a follow-up step to complete.
type LoginOutcome string

const (
	OutcomeSession            LoginOutcome = "session"
	OutcomeVerificationNeeded LoginOutcome = "verification_needed"
	OutcomeTwoFactorRequired  LoginOutcome = "two_factor_required"
)

type LoginResult struct {
	Outcome LoginOutcome
	Pair    model.TokenPair
	UserID  uuid.UUID
	Email   string
}

type AuthService interface {
	Register(ctx context.Context, dto dto.RegisterDTO) (model.User, error)
	Login(ctx context.Context, dto dto.LoginDTO) (LoginResult, error)
	Refresh(ctx context.Context, dto dto.RefreshDTO) (model.TokenPair, error)
	Logout(ctx context.Context, dto dto.LogoutDTO) error
	Validate(ctx context.Context, dto dto.ValidateDTO) (model.User, error)

	ResendVerification(ctx context.Context, email string) error
	VerifyAccount(ctx context.Context, token string) (model.TokenPair, error)

	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, dto dto.PasswordResetConfirmDTO) error
	ChangePassword(ctx context.Context, userID uuid.UUID, dto dto.ChangePasswordDTO) error

	EnableTwoFactor(ctx context.Context, userID uuid.UUID) error
	DisableTwoFactor(ctx context.Context, userID uuid.UUID) error
	VerifyTwoFactorCode(ctx context.Context, code string) (model.TokenPair, error)
	ResendTwoFactorCode(ctx context.Context, email string) error

	// OAuthExchange turns a provider authorization code into a one-time
	// internal code and returns the redirect URL carrying it.
	OAuthExchange(ctx context.Context, providerCode string) (string, error)
	RedeemOAuthCode(ctx context.Context, code string) (LoginResult, error)

	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, dto dto.UpdateProfileDTO) (model.User, error)
}
