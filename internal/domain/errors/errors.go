package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInternal           = errors.New("internal error")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAccountNotVerified = errors.New("account not verified")
	ErrOAuthOnly          = errors.New("oauth-only account")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrUpstreamProvider   = errors.New("upstream provider failure")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

func NewInvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

func NewNotFound(entity string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, entity)
}

func WrapInternal(err error, context string) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, context, err)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsAccountNotVerified(err error) bool {
	return errors.Is(err, ErrAccountNotVerified)
}

func IsOAuthOnly(err error) bool {
	return errors.Is(err, ErrOAuthOnly)
}

func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

func IsUpstreamProvider(err error) bool {
	return errors.Is(err, ErrUpstreamProvider)
}

func IsPasswordMismatch(err error) bool {
	return errors.Is(err, ErrPasswordMismatch)
}
