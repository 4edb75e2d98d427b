package hash

import (
	"github.com/alexedwards/argon2id"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
)

// Hasher derives one-way password hashes. The pepper is appended before
// hashing so leaked database rows alone are not crackable offline.
type Hasher struct {
	pepper string
	params *argon2id.Params
}

func New(pepper string) *Hasher {
	return &Hasher{pepper: pepper, params: argon2id.DefaultParams}
}

func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := argon2id.CreateHash(password+h.pepper, h.params)
	if err != nil {
		return "", customErrors.WrapInternal(err, "Hash")
	}
	return hashed, nil
}

func (h *Hasher) Verify(password, hashed string) (bool, error) {
	ok, err := argon2id.ComparePasswordAndHash(password+h.pepper, hashed)
	if err != nil {
		return false, customErrors.WrapInternal(err, "Verify")
	}
	return ok, nil
}
