package auth

import (
	"context"
	"strings"
)

// Validator checks submitted credentials against the user store.
type Validator struct {
	users UserStore
}

// NewValidator constructs a Validator backed by the given store.
func NewValidator(users UserStore) *Validator {
	return &Validator{users: users}
}

// Validate looks up the user by email (case-insensitive) and verifies the
// password. Unknown user, wrong password and disabled account all return
// ErrInvalidCredentials so that callers cannot enumerate accounts.
func (v *Validator) Validate(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}
	user, err := v.users.FindByEmail(ctx, email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if user.Status != UserStatusActive {
		return User{}, ErrInvalidCredentials
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}
