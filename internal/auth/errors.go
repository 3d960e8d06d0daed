package auth

import "errors"

// Terminal, non-retryable failure kinds surfaced to callers. The HTTP layer
// maps the first five to 401 and ErrDenied to 403. Unknown-user and
// wrong-password are deliberately indistinguishable.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrMissingCredential  = errors.New("auth: missing credential")
	ErrMalformedToken     = errors.New("auth: malformed token")
	ErrBadSignature       = errors.New("auth: bad signature")
	ErrExpired            = errors.New("auth: token expired")
	ErrDenied             = errors.New("auth: insufficient role")

	ErrUserNotFound = errors.New("auth: user not found")
)
