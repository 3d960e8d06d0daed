package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"taskdesk.org/internal/auth"
	"taskdesk.org/internal/obs"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

var publicPaths = []string{
	"/v1/auth/login",
	"/metrics",
	"/healthz",
	"/readyz",
	"/v1/info",
	"/",
}

// withAuth is the authentication gate: every non-public request must carry a
// verifiable bearer token. On success the Principal lives in the request
// context only; nothing is cached across requests.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			obs.AuthFailure("missing_credential")
			unauthorized(w, r, "missing credential")
			return
		}

		principal, err := a.codec.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpired):
				obs.AuthFailure("expired")
				unauthorized(w, r, "token expired")
			case errors.Is(err, auth.ErrBadSignature):
				obs.AuthFailure("bad_signature")
				unauthorized(w, r, "invalid token")
			default:
				obs.AuthFailure("malformed_token")
				unauthorized(w, r, "invalid token")
			}
			return
		}

		ctx := auth.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireOperation enforces the declared role requirement for an operation.
// It runs before any store lookup, so an under-privileged caller is denied
// even for resources that do not exist.
func (a *API) requireOperation(w http.ResponseWriter, r *http.Request, op string) (auth.Principal, bool) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		obs.AuthFailure("missing_credential")
		unauthorized(w, r, "missing credential")
		return auth.Principal{}, false
	}
	if err := auth.Authorize(principal, auth.RequiredRoles(op)); err != nil {
		obs.AuthFailure("denied")
		w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope"`)
		writeError(w, r, http.StatusForbidden, "insufficient role")
		return auth.Principal{}, false
	}
	return principal, true
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, r, http.StatusUnauthorized, msg)
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", auth.ErrMissingCredential
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", auth.ErrMissingCredential
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", auth.ErrMissingCredential
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
