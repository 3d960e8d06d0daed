package httpapi

import (
	"net/http"
	"strings"
	"time"

	"taskdesk.org/internal/audit"
	"taskdesk.org/internal/obs"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.validator.Validate(r.Context(), req.Email, req.Password)
	if err != nil {
		obs.AuthFailure("invalid_credentials")
		unauthorized(w, r, "invalid credentials")
		return
	}

	token, expiresAt, err := a.codec.Issue(user)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"email":  user.Email,
		"org_id": user.OrgID,
		"role":   string(user.Role),
	})

	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, ExpiresAt: expiresAt})
}
