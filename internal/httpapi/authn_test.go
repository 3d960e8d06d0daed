package httpapi

import (
	"net/http"
	"testing"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"empty", "", "", true},
		{"scheme only", "Bearer", "", true},
		{"scheme with space only", "Bearer   ", "", true},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", true},
		{"well formed", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer abc.def.ghi", "abc.def.ghi", false},
		{"padded", "  Bearer abc.def.ghi  ", "abc.def.ghi", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractBearerToken(tc.header)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("extractBearerToken(%q) = %q, want error", tc.header, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("extractBearerToken(%q): %v", tc.header, err)
			}
			if got != tc.want {
				t.Errorf("extractBearerToken(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}

func TestAuthGateRejections(t *testing.T) {
	h := newTestAPI(t).Handler()

	rec := doJSON(t, h, http.MethodGet, "/v1/tasks", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); got != "Bearer" {
		t.Errorf("WWW-Authenticate = %q, want Bearer", got)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/tasks", "not-a-jwt", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", rec.Code)
	}

	// A structurally valid token signed with a different secret.
	const foreign = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
		"eyJzdWIiOiJ1XzEiLCJvcmdfaWQiOiJvcmdfZGVtbyJ9." +
		"aW52YWxpZC1zaWduYXR1cmUtYnl0ZXM"
	rec = doJSON(t, h, http.MethodGet, "/v1/tasks", foreign, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("foreign signature: status = %d, want 401", rec.Code)
	}
}

func TestPublicPathsSkipAuth(t *testing.T) {
	h := newTestAPI(t).Handler()

	for _, path := range []string{"/healthz", "/readyz", "/v1/info", "/metrics"} {
		rec := doJSON(t, h, http.MethodGet, path, "", nil)
		if rec.Code == http.StatusUnauthorized {
			t.Errorf("GET %s: got 401 without a token", path)
		}
	}
}

func TestLoginFailures(t *testing.T) {
	h := newTestAPI(t).Handler()

	cases := []struct {
		name string
		body map[string]string
		want int
	}{
		{"wrong password", map[string]string{"email": "owner@demo.com", "password": "nope"}, http.StatusUnauthorized},
		{"unknown user", map[string]string{"email": "ghost@demo.com", "password": "Owner123!"}, http.StatusUnauthorized},
		{"missing password", map[string]string{"email": "owner@demo.com"}, http.StatusBadRequest},
		{"missing email", map[string]string{"password": "Owner123!"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/v1/auth/login", "", tc.body)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d (body = %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}

	rec := doJSON(t, h, http.MethodGet, "/v1/auth/login", "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET login: status = %d, want 405", rec.Code)
	}
}

func TestLoginEmailCaseInsensitive(t *testing.T) {
	h := newTestAPI(t).Handler()
	token := login(t, h, "OWNER@Demo.Com", "Owner123!")

	rec := doJSON(t, h, http.MethodGet, "/v1/tasks", token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("list with mixed-case login token: status = %d", rec.Code)
	}
}
