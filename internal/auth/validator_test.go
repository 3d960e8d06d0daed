package auth

import (
	"context"
	"errors"
	"testing"
)

func seededStore(t *testing.T) *InMemoryUserStore {
	t.Helper()
	store := NewInMemoryUserStore()
	if err := store.Seed(DemoUsers()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return store
}

func TestValidateSuccess(t *testing.T) {
	v := NewValidator(seededStore(t))

	user, err := v.Validate(context.Background(), "owner@demo.com", "Owner123!")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if user.Role != RoleOwner || user.OrgID != "org_demo" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash == "Owner123!" {
		t.Fatal("password stored in plaintext")
	}
}

func TestValidateEmailCaseInsensitive(t *testing.T) {
	v := NewValidator(seededStore(t))

	if _, err := v.Validate(context.Background(), "OWNER@Demo.Com", "Owner123!"); err != nil {
		t.Fatalf("Validate mixed case: %v", err)
	}
}

func TestValidateCollapsesFailures(t *testing.T) {
	v := NewValidator(seededStore(t))

	cases := []struct{ email, password string }{
		{"nobody@demo.com", "Owner123!"}, // unknown user
		{"owner@demo.com", "wrong"},      // wrong password
		{"", "Owner123!"},                // empty email
		{"owner@demo.com", ""},           // empty password
	}
	for _, tc := range cases {
		if _, err := v.Validate(context.Background(), tc.email, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("Validate(%q): expected ErrInvalidCredentials, got %v", tc.email, err)
		}
	}
}

func TestValidateRejectsDisabledUser(t *testing.T) {
	store := NewInMemoryUserStore()
	if err := store.Seed([]SeedUser{{OrgID: "org_demo", Email: "gone@demo.com", Password: "Gone123!", Role: RoleViewer}}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	// flip the seeded account to disabled
	user, err := store.FindByEmail(context.Background(), "gone@demo.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	user.Status = UserStatusDisabled
	store.byID[user.ID] = user

	v := NewValidator(store)
	if _, err := v.Validate(context.Background(), "gone@demo.com", "Gone123!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestPrincipalContextRoundTrip(t *testing.T) {
	principal := Principal{SubjectID: "u1", Email: "owner@demo.com", Role: RoleOwner, OrgID: "org_demo"}
	ctx := ContextWithPrincipal(context.Background(), principal)

	got, ok := PrincipalFromContext(ctx)
	if !ok || got != principal {
		t.Fatalf("unexpected principal: %+v, ok=%v", got, ok)
	}
	if _, ok := PrincipalFromContext(context.Background()); ok {
		t.Fatal("expected no principal in fresh context")
	}
}
