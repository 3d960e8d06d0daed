package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"taskdesk.org/internal/ids"
)

// UserStore is the credential store consulted during login. Email lookup is
// case-insensitive and at most one user may exist per email.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	Find(ctx context.Context, id string) (User, error)
}

// SeedUser describes a demo account created at startup.
type SeedUser struct {
	OrgID    string
	Email    string
	Password string
	Role     Role
}

// DemoUsers returns the built-in demo accounts for org_demo.
func DemoUsers() []SeedUser {
	return []SeedUser{
		{OrgID: "org_demo", Email: "owner@demo.com", Password: "Owner123!", Role: RoleOwner},
		{OrgID: "org_demo", Email: "admin@demo.com", Password: "Admin123!", Role: RoleAdmin},
		{OrgID: "org_demo", Email: "viewer@demo.com", Password: "Viewer123!", Role: RoleViewer},
	}
}

// InMemoryUserStore keeps users in process memory. It is read-mostly: writes
// happen only during seeding, so concurrent request handling needs no
// coordination beyond the RWMutex.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	byID  map[string]User
	email map[string]string // lowercased email -> user id
}

// NewInMemoryUserStore creates an empty store.
func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		byID:  make(map[string]User),
		email: make(map[string]string),
	}
}

// Seed hashes each password and inserts the users. Passwords are never
// stored in plaintext, demo accounts included.
func (s *InMemoryUserStore) Seed(seeds []SeedUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for _, seed := range seeds {
		hash, err := HashPassword(seed.Password)
		if err != nil {
			return err
		}
		user := User{
			ID:           ids.New(),
			OrgID:        seed.OrgID,
			Email:        strings.ToLower(strings.TrimSpace(seed.Email)),
			PasswordHash: hash,
			Role:         seed.Role,
			Status:       UserStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		s.byID[user.ID] = user
		s.email[user.Email] = user.ID
	}
	return nil
}

func (s *InMemoryUserStore) FindByEmail(ctx context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.email[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return s.byID[id], nil
}

func (s *InMemoryUserStore) Find(ctx context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byID[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}
