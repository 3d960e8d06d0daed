package task

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"taskdesk.org/internal/ids"
)

// Service defines org-scoped task operations. Every method takes the
// caller's organization id as a mandatory filter; implementations must never
// return or touch a task from another organization.
type Service interface {
	List(ctx context.Context, orgID string) ([]Task, error)
	Get(ctx context.Context, orgID, id string) (Task, error)
	Create(ctx context.Context, orgID string, input CreateInput) (Task, error)
	Update(ctx context.Context, orgID, id string, upd Update) (Task, error)
	Delete(ctx context.Context, orgID, id string) error
}

// InMemory implements Service with in-process concurrency safety.
// NOTE: replace with the PostgreSQL store for durable deployments.
type InMemory struct {
	mu    sync.RWMutex
	tasks map[string]*Task
	now   func() time.Time
}

// NewInMemory creates an empty task store.
func NewInMemory() *InMemory {
	return &InMemory{
		tasks: make(map[string]*Task),
		now:   time.Now,
	}
}

// WithClock overrides the time source (useful for tests).
func (s *InMemory) WithClock(fn func() time.Time) *InMemory {
	if fn != nil {
		s.now = fn
	}
	return s
}

func normalizeCreate(input *CreateInput) error {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return ErrEmptyTitle
	}
	if input.Status == "" {
		input.Status = StatusOpen
	}
	if !input.Status.Valid() {
		return ErrInvalidStatus
	}
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	if input.Category == "" {
		input.Category = DefaultCategory
	}
	return nil
}

func (s *InMemory) Create(ctx context.Context, orgID string, input CreateInput) (Task, error) {
	if err := normalizeCreate(&input); err != nil {
		return Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	t := &Task{
		ID:             ids.New(),
		OrgID:          orgID,
		Title:          input.Title,
		Description:    input.Description,
		Status:         input.Status,
		Category:       input.Category,
		CreatedByEmail: input.CreatedByEmail,
		SortOrder:      now.UnixMilli(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.tasks[t.ID] = t
	return *t, nil
}

func (s *InMemory) List(ctx context.Context, orgID string) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, 0)
	for _, t := range s.tasks {
		if t.OrgID == orgID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder > out[j].SortOrder
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) Get(ctx context.Context, orgID, id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok || t.OrgID != orgID {
		return Task{}, ErrNotFound
	}
	return *t, nil
}

func (s *InMemory) Update(ctx context.Context, orgID, id string, upd Update) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.OrgID != orgID {
		return Task{}, ErrNotFound
	}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return Task{}, ErrEmptyTitle
		}
		t.Title = title
	}
	if upd.Description != nil {
		t.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return Task{}, ErrInvalidStatus
		}
		t.Status = *upd.Status
	}
	if upd.Category != nil {
		category := strings.TrimSpace(*upd.Category)
		if category == "" {
			category = DefaultCategory
		}
		t.Category = category
	}
	if upd.SortOrder != nil {
		t.SortOrder = *upd.SortOrder
	}
	t.UpdatedAt = s.now().UTC()
	return *t, nil
}

func (s *InMemory) Delete(ctx context.Context, orgID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.OrgID != orgID {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}
