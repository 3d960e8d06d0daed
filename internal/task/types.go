package task

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Valid reports whether the status is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

const DefaultCategory = "General"

// Task is a tenant-owned record. OrgID is the isolation boundary: every
// store operation filters on it, and a miss is indistinguishable from a
// record that never existed.
type Task struct {
	ID             string    `json:"id"`
	OrgID          string    `json:"org_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Status         Status    `json:"status"`
	Category       string    `json:"category"`
	CreatedByEmail string    `json:"created_by_email"`
	SortOrder      int64     `json:"sort_order"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateInput carries the fields a caller may set on creation.
type CreateInput struct {
	Title          string
	Description    string
	Status         Status
	Category       string
	CreatedByEmail string
}

// Update carries optional field changes; nil means "leave unchanged".
type Update struct {
	Title       *string
	Description *string
	Status      *Status
	Category    *string
	SortOrder   *int64
}

var (
	ErrNotFound      = errors.New("task not found")
	ErrEmptyTitle    = errors.New("title is required")
	ErrInvalidStatus = errors.New("invalid status")
)
