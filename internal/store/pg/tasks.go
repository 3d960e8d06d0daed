package pg

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"taskdesk.org/internal/ids"
	"taskdesk.org/internal/task"
)

var _ task.Service = (*TaskStore)(nil)

// TaskStore persists tasks in PostgreSQL. Every statement carries org_id in
// its predicate so that cross-tenant rows are unreachable by construction.
type TaskStore struct {
	db  *sql.DB
	now func() time.Time
}

// Tasks returns the task store view.
func (s *Store) Tasks() *TaskStore { return &TaskStore{db: s.db, now: time.Now} }

const taskColumns = `id, org_id, title, description, status, category, created_by_email, sort_order, created_at, updated_at`

func scanTask(scan func(dest ...any) error) (task.Task, error) {
	var t task.Task
	err := scan(&t.ID, &t.OrgID, &t.Title, &t.Description, &t.Status, &t.Category, &t.CreatedByEmail, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *TaskStore) List(ctx context.Context, orgID string) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+taskColumns+` from tasks where org_id = $1 order by sort_order desc, created_at desc`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *TaskStore) Get(ctx context.Context, orgID, id string) (task.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+taskColumns+` from tasks where id = $1 and org_id = $2`, id, orgID)
	t, err := scanTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, task.ErrNotFound
	}
	return t, err
}

func (s *TaskStore) Create(ctx context.Context, orgID string, input task.CreateInput) (task.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return task.Task{}, task.ErrEmptyTitle
	}
	if input.Status == "" {
		input.Status = task.StatusOpen
	}
	if !input.Status.Valid() {
		return task.Task{}, task.ErrInvalidStatus
	}
	input.Category = strings.TrimSpace(input.Category)
	if input.Category == "" {
		input.Category = task.DefaultCategory
	}

	now := s.now().UTC()
	t := task.Task{
		ID:             ids.New(),
		OrgID:          orgID,
		Title:          input.Title,
		Description:    strings.TrimSpace(input.Description),
		Status:         input.Status,
		Category:       input.Category,
		CreatedByEmail: input.CreatedByEmail,
		SortOrder:      now.UnixMilli(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	_, err := s.db.ExecContext(ctx, `
		insert into tasks (id, org_id, title, description, status, category, created_by_email, sort_order, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, t.ID, t.OrgID, t.Title, t.Description, t.Status, t.Category, t.CreatedByEmail, t.SortOrder, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return task.Task{}, err
	}
	return t, nil
}

func (s *TaskStore) Update(ctx context.Context, orgID, id string, upd task.Update) (task.Task, error) {
	// Read-modify-write inside the org scope; the final update repeats the
	// org filter so a concurrent org change cannot widen access.
	current, err := s.Get(ctx, orgID, id)
	if err != nil {
		return task.Task{}, err
	}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return task.Task{}, task.ErrEmptyTitle
		}
		current.Title = title
	}
	if upd.Description != nil {
		current.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return task.Task{}, task.ErrInvalidStatus
		}
		current.Status = *upd.Status
	}
	if upd.Category != nil {
		category := strings.TrimSpace(*upd.Category)
		if category == "" {
			category = task.DefaultCategory
		}
		current.Category = category
	}
	if upd.SortOrder != nil {
		current.SortOrder = *upd.SortOrder
	}
	current.UpdatedAt = s.now().UTC()

	res, err := s.db.ExecContext(ctx, `
		update tasks
		set title = $1, description = $2, status = $3, category = $4, sort_order = $5, updated_at = $6
		where id = $7 and org_id = $8
	`, current.Title, current.Description, current.Status, current.Category, current.SortOrder, current.UpdatedAt, id, orgID)
	if err != nil {
		return task.Task{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return task.Task{}, err
	}
	if affected == 0 {
		return task.Task{}, task.ErrNotFound
	}
	return current, nil
}

func (s *TaskStore) Delete(ctx context.Context, orgID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`delete from tasks where id = $1 and org_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return task.ErrNotFound
	}
	return nil
}
