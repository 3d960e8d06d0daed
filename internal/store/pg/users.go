package pg

import (
	"context"
	"database/sql"
	"errors"

	"taskdesk.org/internal/auth"
)

var _ auth.UserStore = (*UserStore)(nil)

// UserStore reads identities from the users table.
type UserStore struct {
	db *sql.DB
}

// Users returns the user store view.
func (s *Store) Users() *UserStore { return &UserStore{db: s.db} }

const userColumns = `id, org_id, email, password_hash, role, status, created_at, updated_at`

func scanUser(row *sql.Row) (auth.User, error) {
	var (
		user auth.User
		role string
	)
	if err := row.Scan(&user.ID, &user.OrgID, &user.Email, &user.PasswordHash, &role, &user.Status, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, auth.ErrUserNotFound
		}
		return auth.User{}, err
	}
	parsed, err := auth.ParseRole(role)
	if err != nil {
		return auth.User{}, err
	}
	user.Role = parsed
	return user, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where lower(email) = lower($1)`, email)
	return scanUser(row)
}

func (s *UserStore) Find(ctx context.Context, id string) (auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where id = $1`, id)
	return scanUser(row)
}
