package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/mytodolist-go/logger"
)

// Store errors, mapped to API errors by the service layer.
var (
	ErrEmailTaken   = errors.New("email already taken")
	ErrUserNotFound = errors.New("user not found")
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const userColumns = "id, email, hashed_password, first_name, last_name, is_active, created_at"

// UserStore persists user accounts in the "users" table.
type UserStore struct {
	db *sql.DB
}

// NewUserStore constructs a UserStore backed by the given database.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// CreateUser inserts a new account and returns it with server-assigned
// fields. A unique violation on email maps to ErrEmailTaken.
func (s *UserStore) CreateUser(ctx context.Context, u User) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO users (email, hashed_password, first_name, last_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		u.Email, u.HashedPassword, u.FirstName, u.LastName)

	created, err := scanUser(row)
	if err != nil {
		if postgresCode(err) == pgerrcode.UniqueViolation {
			return User{}, ErrEmailTaken
		}
		logger.FromContext(ctx).Err(err).Msg("failed to insert user")
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// GetUserByEmail returns the account for the given login email.
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return s.get(ctx, row)
}

// GetUserByID returns the account for the given id.
func (s *UserStore) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return s.get(ctx, row)
}

func (s *UserStore) get(ctx context.Context, row *sql.Row) (User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		logger.FromContext(ctx).Err(err).Msg("failed to query user")
		return User{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

// UpdateUserParams carries the optional fields of a profile update. Nil
// pointers leave the stored column untouched; in particular an absent
// HashedPassword never clears the existing hash.
type UpdateUserParams struct {
	Email          *string
	FirstName      *string
	LastName       *string
	HashedPassword *string
}

// UpdateUser applies the non-nil fields of params and returns the updated
// account. With no fields set it degenerates to a lookup.
func (s *UserStore) UpdateUser(ctx context.Context, id int64, params UpdateUserParams) (User, error) {
	builder := psql.Update("users")
	changed := false
	if params.Email != nil {
		builder = builder.Set("email", *params.Email)
		changed = true
	}
	if params.FirstName != nil {
		builder = builder.Set("first_name", *params.FirstName)
		changed = true
	}
	if params.LastName != nil {
		builder = builder.Set("last_name", *params.LastName)
		changed = true
	}
	if params.HashedPassword != nil {
		builder = builder.Set("hashed_password", *params.HashedPassword)
		changed = true
	}
	if !changed {
		return s.GetUserByID(ctx, id)
	}

	query, args, err := builder.
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return User{}, fmt.Errorf("build update: %w", err)
	}

	u, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		if postgresCode(err) == pgerrcode.UniqueViolation {
			return User{}, ErrEmailTaken
		}
		logger.FromContext(ctx).Err(err).Msg("failed to update user")
		return User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Permissions returns the derived permission strings granted to the user,
// rendered as "todos.<codename>".
func (s *UserStore) Permissions(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT codename FROM user_permissions WHERE user_id = $1 ORDER BY codename`, userID)
	if err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
	}
	defer rows.Close()

	perms := []string{}
	for rows.Next() {
		var codename string
		if err := rows.Scan(&codename); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		perms = append(perms, "todos."+codename)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions: %w", err)
	}
	return perms, nil
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt)
	return u, err
}

func postgresCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
