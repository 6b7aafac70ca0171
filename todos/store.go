package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/user/mytodolist-go/logger"
)

// ErrTodoNotFound covers both genuinely missing ids and ids owned by another
// user; callers cannot tell them apart.
var ErrTodoNotFound = errors.New("todo not found")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const todoColumns = "id, todo_label, is_complete, attached_file, created_by, created_at"

// TodoStore persists to-do records. The owner filter is baked into every
// read and write on existing rows; there is no unscoped variant.
type TodoStore struct {
	db *sql.DB
}

// NewTodoStore constructs a TodoStore backed by the given database.
func NewTodoStore(db *sql.DB) *TodoStore {
	return &TodoStore{db: db}
}

// Count returns the number of to-dos owned by the user.
func (s *TodoStore) Count(ctx context.Context, ownerID int64) (int, error) {
	query, args, err := psql.Select("COUNT(*)").
		From("todos").
		Where(sq.Eq{"created_by": ownerID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count todos: %w", err)
	}
	return count, nil
}

// List returns one page of the user's to-dos in insertion order.
func (s *TodoStore) List(ctx context.Context, ownerID int64, limit, offset uint64) ([]Todo, error) {
	query, args, err := psql.Select(todoColumns).
		From("todos").
		Where(sq.Eq{"created_by": ownerID}).
		OrderBy("id").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("failed to list todos")
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	items := []Todo{}
	for rows.Next() {
		var t Todo
		if err := rows.Scan(&t.ID, &t.TodoLabel, &t.IsComplete, &t.AttachedFile, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return items, nil
}

// Create inserts a new to-do. CreatedBy must already be set to the
// authenticated requester.
func (s *TodoStore) Create(ctx context.Context, t Todo) (Todo, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO todos (todo_label, is_complete, attached_file, created_by)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+todoColumns,
		t.TodoLabel, t.IsComplete, t.AttachedFile, t.CreatedBy)

	created, err := scanTodo(row)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("failed to insert todo")
		return Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return created, nil
}

// Get returns the to-do with the given id within the owner's scope.
func (s *TodoStore) Get(ctx context.Context, ownerID, id int64) (Todo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1 AND created_by = $2`,
		id, ownerID)

	t, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Todo{}, ErrTodoNotFound
		}
		return Todo{}, fmt.Errorf("query todo: %w", err)
	}
	return t, nil
}

// UpdateTodoParams carries the optional fields of an update; nil pointers
// leave the stored column untouched.
type UpdateTodoParams struct {
	TodoLabel    *string
	IsComplete   *bool
	AttachedFile *string
}

// Update applies the non-nil fields of params to the to-do within the
// owner's scope.
func (s *TodoStore) Update(ctx context.Context, ownerID, id int64, params UpdateTodoParams) (Todo, error) {
	builder := psql.Update("todos")
	changed := false
	if params.TodoLabel != nil {
		builder = builder.Set("todo_label", *params.TodoLabel)
		changed = true
	}
	if params.IsComplete != nil {
		builder = builder.Set("is_complete", *params.IsComplete)
		changed = true
	}
	if params.AttachedFile != nil {
		builder = builder.Set("attached_file", *params.AttachedFile)
		changed = true
	}
	if !changed {
		return s.Get(ctx, ownerID, id)
	}

	query, args, err := builder.
		Where(sq.Eq{"id": id, "created_by": ownerID}).
		Suffix("RETURNING " + todoColumns).
		ToSql()
	if err != nil {
		return Todo{}, fmt.Errorf("build update: %w", err)
	}

	t, err := scanTodo(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Todo{}, ErrTodoNotFound
		}
		logger.FromContext(ctx).Err(err).Msg("failed to update todo")
		return Todo{}, fmt.Errorf("update todo: %w", err)
	}
	return t, nil
}

// Delete removes the to-do within the owner's scope.
func (s *TodoStore) Delete(ctx context.Context, ownerID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM todos WHERE id = $1 AND created_by = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if affected == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func scanTodo(row *sql.Row) (Todo, error) {
	var t Todo
	err := row.Scan(&t.ID, &t.TodoLabel, &t.IsComplete, &t.AttachedFile, &t.CreatedBy, &t.CreatedAt)
	return t, err
}
