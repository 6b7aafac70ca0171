package todos

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTodoStore(t *testing.T) (*TodoStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewTodoStore(db), mock, db
}

func todoRows(ids ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "todo_label", "is_complete", "attached_file", "created_by", "created_at"})
	for _, id := range ids {
		rows.AddRow(id, "buy milk", false, nil, int64(1), time.Now())
	}
	return rows
}

func TestList_FiltersByOwner(t *testing.T) {
	store, mock, db := newTestTodoStore(t)
	defer db.Close()

	mock.ExpectQuery("FROM todos WHERE created_by = .+ ORDER BY id LIMIT 3 OFFSET 0").
		WithArgs(int64(1)).
		WillReturnRows(todoRows(1, 2, 3))

	items, err := store.List(context.Background(), 1, 3, 0)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_EmptyPageIsNonNilSlice(t *testing.T) {
	store, mock, db := newTestTodoStore(t)
	defer db.Close()

	mock.ExpectQuery("FROM todos WHERE created_by").
		WithArgs(int64(1)).
		WillReturnRows(todoRows())

	items, err := store.List(context.Background(), 1, 3, 0)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCount_ScopedToOwner(t *testing.T) {
	store, mock, db := newTestTodoStore(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM todos WHERE created_by`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := store.Count(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestGet_ForeignIDIsNotFound(t *testing.T) {
	store, mock, db := newTestTodoStore(t)
	defer db.Close()

	// A row owned by someone else matches nothing under the owner filter.
	mock.ExpectQuery("FROM todos WHERE id = .+ AND created_by").
		WithArgs(int64(5), int64(1)).
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestCreate_PersistsOwner(t *testing.T) {
	store, mock, db := newTestTodoStore(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO todos").
		WithArgs("buy milk", false, nil, int64(1)).
		WillReturnRows(todoRows(1))

	created, err := store.Create(context.Background(), Todo{TodoLabel: "buy milk", CreatedBy: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.CreatedBy)
}

func TestUpdate_OnlyProvidedColumns(t *testing.T) {
	store, mock, db := newTestTodoStore(t)
	defer db.Close()

	done := true
	mock.ExpectQuery(`UPDATE todos SET is_complete = .+ WHERE created_by = .+ AND id = .+ RETURNING`).
		WithArgs(true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(todoRows(1))

	_, err := store.Update(context.Background(), 1, 1, UpdateTodoParams{IsComplete: &done})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NoFieldsFallsBackToGet(t *testing.T) {
	store, mock, db := newTestTodoStore(t)
	defer db.Close()

	mock.ExpectQuery("FROM todos WHERE id = .+ AND created_by").
		WithArgs(int64(2), int64(1)).
		WillReturnRows(todoRows(2))

	got, err := store.Update(context.Background(), 1, 2, UpdateTodoParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)
}

func TestUpdate_NoMatchingRowIsNotFound(t *testing.T) {
	store, mock, db := newTestTodoStore(t)
	defer db.Close()

	label := "changed"
	mock.ExpectQuery("UPDATE todos SET todo_label").
		WithArgs("changed", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := store.Update(context.Background(), 1, 99, UpdateTodoParams{TodoLabel: &label})
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestDelete_NoRowsAffectedIsNotFound(t *testing.T) {
	store, mock, db := newTestTodoStore(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM todos WHERE id = .+ AND created_by").
		WithArgs(int64(99), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Delete(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestDelete_Success(t *testing.T) {
	store, mock, db := newTestTodoStore(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM todos").
		WithArgs(int64(2), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.Delete(context.Background(), 1, 2))
}
