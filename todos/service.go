package todos

import (
	"context"
	"errors"

	"github.com/user/mytodolist-go/apperror"
	"github.com/user/mytodolist-go/validate"
)

// Page size is fixed: clients may ask for less via page_size but never more.
const (
	DefaultPageSize = 3
	MaxPageSize     = 3
)

// ClampPageSize normalizes a client-requested page size: non-positive values
// fall back to the default, oversized requests are clamped to the maximum.
func ClampPageSize(n int) int {
	if n < 1 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// Page is one page of list results before the handler adds next/previous
// links.
type Page struct {
	Count   int
	Results []TodoResponse
}

// TodoService implements the to-do operations. Every method takes the owner
// id from the authenticated request; there is no way to act outside that
// scope.
type TodoService struct {
	store    *TodoStore
	mediaURL string
}

// NewTodoService constructs a TodoService. mediaURL is the public prefix
// under which attached files are served.
func NewTodoService(store *TodoStore, mediaURL string) *TodoService {
	return &TodoService{store: store, mediaURL: mediaURL}
}

// List returns the requested page of the owner's to-dos. Page numbers start
// at 1; a requested page_size above the maximum is clamped, and a page past
// the end is a not-found, matching the pagination contract.
func (s *TodoService) List(ctx context.Context, ownerID int64, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	pageSize = ClampPageSize(pageSize)

	count, err := s.store.Count(ctx, ownerID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to count todos", err)
	}

	// Compare against the last valid page before computing the offset, so an
	// arbitrarily large page number cannot overflow the multiplication.
	if page > 1 && page-1 > (count-1)/pageSize {
		return nil, apperror.NewNotFoundError("Invalid page.", nil)
	}
	offset := (page - 1) * pageSize

	items, err := s.store.List(ctx, ownerID, uint64(pageSize), uint64(offset))
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list todos", err)
	}

	results := make([]TodoResponse, 0, len(items))
	for _, t := range items {
		results = append(results, newTodoResponse(t, s.mediaURL))
	}
	return &Page{Count: count, Results: results}, nil
}

// Create inserts a new to-do owned by the requester. attachedFile is the
// stored file name of an upload, if any.
func (s *TodoService) Create(ctx context.Context, ownerID int64, req TodoCreateRequest, attachedFile *string) (*TodoResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, Todo{
		TodoLabel:    req.TodoLabel,
		IsComplete:   req.IsComplete,
		AttachedFile: attachedFile,
		CreatedBy:    ownerID,
	})
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create todo", err)
	}

	resp := newTodoResponse(created, s.mediaURL)
	return &resp, nil
}

// Get returns one of the owner's to-dos by id.
func (s *TodoService) Get(ctx context.Context, ownerID, id int64) (*TodoResponse, error) {
	t, err := s.store.Get(ctx, ownerID, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	resp := newTodoResponse(t, s.mediaURL)
	return &resp, nil
}

// Update replaces the to-do's writable fields (PUT semantics).
func (s *TodoService) Update(ctx context.Context, ownerID, id int64, req TodoUpdateRequest, attachedFile *string) (*TodoResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, ownerID, id, UpdateTodoParams{
		TodoLabel:    &req.TodoLabel,
		IsComplete:   &req.IsComplete,
		AttachedFile: attachedFile,
	})
}

// Patch updates only the supplied fields (PATCH semantics).
func (s *TodoService) Patch(ctx context.Context, ownerID, id int64, req TodoPatchRequest, attachedFile *string) (*TodoResponse, error) {
	return s.applyUpdate(ctx, ownerID, id, UpdateTodoParams{
		TodoLabel:    req.TodoLabel,
		IsComplete:   req.IsComplete,
		AttachedFile: attachedFile,
	})
}

// Delete removes one of the owner's to-dos by id.
func (s *TodoService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.store.Delete(ctx, ownerID, id); err != nil {
		return notFoundOrInternal(err)
	}
	return nil
}

func (s *TodoService) applyUpdate(ctx context.Context, ownerID, id int64, params UpdateTodoParams) (*TodoResponse, error) {
	t, err := s.store.Update(ctx, ownerID, id, params)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	resp := newTodoResponse(t, s.mediaURL)
	return &resp, nil
}

// notFoundOrInternal hides ownership: a foreign id maps to the same 404 as a
// missing one.
func notFoundOrInternal(err error) error {
	if errors.Is(err, ErrTodoNotFound) {
		return apperror.NewNotFoundError("Not found.", nil)
	}
	return apperror.NewDatabaseError("todo storage failure", err)
}
