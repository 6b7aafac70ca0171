package todos

// TodoCreateRequest is the JSON payload for creating a to-do. The owner is
// never part of the payload: it is always the authenticated requester, and a
// client-supplied created_by field is ignored.
type TodoCreateRequest struct {
	TodoLabel  string `json:"todo_label" validate:"required" example:"buy milk"`
	IsComplete bool   `json:"is_complete"`
}

// TodoUpdateRequest is the full-update (PUT) payload.
type TodoUpdateRequest struct {
	TodoLabel  string `json:"todo_label" validate:"required"`
	IsComplete bool   `json:"is_complete"`
}

// TodoPatchRequest is the partial-update (PATCH) payload; absent fields keep
// their stored values.
type TodoPatchRequest struct {
	TodoLabel  *string `json:"todo_label"`
	IsComplete *bool   `json:"is_complete"`
}

// TodoResponse is the wire representation of a to-do. created_by is
// read-only; attached_file is the URL of the uploaded file under the media
// prefix, or null.
type TodoResponse struct {
	ID           int64   `json:"id"`
	TodoLabel    string  `json:"todo_label"`
	IsComplete   bool    `json:"is_complete"`
	AttachedFile *string `json:"attached_file"`
	CreatedBy    int64   `json:"created_by"`
}

// ListResponse is the pagination envelope for list results.
type ListResponse struct {
	Count    int            `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []TodoResponse `json:"results"`
}

func newTodoResponse(t Todo, mediaURL string) TodoResponse {
	resp := TodoResponse{
		ID:         t.ID,
		TodoLabel:  t.TodoLabel,
		IsComplete: t.IsComplete,
		CreatedBy:  t.CreatedBy,
	}
	if t.AttachedFile != nil {
		url := mediaURL + *t.AttachedFile
		resp.AttachedFile = &url
	}
	return resp
}
