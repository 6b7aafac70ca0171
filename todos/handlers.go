package todos

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/user/mytodolist-go/apperror"
	"github.com/user/mytodolist-go/auth"
	"github.com/user/mytodolist-go/config"
)

const maxUploadBytes = 32 << 20

// Handlers exposes the to-do CRUD endpoints. Create and update accept JSON,
// form-encoded and multipart payloads; multipart may carry an attached_file
// upload stored under the media root.
type Handlers struct {
	service *TodoService
	media   config.MediaConfig
}

// NewHandlers creates the HTTP handlers for the to-do endpoints.
func NewHandlers(service *TodoService, media config.MediaConfig) *Handlers {
	return &Handlers{service: service, media: media}
}

// RegisterRoutes mounts the CRUD routes on the given router. The router is
// expected to be guarded by auth.RequireUser.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}/", h.handleRetrieve)
	r.Put("/{id}/", h.handleUpdate)
	r.Patch("/{id}/", h.handlePartialUpdate)
	r.Delete("/{id}/", h.handleDestroy)
}

func (h *Handlers) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("User is not authenticated", nil))
		return
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := queryInt(r, "page_size", DefaultPageSize)

	result, err := h.service.List(r.Context(), user.ID, page, pageSize)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	resp := ListResponse{
		Count:   result.Count,
		Results: result.Results,
	}
	if page*ClampPageSize(pageSize) < result.Count {
		resp.Next = pageLink(r, page+1)
	}
	if page > 1 {
		resp.Previous = pageLink(r, page-1)
	}
	auth.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("User is not authenticated", nil))
		return
	}

	payload, err := h.decodePayload(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	req := TodoCreateRequest{}
	if payload.Label != nil {
		req.TodoLabel = *payload.Label
	}
	if payload.IsComplete != nil {
		req.IsComplete = *payload.IsComplete
	}

	resp, err := h.service.Create(r.Context(), user.ID, req, payload.AttachedFile)
	if err != nil {
		h.discardAttachment(payload.AttachedFile)
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handlers) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	user, id, err := h.scope(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	resp, err := h.service.Get(r.Context(), user.ID, id)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, id, err := h.scope(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	payload, err := h.decodePayload(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	req := TodoUpdateRequest{}
	if payload.Label != nil {
		req.TodoLabel = *payload.Label
	}
	if payload.IsComplete != nil {
		req.IsComplete = *payload.IsComplete
	}

	resp, err := h.service.Update(r.Context(), user.ID, id, req, payload.AttachedFile)
	if err != nil {
		h.discardAttachment(payload.AttachedFile)
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) handlePartialUpdate(w http.ResponseWriter, r *http.Request) {
	user, id, err := h.scope(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	payload, err := h.decodePayload(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	req := TodoPatchRequest{TodoLabel: payload.Label, IsComplete: payload.IsComplete}
	resp, err := h.service.Patch(r.Context(), user.ID, id, req, payload.AttachedFile)
	if err != nil {
		h.discardAttachment(payload.AttachedFile)
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) handleDestroy(w http.ResponseWriter, r *http.Request) {
	user, id, err := h.scope(r)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// scope resolves the authenticated user and the id path parameter. A
// malformed id is a 404, same as a missing record.
func (h *Handlers) scope(r *http.Request) (*auth.User, int64, error) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return nil, 0, apperror.NewAuthError("User is not authenticated", nil)
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil, 0, apperror.NewNotFoundError("Not found.", nil)
	}
	return user, id, nil
}

// payload is the common decoded form of create/update bodies across the
// three supported content types. Unknown fields, including created_by, are
// ignored.
type payload struct {
	Label        *string
	IsComplete   *bool
	AttachedFile *string
}

func (h *Handlers) decodePayload(r *http.Request) (*payload, error) {
	ct := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "multipart/form-data"):
		return h.decodeMultipart(r)
	case strings.HasPrefix(ct, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			return nil, apperror.NewBadRequestError("invalid form body: "+err.Error(), nil)
		}
		return formPayload(r.PostForm), nil
	default:
		var req TodoPatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil)
		}
		defer r.Body.Close()
		return &payload{Label: req.TodoLabel, IsComplete: req.IsComplete}, nil
	}
}

func (h *Handlers) decodeMultipart(r *http.Request) (*payload, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, apperror.NewBadRequestError("invalid multipart body: "+err.Error(), nil)
	}
	p := formPayload(r.MultipartForm.Value)

	file, header, err := r.FormFile("attached_file")
	if err == nil {
		defer file.Close()
		name, err := h.saveAttachment(file, header.Filename)
		if err != nil {
			return nil, err
		}
		p.AttachedFile = &name
	}
	return p, nil
}

func formPayload(values url.Values) *payload {
	p := &payload{}
	if v, ok := firstValue(values, "todo_label"); ok {
		p.Label = &v
	}
	if v, ok := firstValue(values, "is_complete"); ok {
		b := v == "true" || v == "1" || v == "on"
		p.IsComplete = &b
	}
	return p
}

func firstValue(values url.Values, key string) (string, bool) {
	if vs, ok := values[key]; ok && len(vs) > 0 {
		return vs[0], true
	}
	return "", false
}

// saveAttachment stores an upload under the media root with a unique prefix
// and returns the stored name. The client-supplied name is reduced to its
// base so it cannot escape the root.
func (h *Handlers) saveAttachment(file multipart.File, clientName string) (string, error) {
	if err := os.MkdirAll(h.media.Root, 0o755); err != nil {
		return "", apperror.NewInternalError("failed to prepare media root", err)
	}

	name := uuid.NewString() + "_" + filepath.Base(clientName)
	dst, err := os.Create(filepath.Join(h.media.Root, name))
	if err != nil {
		return "", apperror.NewInternalError("failed to store attachment", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", apperror.NewInternalError("failed to store attachment", err)
	}
	return name, nil
}

// discardAttachment removes a stored upload whose todo was rejected, so
// invalid requests do not leave unowned files under the media root.
func (h *Handlers) discardAttachment(name *string) {
	if name == nil {
		return
	}
	os.Remove(filepath.Join(h.media.Root, *name))
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// pageLink rebuilds the request URL with the given page number for the
// pagination envelope.
func pageLink(r *http.Request, page int) *string {
	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	link := fmt.Sprintf("%s://%s%s", scheme, r.Host, u.RequestURI())
	return &link
}
