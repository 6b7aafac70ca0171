// Package todos implements owner-scoped CRUD over to-do items. Every query
// the store issues is filtered by the owning user, so records belonging to
// other users are indistinguishable from records that do not exist.
package todos

import "time"

// Todo is a task record owned by exactly one user. AttachedFile holds the
// stored file name under the media root, or nil when nothing is attached.
type Todo struct {
	ID           int64
	TodoLabel    string
	IsComplete   bool
	AttachedFile *string
	CreatedBy    int64
	CreatedAt    time.Time
}
