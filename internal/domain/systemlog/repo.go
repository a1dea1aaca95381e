package systemlog

import "context"

// Repository defines persistence for system log entries. The log is
// append-only: entries are never updated or deleted.
type Repository interface {
	Insert(ctx context.Context, e *Entry) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Entry, int, error)
}
