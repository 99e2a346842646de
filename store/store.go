// Package store defines the external document lookups the application
// consumes: per-user role documents and the admin activity feed.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// UserDocument is the per-user document in the "users" collection. Only the
// role field is consumed at authorization time.
type UserDocument struct {
	Role string
}

// AuditEntry is one row of the admin dashboard's recent-actions feed.
type AuditEntry struct {
	Action    string    `json:"action"`
	Actor     string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
}

// UserStore reads user documents. GetUserDocument returns ErrNotFound when
// no document exists for the given uid.
type UserStore interface {
	GetUserDocument(ctx context.Context, uid string) (*UserDocument, error)

	// CountUsers reports the total number of user documents and how many
	// of them carry the admin role.
	CountUsers(ctx context.Context) (total int, admins int, err error)
}

// AuditStore reads the recent-actions feed, newest first.
type AuditStore interface {
	RecentActions(ctx context.Context, limit int) ([]AuditEntry, error)
}
