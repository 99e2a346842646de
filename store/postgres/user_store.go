package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/SamuelNetzer/Netzer-SingleSign/store"
)

// UserStore implements store.UserStore on the users table.
type UserStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserStore creates a new user document store
func NewUserStore(db *sql.DB, logger *zap.Logger) *UserStore {
	return &UserStore{
		db:     db,
		logger: logger,
	}
}

// GetUserDocument retrieves the user document for a uid
func (s *UserStore) GetUserDocument(ctx context.Context, uid string) (*store.UserDocument, error) {
	query := `
		SELECT COALESCE(role, '')
		FROM users
		WHERE uid = $1
	`

	doc := &store.UserDocument{}
	err := s.db.QueryRowContext(ctx, query, uid).Scan(&doc.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user document: %w", err)
	}

	return doc, nil
}

// CountUsers reports total and admin user counts
func (s *UserStore) CountUsers(ctx context.Context) (int, int, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE role = 'admin')
		FROM users
	`

	var total, admins int
	if err := s.db.QueryRowContext(ctx, query).Scan(&total, &admins); err != nil {
		return 0, 0, fmt.Errorf("failed to count users: %w", err)
	}

	return total, admins, nil
}

var _ store.UserStore = (*UserStore)(nil)
