package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/SamuelNetzer/Netzer-SingleSign/store"
)

// AuditStore implements store.AuditStore on the audit_log table.
type AuditStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAuditStore creates a new audit feed store
func NewAuditStore(db *sql.DB, logger *zap.Logger) *AuditStore {
	return &AuditStore{
		db:     db,
		logger: logger,
	}
}

// RecentActions returns the newest audit entries, most recent first
func (s *AuditStore) RecentActions(ctx context.Context, limit int) ([]store.AuditEntry, error) {
	query := `
		SELECT action, actor, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []store.AuditEntry
	for rows.Next() {
		var entry store.AuditEntry
		if err := rows.Scan(&entry.Action, &entry.Actor, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}

	return entries, nil
}

var _ store.AuditStore = (*AuditStore)(nil)
