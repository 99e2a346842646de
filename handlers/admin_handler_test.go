package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SamuelNetzer/Netzer-SingleSign/identity"
	"github.com/SamuelNetzer/Netzer-SingleSign/store"
)

type stubUserStore struct {
	total  int
	admins int
	err    error
}

func (s *stubUserStore) GetUserDocument(ctx context.Context, uid string) (*store.UserDocument, error) {
	return nil, store.ErrNotFound
}

func (s *stubUserStore) CountUsers(ctx context.Context) (int, int, error) {
	return s.total, s.admins, s.err
}

type stubAuditStore struct {
	entries []store.AuditEntry
	err     error
}

func (s *stubAuditStore) RecentActions(ctx context.Context, limit int) ([]store.AuditEntry, error) {
	return s.entries, s.err
}

func TestHandleDashboard(t *testing.T) {
	logger := zap.NewNop()
	adminToken := &identity.Token{
		Subject: "uid-admin",
		Email:   "admin@example.com",
		Name:    "Site Admin",
		Admin:   true,
	}

	t.Run("returns stats and recent actions", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Second)
		handler := NewAdminHandler(
			&stubUserStore{total: 152, admins: 3},
			&stubAuditStore{entries: []store.AuditEntry{
				{Action: "User Created", Actor: "user123", Timestamp: now.Add(-time.Hour)},
				{Action: "Permission Changed", Actor: "user789", Timestamp: now.Add(-4 * time.Hour)},
			}},
			logger,
		)

		req := authenticatedRequest(http.MethodGet, "/api/admin/dashboard", adminToken)
		w := httptest.NewRecorder()

		handler.HandleDashboard(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response DashboardResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Admin dashboard data", response.Message)
		assert.Equal(t, "uid-admin", response.Admin.UID)
		assert.Equal(t, "admin@example.com", response.Admin.Email)
		assert.Equal(t, "Site Admin", response.Admin.Name)
		assert.Equal(t, 152, response.Stats.TotalUsers)
		assert.Equal(t, 3, response.Stats.AdminUsers)
		require.Len(t, response.RecentActions, 2)
		assert.Equal(t, "User Created", response.RecentActions[0].Action)
		assert.Equal(t, "user123", response.RecentActions[0].Actor)
	})

	t.Run("audit entries serialize with the user key", func(t *testing.T) {
		handler := NewAdminHandler(
			&stubUserStore{},
			&stubAuditStore{entries: []store.AuditEntry{
				{Action: "User Created", Actor: "user123", Timestamp: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)},
			}},
			logger,
		)

		req := authenticatedRequest(http.MethodGet, "/api/admin/dashboard", adminToken)
		w := httptest.NewRecorder()

		handler.HandleDashboard(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		assert.JSONEq(t,
			`[{"action": "User Created", "user": "user123", "timestamp": "2026-08-01T12:00:00Z"}]`,
			string(raw["recentActions"]))
	})

	t.Run("name defaults to Admin when the token has none", func(t *testing.T) {
		handler := NewAdminHandler(&stubUserStore{}, &stubAuditStore{}, logger)

		req := authenticatedRequest(http.MethodGet, "/api/admin/dashboard", &identity.Token{
			Subject: "uid-admin",
			Admin:   true,
		})
		w := httptest.NewRecorder()

		handler.HandleDashboard(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response DashboardResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Admin", response.Admin.Name)
	})

	t.Run("store failures degrade to zero values", func(t *testing.T) {
		handler := NewAdminHandler(
			&stubUserStore{err: errors.New("connection refused")},
			&stubAuditStore{err: errors.New("connection refused")},
			logger,
		)

		req := authenticatedRequest(http.MethodGet, "/api/admin/dashboard", adminToken)
		w := httptest.NewRecorder()

		handler.HandleDashboard(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response DashboardResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Zero(t, response.Stats.TotalUsers)
		assert.Zero(t, response.Stats.AdminUsers)
		assert.Empty(t, response.RecentActions)

		// recentActions must be an empty array, not null.
		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		assert.JSONEq(t, `[]`, string(raw["recentActions"]))
	})

	t.Run("non-GET returns 405", func(t *testing.T) {
		handler := NewAdminHandler(&stubUserStore{}, &stubAuditStore{}, logger)

		req := authenticatedRequest(http.MethodPost, "/api/admin/dashboard", adminToken)
		w := httptest.NewRecorder()

		handler.HandleDashboard(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.JSONEq(t, `{"error": "Method not allowed"}`, w.Body.String())
	})
}
