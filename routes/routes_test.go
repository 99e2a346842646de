package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SamuelNetzer/Netzer-SingleSign/app"
	"github.com/SamuelNetzer/Netzer-SingleSign/config"
	"github.com/SamuelNetzer/Netzer-SingleSign/identity"
	"github.com/SamuelNetzer/Netzer-SingleSign/identity/identitytest"
	"github.com/SamuelNetzer/Netzer-SingleSign/middleware"
	"github.com/SamuelNetzer/Netzer-SingleSign/store"
)

type stubUserStore struct {
	total  int
	admins int
}

func (s *stubUserStore) GetUserDocument(ctx context.Context, uid string) (*store.UserDocument, error) {
	return nil, store.ErrNotFound
}

func (s *stubUserStore) CountUsers(ctx context.Context) (int, int, error) {
	return s.total, s.admins, nil
}

type stubAuditStore struct {
	entries []store.AuditEntry
}

func (s *stubAuditStore) RecentActions(ctx context.Context, limit int) ([]store.AuditEntry, error) {
	return s.entries, nil
}

// testServer wires the router with a fake token verifier and in-memory
// stores, the way the real entrypoint wires the production collaborators.
func testServer(t *testing.T) (http.Handler, *identitytest.FakeProvider) {
	t.Helper()

	logger := zap.NewNop()
	provider := identitytest.NewFakeProvider()

	deps := &app.Dependencies{
		Config: &config.Config{},
		Logger: logger,
		Users:  &stubUserStore{total: 42, admins: 2},
		Audit: &stubAuditStore{entries: []store.AuditEntry{
			{Action: "User Created", Actor: "user123", Timestamp: time.Now().UTC()},
		}},
		Verifier:       provider,
		AuthMiddleware: middleware.NewAuthMiddleware(provider, logger),
	}

	return SetupRoutes(deps), provider
}

func TestRoutes_ProtectedData(t *testing.T) {
	handler, provider := testServer(t)
	provider.RegisterToken("user-token", &identity.Token{
		Subject: "uid-user",
		Email:   "user@example.com",
		Name:    "Regular User",
	})

	t.Run("authenticated user reads protected data", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/protected-data", nil)
		req.Header.Set("Authorization", "Bearer user-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.JSONEq(t,
			`{"uid": "uid-user", "email": "user@example.com", "name": "Regular User"}`,
			string(body["user"]))
	})

	t.Run("missing token returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/protected-data", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error": "Unauthorized: Missing or invalid token format"}`, w.Body.String())
	})

	t.Run("unknown token returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/protected-data", nil)
		req.Header.Set("Authorization", "Bearer forged-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error": "Unauthorized: Invalid token"}`, w.Body.String())
	})

	t.Run("non-GET returns 405 with the contract body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/protected-data", nil)
		req.Header.Set("Authorization", "Bearer user-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.JSONEq(t, `{"error": "Method not allowed"}`, w.Body.String())
	})
}

func TestRoutes_AdminDashboard(t *testing.T) {
	handler, provider := testServer(t)
	provider.RegisterToken("user-token", &identity.Token{
		Subject: "uid-user",
		Email:   "user@example.com",
	})
	provider.RegisterToken("admin-token", &identity.Token{
		Subject: "uid-admin",
		Email:   "admin@example.com",
		Name:    "Site Admin",
		Admin:   true,
	})

	t.Run("regular user is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
		req.Header.Set("Authorization", "Bearer user-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.JSONEq(t, `{"error": "Forbidden: Admin access required"}`, w.Body.String())
	})

	t.Run("admin reads the dashboard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
		req.Header.Set("Authorization", "Bearer admin-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.JSONEq(t,
			`{"uid": "uid-admin", "email": "admin@example.com", "name": "Site Admin"}`,
			string(body["admin"]))
		assert.JSONEq(t, `{"totalUsers": 42, "adminUsers": 2}`, string(body["stats"]))
	})

	t.Run("unauthenticated request is rejected before the claim check", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error": "Unauthorized: Missing or invalid token format"}`, w.Body.String())
	})
}

func TestRoutes_Health(t *testing.T) {
	handler, _ := testServer(t)

	t.Run("liveness", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("readiness without a database", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRoutes_NotFound(t *testing.T) {
	handler, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "endpoint not found"}`, w.Body.String())
}
