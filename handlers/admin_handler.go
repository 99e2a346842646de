package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/SamuelNetzer/Netzer-SingleSign/middleware"
	"github.com/SamuelNetzer/Netzer-SingleSign/store"
	"github.com/SamuelNetzer/Netzer-SingleSign/utils"
)

// recentActionsLimit caps the audit feed on the dashboard.
const recentActionsLimit = 10

// AdminInfo is the administrator block of the dashboard response
type AdminInfo struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// DashboardStats summarizes the user population
type DashboardStats struct {
	TotalUsers int `json:"totalUsers"`
	AdminUsers int `json:"adminUsers"`
}

// DashboardResponse is the response body for GET /api/admin/dashboard
type DashboardResponse struct {
	Message       string             `json:"message"`
	Admin         AdminInfo          `json:"admin"`
	Stats         DashboardStats     `json:"stats"`
	RecentActions []store.AuditEntry `json:"recentActions"`
	Timestamp     string             `json:"timestamp"`
}

// AdminHandler serves the administrator dashboard
type AdminHandler struct {
	users  store.UserStore
	audit  store.AuditStore
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(users store.UserStore, audit store.AuditStore, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		users:  users,
		audit:  audit,
		logger: logger,
	}
}

// HandleDashboard handles GET /api/admin/dashboard.
// Runs behind RequireAdmin. Store failures degrade the stats and feed to
// zero values; the dashboard itself still answers.
func (h *AdminHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		_ = utils.WriteMethodNotAllowed(w)
		return
	}

	ctx := r.Context()

	token := middleware.GetTokenFromContext(ctx)
	if token == nil {
		h.logger.Error("token missing from context on admin route")
		_ = utils.WriteInternalServerError(w)
		return
	}

	name := token.Name
	if name == "" {
		name = "Admin"
	}

	var stats DashboardStats
	if h.users != nil {
		total, admins, err := h.users.CountUsers(ctx)
		if err != nil {
			h.logger.Warn("user counts unavailable", zap.Error(err))
		} else {
			stats.TotalUsers = total
			stats.AdminUsers = admins
		}
	}

	recentActions := []store.AuditEntry{}
	if h.audit != nil {
		entries, err := h.audit.RecentActions(ctx, recentActionsLimit)
		if err != nil {
			h.logger.Warn("audit feed unavailable", zap.Error(err))
		} else if entries != nil {
			recentActions = entries
		}
	}

	response := DashboardResponse{
		Message: "Admin dashboard data",
		Admin: AdminInfo{
			UID:   token.Subject,
			Email: token.Email,
			Name:  name,
		},
		Stats:         stats,
		RecentActions: recentActions,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}

	_ = utils.WriteJSON(w, http.StatusOK, response)
}
