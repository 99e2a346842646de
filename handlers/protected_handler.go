package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/SamuelNetzer/Netzer-SingleSign/middleware"
	"github.com/SamuelNetzer/Netzer-SingleSign/utils"
)

// UserInfo is the authenticated-user block of the protected-data response
type UserInfo struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ProtectedDataResponse is the response body for GET /api/protected-data
type ProtectedDataResponse struct {
	Message   string   `json:"message"`
	User      UserInfo `json:"user"`
	Timestamp string   `json:"timestamp"`
}

// ProtectedHandler serves data visible to any authenticated user
type ProtectedHandler struct {
	logger *zap.Logger
}

// NewProtectedHandler creates a new ProtectedHandler
func NewProtectedHandler(logger *zap.Logger) *ProtectedHandler {
	return &ProtectedHandler{logger: logger}
}

// HandleProtectedData handles GET /api/protected-data.
// Runs behind RequireAuth; the verified token is always in context here.
func (h *ProtectedHandler) HandleProtectedData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		_ = utils.WriteMethodNotAllowed(w)
		return
	}

	token := middleware.GetTokenFromContext(r.Context())
	if token == nil {
		h.logger.Error("token missing from context on protected route")
		_ = utils.WriteInternalServerError(w)
		return
	}

	name := token.Name
	if name == "" {
		name = "User"
	}

	response := ProtectedDataResponse{
		Message: "This is protected data that only authenticated users can access",
		User: UserInfo{
			UID:   token.Subject,
			Email: token.Email,
			Name:  name,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	_ = utils.WriteJSON(w, http.StatusOK, response)
}
