package middleware

import (
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/SamuelNetzer/Netzer-SingleSign/identity"
	"github.com/SamuelNetzer/Netzer-SingleSign/utils"
)

// Messages returned by the authorization middleware. These are part of the
// API contract; clients match on them.
const (
	msgMissingToken  = "Unauthorized: Missing or invalid token format"
	msgEmptyToken    = "Unauthorized: No token provided"
	msgInvalidToken  = "Unauthorized: Invalid token"
	msgAdminRequired = "Forbidden: Admin access required"
)

// bearerPrefix is matched case-sensitively; anything else is a format error.
const bearerPrefix = "Bearer "

// AuthMiddleware provides authentication and authorization middleware
type AuthMiddleware struct {
	verifier identity.TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier identity.TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// RequireAuth is a middleware that requires a valid bearer token.
// On success the verified token is placed in the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := chimiddleware.GetReqID(ctx)

		// Wrap the writer so the recovery path can tell whether a response
		// already started; a half-written body never gets a second status.
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			if rec := recover(); rec != nil {
				m.logger.Error("panic in authorized handler",
					zap.String("request_id", requestID),
					zap.Any("panic", rec))
				if ww.BytesWritten() == 0 {
					_ = utils.WriteInternalServerError(ww)
				}
			}
		}()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, bearerPrefix) {
			m.logger.Warn("missing or malformed authorization header",
				zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(ww, msgMissingToken)
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if raw == "" {
			m.logger.Warn("empty bearer token",
				zap.String("request_id", requestID))
			_ = utils.WriteUnauthorized(ww, msgEmptyToken)
			return
		}

		token, err := m.verifier.VerifyToken(ctx, raw)
		if err != nil {
			m.logger.Warn("token verification failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			_ = utils.WriteUnauthorized(ww, msgInvalidToken)
			return
		}

		ctx = WithToken(ctx, token)

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("sub", token.Subject),
			zap.String("email", token.Email))

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

// RequireAdmin is a middleware that requires a valid bearer token carrying
// the admin claim. It composes RequireAuth with the claim check, so all of
// RequireAuth's rejections apply first.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := chimiddleware.GetReqID(ctx)

		token := GetTokenFromContext(ctx)
		if token == nil || !token.Admin {
			sub := ""
			if token != nil {
				sub = token.Subject
			}
			m.logger.Warn("admin access denied",
				zap.String("request_id", requestID),
				zap.String("sub", sub))
			_ = utils.WriteForbidden(w, msgAdminRequired)
			return
		}

		next.ServeHTTP(w, r)
	}))
}
