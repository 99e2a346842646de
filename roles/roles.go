// Package roles resolves the role claim for a principal. Two sources exist
// and are deliberately not reconciled: the per-user document in the store
// (client-side path) and the admin custom claim inside a verified token
// (server-side path). The token claim is authoritative for server
// decisions; the document only drives client-side rendering.
package roles

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/SamuelNetzer/Netzer-SingleSign/identity"
	"github.com/SamuelNetzer/Netzer-SingleSign/store"
)

// Role is the principal's resolved role.
type Role string

const (
	// RoleUser is the ordinary, default role.
	RoleUser Role = "user"
	// RoleAdmin is the administrator role.
	RoleAdmin Role = "admin"
)

// adminRoleValue is the document field value that grants RoleAdmin.
const adminRoleValue = "admin"

// IsAdmin reports whether the role is administrator.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Resolver resolves roles from the user document store. Lookups are
// best-effort: any failure downgrades to RoleUser so the caller always
// reaches a decision.
type Resolver struct {
	store  store.UserStore
	logger *zap.Logger
}

// NewResolver creates a new Resolver
func NewResolver(s store.UserStore, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:  s,
		logger: logger,
	}
}

// Resolve determines the role for a principal with a single read of its
// user document. A missing document, missing field, or read failure
// resolves to RoleUser; errors are logged, never returned.
func (r *Resolver) Resolve(ctx context.Context, p *identity.Principal) Role {
	if p == nil {
		return RoleUser
	}

	doc, err := r.store.GetUserDocument(ctx, p.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.logger.Debug("no user document, defaulting to ordinary role",
				zap.String("uid", p.ID))
		} else {
			r.logger.Warn("role lookup failed, defaulting to ordinary role",
				zap.String("uid", p.ID),
				zap.Error(err))
		}
		return RoleUser
	}

	if doc.Role == adminRoleValue {
		return RoleAdmin
	}
	return RoleUser
}

// FromToken reads the role from a verified token's admin claim. The claim
// travels inside the token, so this path makes no external call and cannot
// fail independently of verification.
func FromToken(tok *identity.Token) Role {
	if tok == nil || !tok.Admin {
		return RoleUser
	}
	return RoleAdmin
}
