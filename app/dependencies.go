// Package app wires the application's dependencies together.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/SamuelNetzer/Netzer-SingleSign/config"
	"github.com/SamuelNetzer/Netzer-SingleSign/gate"
	"github.com/SamuelNetzer/Netzer-SingleSign/identity"
	"github.com/SamuelNetzer/Netzer-SingleSign/middleware"
	"github.com/SamuelNetzer/Netzer-SingleSign/roles"
	"github.com/SamuelNetzer/Netzer-SingleSign/store"
	"github.com/SamuelNetzer/Netzer-SingleSign/store/postgres"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Stores
	Users store.UserStore
	Audit store.AuditStore

	// Authorization
	RoleResolver   *roles.Resolver
	Verifier       identity.TokenVerifier
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initStores()
	deps.initAuth(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection pool
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.NewDB(cfg.Database, d.Logger)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	d.DB = db
	return nil
}

// initStores initializes the document stores and the role resolver
func (d *Dependencies) initStores() {
	d.Users = postgres.NewUserStore(d.DB.DB, d.Logger)
	d.Audit = postgres.NewAuditStore(d.DB.DB, d.Logger)
	d.RoleResolver = roles.NewResolver(d.Users, d.Logger)

	d.Logger.Info("stores initialized")
}

// initAuth initializes token verification and the authorization middleware
func (d *Dependencies) initAuth(cfg *config.Config) {
	if cfg.Identity.JWKSURL == "" {
		d.Logger.Warn("identity provider not configured, protected routes will reject")
		// Reject-all verifier so protected routes return 401 instead of
		// letting unverified tokens through.
		d.Verifier = &rejectAllVerifier{}
		d.AuthMiddleware = middleware.NewAuthMiddleware(d.Verifier, d.Logger)
		return
	}

	d.Verifier = identity.NewVerifier(identity.VerifierConfig{
		Issuer:      cfg.Identity.Issuer,
		Audience:    cfg.Identity.Audience,
		JWKSURL:     cfg.Identity.JWKSURL,
		CacheTTL:    cfg.Identity.JWKSCacheTTL,
		HTTPTimeout: cfg.Identity.HTTPTimeout,
	})
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Verifier, d.Logger)

	d.Logger.Info("token verifier initialized",
		zap.String("issuer", cfg.Identity.Issuer))
}

// NewGate builds a client authorization gate wired to the configured
// navigation targets and the store-backed role resolver.
func (d *Dependencies) NewGate(requireAdmin bool, nav gate.Navigator) *gate.Gate {
	return gate.New(gate.Config{
		RequireAdmin:      requireAdmin,
		Resolver:          d.RoleResolver,
		Navigator:         nav,
		LoginRoute:        d.Config.Gate.LoginRoute,
		UnauthorizedRoute: d.Config.Gate.UnauthorizedRoute,
		Logger:            d.Logger,
	})
}

// rejectAllVerifier rejects all tokens (used when the identity provider is
// not configured)
type rejectAllVerifier struct{}

func (*rejectAllVerifier) VerifyToken(context.Context, string) (*identity.Token, error) {
	return nil, fmt.Errorf("authentication not configured")
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
