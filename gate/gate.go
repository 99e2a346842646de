// Package gate decides whether a protected client-side region may render.
// A Gate consumes session-observer values and, for the administrator
// variant, the role resolver; it settles into exactly one terminal decision
// and fires at most one navigation.
package gate

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/SamuelNetzer/Netzer-SingleSign/identity"
	"github.com/SamuelNetzer/Netzer-SingleSign/roles"
)

// Decision is the gate's current authorization decision.
type Decision int

const (
	// DecisionResolving means the session or role lookup is still pending;
	// the caller renders a neutral placeholder and performs no navigation.
	DecisionResolving Decision = iota
	// DecisionAllow renders the protected content.
	DecisionAllow
	// DecisionRedirectLogin navigates to the login route.
	DecisionRedirectLogin
	// DecisionRedirectUnauthorized navigates to the unauthorized route.
	DecisionRedirectUnauthorized
)

// String returns the decision name for logging.
func (d Decision) String() string {
	switch d {
	case DecisionResolving:
		return "resolving"
	case DecisionAllow:
		return "allow"
	case DecisionRedirectLogin:
		return "redirect-login"
	case DecisionRedirectUnauthorized:
		return "redirect-unauthorized"
	default:
		return "unknown"
	}
}

// Navigator performs client-side navigation. The gate calls it at most once
// per gate lifetime.
type Navigator interface {
	Navigate(route string)
}

// RoleResolver resolves the role for a principal. *roles.Resolver satisfies
// this.
type RoleResolver interface {
	Resolve(ctx context.Context, p *identity.Principal) roles.Role
}

// SessionWatcher is the read-and-notify surface of the session observer.
type SessionWatcher interface {
	Snapshot() (p *identity.Principal, resolving bool)
	AddListener(fn func(p *identity.Principal, resolving bool)) (remove func())
}

// Default navigation targets.
const (
	DefaultLoginRoute        = "/login"
	DefaultUnauthorizedRoute = "/unauthorized"
)

// Config configures a Gate.
type Config struct {
	// RequireAdmin selects the administrator variant. When set, Resolver
	// must be non-nil.
	RequireAdmin bool
	// Resolver resolves the role claim for the administrator variant.
	Resolver RoleResolver
	// Navigator receives the single navigation of a redirect decision.
	Navigator Navigator
	// LoginRoute overrides DefaultLoginRoute.
	LoginRoute string
	// UnauthorizedRoute overrides DefaultUnauthorizedRoute.
	UnauthorizedRoute string
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Gate is the route-authorization state machine:
//
//	resolving -> allow | redirect-login | redirect-unauthorized
//
// Decided states are terminal. The transition into a redirect state fires
// the navigation exactly once; re-delivering the same observer values in a
// decided state changes nothing.
type Gate struct {
	cfg    Config
	logger *zap.Logger

	mu       sync.Mutex
	decision Decision
	closed   bool
	// generation stamps the in-flight role lookup; results arriving for an
	// older generation, or after Close, are discarded, never applied.
	generation uint64
	// pendingFor is the principal ID whose role lookup is in flight.
	pendingFor string
}

// New creates a gate in the resolving state.
func New(cfg Config) *Gate {
	if cfg.LoginRoute == "" {
		cfg.LoginRoute = DefaultLoginRoute
	}
	if cfg.UnauthorizedRoute == "" {
		cfg.UnauthorizedRoute = DefaultUnauthorizedRoute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		cfg:      cfg,
		logger:   logger,
		decision: DecisionResolving,
	}
}

// Update feeds the gate the current session-observer values. Safe to call on
// every render cycle; once the gate is decided, further calls are no-ops.
func (g *Gate) Update(ctx context.Context, p *identity.Principal, resolving bool) {
	g.mu.Lock()

	if g.closed || g.decision != DecisionResolving {
		g.mu.Unlock()
		return
	}

	if resolving {
		g.mu.Unlock()
		return
	}

	if p == nil {
		g.decision = DecisionRedirectLogin
		g.mu.Unlock()
		g.navigate(g.cfg.LoginRoute, DecisionRedirectLogin)
		return
	}

	if !g.cfg.RequireAdmin {
		g.decision = DecisionAllow
		g.mu.Unlock()
		return
	}

	// Administrator variant: the session is resolved but the role read may
	// still be outstanding. Stay resolving until it lands rather than
	// flashing a premature deny.
	if g.pendingFor == p.ID {
		g.mu.Unlock()
		return
	}

	g.generation++
	gen := g.generation
	g.pendingFor = p.ID
	g.mu.Unlock()

	go func() {
		role := g.cfg.Resolver.Resolve(ctx, p)
		g.deliverRole(gen, role)
	}()
}

// Watch drives the gate from a session observer: the current snapshot is
// applied immediately and every later session change is fed through Update.
// The returned stop function removes the listener; call it together with
// Close on teardown.
func (g *Gate) Watch(ctx context.Context, w SessionWatcher) (stop func()) {
	remove := w.AddListener(func(p *identity.Principal, resolving bool) {
		g.Update(ctx, p, resolving)
	})
	p, resolving := w.Snapshot()
	g.Update(ctx, p, resolving)
	return remove
}

// deliverRole applies a completed role lookup, unless it is stale.
func (g *Gate) deliverRole(gen uint64, role roles.Role) {
	g.mu.Lock()

	if g.closed || gen != g.generation || g.decision != DecisionResolving {
		g.mu.Unlock()
		return
	}
	g.pendingFor = ""

	if role.IsAdmin() {
		g.decision = DecisionAllow
		g.mu.Unlock()
		return
	}

	g.decision = DecisionRedirectUnauthorized
	g.mu.Unlock()
	g.navigate(g.cfg.UnauthorizedRoute, DecisionRedirectUnauthorized)
}

// navigate fires the single navigation for a redirect transition. Called
// exactly once per gate, by the goroutine that performed the transition.
func (g *Gate) navigate(route string, decision Decision) {
	g.logger.Debug("gate decided",
		zap.String("decision", decision.String()),
		zap.String("route", route))
	if g.cfg.Navigator != nil {
		g.cfg.Navigator.Navigate(route)
	}
}

// Decision returns the current decision.
func (g *Gate) Decision() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.decision
}

// Close marks the gate unmounted. Any role lookup still in flight is
// discarded on arrival; no navigation fires after Close.
func (g *Gate) Close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}
