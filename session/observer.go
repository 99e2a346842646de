// Package session tracks who is currently signed in by holding the single
// subscription to the identity provider's session-change notifications.
package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/SamuelNetzer/Netzer-SingleSign/identity"
)

// Observer holds the current session state. Construct exactly one per
// process and inject it wherever gates are composed; every consumer reads
// this instance instead of opening its own subscription.
//
// The state is written only by the subscription callback. Notifications
// arrive in provider order and each one fully replaces the principal.
type Observer struct {
	mu        sync.RWMutex
	principal *identity.Principal
	resolving bool

	listeners  map[int]func(p *identity.Principal, resolving bool)
	nextListen int

	unsubscribe func()
	closeOnce   sync.Once
	logger      *zap.Logger
}

// NewObserver registers the subscription and returns the observer. Until the
// first notification arrives, IsResolving reports true and Principal is nil.
func NewObserver(src identity.SessionSource, logger *zap.Logger) *Observer {
	o := &Observer{
		resolving: true,
		listeners: make(map[int]func(p *identity.Principal, resolving bool)),
		logger:    logger,
	}
	o.unsubscribe = src.Subscribe(o.onChange)
	return o
}

// onChange is the subscription callback. A provider error resolves to no
// principal rather than failing the process: the observer errs toward
// denying access.
func (o *Observer) onChange(p *identity.Principal, err error) {
	if err != nil {
		o.logger.Warn("session channel reported an error, treating as signed out",
			zap.Error(err))
		p = nil
	}

	o.mu.Lock()
	o.principal = p
	o.resolving = false
	listeners := make([]func(p *identity.Principal, resolving bool), 0, len(o.listeners))
	for _, fn := range o.listeners {
		listeners = append(listeners, fn)
	}
	o.mu.Unlock()

	for _, fn := range listeners {
		fn(p, false)
	}
}

// AddListener registers fn to run after every session change with the new
// state. The observer still holds the only provider subscription; listeners
// fan out from it. The returned function removes the listener.
func (o *Observer) AddListener(fn func(p *identity.Principal, resolving bool)) (remove func()) {
	o.mu.Lock()
	id := o.nextListen
	o.nextListen++
	o.listeners[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.listeners, id)
		o.mu.Unlock()
	}
}

// Principal returns the current principal, or nil when nobody is signed in
// (or the first notification has not arrived yet).
func (o *Observer) Principal() *identity.Principal {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.principal
}

// IsResolving reports whether the first session notification is still
// outstanding.
func (o *Observer) IsResolving() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.resolving
}

// Snapshot returns the principal and resolving flag as one consistent pair.
func (o *Observer) Snapshot() (*identity.Principal, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.principal, o.resolving
}

// Close releases the subscription. Safe to call multiple times and from any
// teardown path; only the first call unsubscribes.
func (o *Observer) Close() {
	o.closeOnce.Do(func() {
		if o.unsubscribe != nil {
			o.unsubscribe()
		}
	})
}
