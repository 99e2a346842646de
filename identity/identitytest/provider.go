// Package identitytest provides scripted identity-provider implementations
// and signed-token fixtures for tests.
package identitytest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SamuelNetzer/Netzer-SingleSign/identity"
)

// FakeProvider is an in-memory identity.Provider. Session changes are
// emitted with Emit (or by SignIn/SignOut); token verification answers from
// a registered raw-token table.
type FakeProvider struct {
	mu      sync.Mutex
	subs    map[string]func(p *identity.Principal, err error)
	current *identity.Principal
	tokens  map[string]*identity.Token
}

// NewFakeProvider creates an empty fake provider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		subs:   make(map[string]func(p *identity.Principal, err error)),
		tokens: make(map[string]*identity.Token),
	}
}

// Subscribe registers a session-change callback. The callback is not invoked
// until the first Emit, mirroring a provider that has not yet restored the
// session.
func (f *FakeProvider) Subscribe(onChange func(p *identity.Principal, err error)) (unsubscribe func()) {
	id := uuid.NewString()

	f.mu.Lock()
	f.subs[id] = onChange
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

// Emit delivers a session-change notification to every subscriber.
func (f *FakeProvider) Emit(p *identity.Principal, err error) {
	f.mu.Lock()
	f.current = p
	callbacks := make([]func(p *identity.Principal, err error), 0, len(f.subs))
	for _, fn := range f.subs {
		callbacks = append(callbacks, fn)
	}
	f.mu.Unlock()

	for _, fn := range callbacks {
		fn(p, err)
	}
}

// SubscriberCount reports how many subscriptions are live.
func (f *FakeProvider) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// RegisterToken makes VerifyToken accept raw and return tok.
func (f *FakeProvider) RegisterToken(raw string, tok *identity.Token) {
	f.mu.Lock()
	f.tokens[raw] = tok
	f.mu.Unlock()
}

// VerifyToken answers from the registered token table.
func (f *FakeProvider) VerifyToken(ctx context.Context, raw string) (*identity.Token, error) {
	f.mu.Lock()
	tok, ok := f.tokens[raw]
	f.mu.Unlock()

	if !ok {
		return nil, identity.ErrInvalidToken
	}
	return tok, nil
}

// SignIn emits a freshly generated principal.
func (f *FakeProvider) SignIn(ctx context.Context) error {
	f.Emit(NewPrincipal("user@example.com"), nil)
	return nil
}

// SignOut emits a nil principal.
func (f *FakeProvider) SignOut(ctx context.Context) error {
	f.Emit(nil, nil)
	return nil
}

// NewPrincipal builds a principal with a random ID for the given email.
func NewPrincipal(email string) *identity.Principal {
	return &identity.Principal{
		ID:            uuid.NewString(),
		Email:         email,
		DisplayName:   fmt.Sprintf("Test User %s", email),
		EmailVerified: true,
		ProviderID:    "google.com",
		LastSignIn:    time.Now().UTC(),
	}
}

var _ identity.Provider = (*FakeProvider)(nil)
