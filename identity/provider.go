package identity

import "context"

// SessionSource delivers session-change notifications from the identity
// provider. The callback receives the new Principal (nil on sign-out) or a
// provider error; each notification fully replaces the previous value.
// Subscribe returns a release function that must be called exactly once when
// the subscriber goes away.
type SessionSource interface {
	Subscribe(onChange func(p *Principal, err error)) (unsubscribe func())
}

// TokenVerifier verifies a raw bearer credential and returns the verified
// token. Verification failures are returned as errors; callers must not
// expose their details to the client.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, raw string) (*Token, error)
}

// Provider is the full surface of the external identity provider as consumed
// by this application. Concrete implementations wrap the provider's SDK; the
// in-repo Verifier covers token verification, and identitytest provides a
// scripted implementation for tests.
type Provider interface {
	SessionSource
	TokenVerifier

	// SignIn starts the provider's sign-in flow.
	SignIn(ctx context.Context) error
	// SignOut ends the current session.
	SignOut(ctx context.Context) error
}
