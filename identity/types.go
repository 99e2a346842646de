// Package identity defines the application's view of the external identity
// provider: the Principal it reports for the current session, the verified
// token it produces for a bearer credential, and the provider surface the
// rest of the system consumes. Sign-in, token issuance, and the OAuth
// redirect flow stay with the provider and are not implemented here.
package identity

import "time"

// Principal identifies the signed-in entity for one session. It is produced
// by the identity provider, replaced wholesale on every session change, and
// nil when nobody is signed in.
type Principal struct {
	// ID is the provider's stable unique identifier for the user.
	ID string
	// Email is the user's email address, if the provider shared one.
	Email string
	// DisplayName is the user's display name, if set.
	DisplayName string
	// EmailVerified reports whether the provider verified the email.
	EmailVerified bool
	// ProviderID names the upstream identity source (e.g. "google.com").
	ProviderID string
	// LastSignIn is the time of the most recent sign-in.
	LastSignIn time.Time
}

// Token is the result of verifying a bearer credential. It exists only
// within the scope of one request. Fields carry validator tags so malformed
// provider payloads are rejected at the boundary instead of being accessed
// speculatively downstream.
type Token struct {
	// Subject is the principal's unique identifier.
	Subject string `validate:"required"`
	// Email is the principal's email address, when present in the token.
	Email string `validate:"omitempty,email"`
	// Name is the principal's display name, when present.
	Name string
	// EmailVerified reports whether the provider verified the email.
	EmailVerified bool
	// Admin is the administrator custom claim. Absent means false.
	Admin bool
	// Issuer is the token's "iss" claim.
	Issuer string
	// IssuedAt is when the token was minted.
	IssuedAt time.Time
	// ExpiresAt is when the token stops being valid.
	ExpiresAt time.Time
}
