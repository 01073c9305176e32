package domain

import "context"

// EmailAddress is one entry in a user's ordered email list.
type EmailAddress struct {
	EmailAddress string `json:"emailAddress"`
}

// UserIdentity is an immutable snapshot of the signed-in user as reported by
// the identity provider. Updates replace the whole value; nothing mutates a
// published identity in place.
type UserIdentity struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"firstName,omitempty"`
	LastName       string         `json:"lastName,omitempty"`
	Username       string         `json:"username,omitempty"`
	EmailAddresses []EmailAddress `json:"emailAddresses"`
}

// PrimaryEmail returns the first email address, or "" when none exist.
func (u *UserIdentity) PrimaryEmail() string {
	if u == nil || len(u.EmailAddresses) == 0 {
		return ""
	}
	return u.EmailAddresses[0].EmailAddress
}

// SessionState is the authentication snapshot shared by guards and
// auth-aware handlers.
//
// Invariants: Authenticated implies User != nil. While Loaded is false,
// Authenticated carries its last-known (or initial) value and must not be
// trusted for access decisions.
type SessionState struct {
	Loaded        bool
	Authenticated bool
	User          *UserIdentity
}

// ProviderEvent is one sign-in/sign-out notification from the identity
// provider. A nil User means the principal signed out.
type ProviderEvent struct {
	User *UserIdentity
}

// Provider is the per-principal identity provider boundary the Store wraps.
//
// Load blocks until the provider has finished its asynchronous
// initialization and returns the principal's post-load identity (nil when
// signed out). If the provider never becomes ready, Load never returns;
// callers bound the wait with ctx.
type Provider interface {
	Load(ctx context.Context) (*UserIdentity, error)
	// Events yields one ProviderEvent per provider-originated sign-in or
	// sign-out, in emission order. The channel is closed when the principal
	// is discarded.
	Events() <-chan ProviderEvent
	SignInURL(returnURL string) string
	SignUpURL(returnURL string) string
	SignOut(ctx context.Context) error
}

// ProviderClient is the process-wide identity provider connection from which
// per-principal Providers are derived. Ready is closed once the provider's
// asynchronous load (key set fetch) completes.
type ProviderClient interface {
	Ready() <-chan struct{}
	VerifyToken(ctx context.Context, token string) (*UserIdentity, error)
	SignInURL(returnURL string) string
	SignUpURL(returnURL string) string
	RevokeSession(ctx context.Context, token string) error
}
