package domain

import "errors"

// Sentinel errors for the identity domain. Use errors.Is() to check these.
var (
	// ErrNotAuthenticated indicates the request carries no valid signed-in principal.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrProviderUnavailable indicates the identity provider could not be reached.
	ErrProviderUnavailable = errors.New("identity provider unavailable")

	// ErrInvalidToken indicates a session token that failed verification.
	ErrInvalidToken = errors.New("invalid session token")

	// ErrInvalidWebhookSignature indicates a webhook payload whose signature
	// does not match the shared secret.
	ErrInvalidWebhookSignature = errors.New("invalid webhook signature")
)
