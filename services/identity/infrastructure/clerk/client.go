// Package clerk implements the identity provider boundary against a
// Clerk-style hosted provider: JWT session tokens verified against the
// provider's published RSA keys, hosted sign-in/sign-up pages, a management
// API for user profiles and session revocation, and signed webhooks for
// sign-in/sign-out events.
package clerk

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/logger"
	"github.com/codeinozzz/capstone-prog-5-front/services/identity/domain"
)

// Config carries the provider endpoints and credentials.
type Config struct {
	FrontendURL   string // hosted pages base, e.g. https://accounts.example.com
	APIURL        string // management API base, e.g. https://api.clerk.example.com/v1
	APIKey        string // management API secret
	WebhookSecret string // webhook signing secret, "whsec_..."
}

// Client is the process-wide provider connection. It becomes Ready once the
// signing key set has been fetched; token verification before that point
// fails, which the session layer treats as "not yet loaded".
type Client struct {
	cfg  Config
	http *http.Client
	log  logger.Logger

	ready     chan struct{}
	readyOnce sync.Once

	mu   sync.RWMutex
	keys map[string]*rsa.PublicKey // kid → verification key
}

// NewClient returns an unstarted Client. Call Start to fetch the key set.
func NewClient(cfg Config, log logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log:   log,
		ready: make(chan struct{}),
		keys:  make(map[string]*rsa.PublicKey),
	}
}

// Start fetches the provider's JWKS and marks the client ready. It retries
// until the fetch succeeds or ctx ends, so a slow provider delays readiness
// rather than failing startup.
func (c *Client) Start(ctx context.Context) error {
	delay := time.Second
	for {
		err := c.refreshKeys(ctx)
		if err == nil {
			c.readyOnce.Do(func() { close(c.ready) })
			return nil
		}
		c.log.Warn("identity provider key fetch failed, retrying", "error", err, "next_delay", delay)

		select {
		case <-ctx.Done():
			return fmt.Errorf("clerk: start: %w", ctx.Err())
		case <-time.After(delay):
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
}

// Ready is closed once the key set has been loaded.
func (c *Client) Ready() <-chan struct{} {
	return c.ready
}

type jwksDocument struct {
	Keys []struct {
		Kid string `json:"kid"`
		Kty string `json:"kty"`
		N   string `json:"n"`
		E   string `json:"e"`
	} `json:"keys"`
}

func (c *Client) refreshKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL+"/jwks", nil)
	if err != nil {
		return fmt.Errorf("clerk: build jwks request: %w", err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("clerk: fetch jwks: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("clerk: jwks endpoint answered %d", resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&doc); err != nil {
		return fmt.Errorf("clerk: decode jwks: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := rsaKeyFromJWK(k.N, k.E)
		if err != nil {
			c.log.Warn("skipping unparsable jwks key", "kid", k.Kid, "error", err)
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return fmt.Errorf("clerk: jwks contained no usable keys")
	}

	c.mu.Lock()
	c.keys = keys
	c.mu.Unlock()
	return nil
}

func rsaKeyFromJWK(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("modulus: %w", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("exponent: %w", err)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nb),
		E: int(new(big.Int).SetBytes(eb).Int64()),
	}, nil
}

type sessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid,omitempty"`
}

// VerifyToken validates a session JWT against the provider's keys and
// resolves the subject into a full identity. The management API supplies the
// profile; without an API key the claims alone identify the user.
func (c *Client) VerifyToken(ctx context.Context, token string) (*domain.UserIdentity, error) {
	claims, err := c.parseToken(token)
	if err != nil {
		return nil, err
	}
	userID := claims.Subject
	if userID == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrInvalidToken)
	}

	if c.cfg.APIKey == "" {
		return &domain.UserIdentity{ID: userID}, nil
	}
	return c.fetchUser(ctx, userID)
}

func (c *Client) parseToken(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		c.mu.RLock()
		defer c.mu.RUnlock()
		if key, ok := c.keys[kid]; ok {
			return key, nil
		}
		return nil, fmt.Errorf("unknown signing key %q", kid)
	}, jwt.WithValidMethods([]string{"RS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	return claims, nil
}

type userDocument struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Username       string `json:"username"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (c *Client) fetchUser(ctx context.Context, userID string) (*domain.UserIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL+"/users/"+userID, nil)
	if err != nil {
		return nil, fmt.Errorf("clerk: build user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch user: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: user endpoint answered %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}

	var doc userDocument
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("clerk: decode user: %w", err)
	}
	return identityFromDocument(doc), nil
}

func identityFromDocument(doc userDocument) *domain.UserIdentity {
	emails := make([]domain.EmailAddress, 0, len(doc.EmailAddresses))
	for _, e := range doc.EmailAddresses {
		emails = append(emails, domain.EmailAddress{EmailAddress: e.EmailAddress})
	}
	return &domain.UserIdentity{
		ID:             doc.ID,
		FirstName:      doc.FirstName,
		LastName:       doc.LastName,
		Username:       doc.Username,
		EmailAddresses: emails,
	}
}

// SignInURL returns the hosted sign-in page, redirecting back to returnURL
// after authentication.
func (c *Client) SignInURL(returnURL string) string {
	return c.hostedURL("/sign-in", returnURL)
}

// SignUpURL returns the hosted sign-up page.
func (c *Client) SignUpURL(returnURL string) string {
	return c.hostedURL("/sign-up", returnURL)
}

func (c *Client) hostedURL(page, returnURL string) string {
	u := strings.TrimRight(c.cfg.FrontendURL, "/") + page
	if returnURL != "" {
		u += "?redirect_url=" + url.QueryEscape(returnURL)
	}
	return u
}

// RevokeSession revokes the session named in the token so the provider stops
// honoring it. Without an API key (or a sid claim) revocation is local only.
func (c *Client) RevokeSession(ctx context.Context, token string) error {
	if c.cfg.APIKey == "" {
		return nil
	}
	claims, err := c.parseToken(token)
	if err != nil {
		return err
	}
	if claims.SessionID == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.APIURL+"/sessions/"+claims.SessionID+"/revoke", nil)
	if err != nil {
		return fmt.Errorf("clerk: build revoke request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: revoke session: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("%w: revoke endpoint answered %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}
	return nil
}
