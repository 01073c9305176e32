package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/logger"
	identitydomain "github.com/codeinozzz/capstone-prog-5-front/services/identity/domain"
)

const (
	sessionName     = "hotelbooking_session"
	sessionSIDKey   = "sid"
	sessionTokenKey = "identity_token"

	// principalIdleTTL is how long an untouched principal survives before
	// its session store is discarded. A discarded principal is rebuilt from
	// the cookie token on the next request.
	principalIdleTTL = 30 * time.Minute
	sweepInterval    = time.Minute
)

// SessionManager maps each browser session to its own identity session
// store. The store wraps a per-principal view of the shared identity
// provider connection: provider readiness is process-wide, the signed-in
// principal comes from the session cookie's provider token.
type SessionManager struct {
	cookies sessions.Store
	client  identitydomain.ProviderClient
	log     logger.Logger

	mu         sync.Mutex
	principals map[string]*principalEntry
	lastSweep  time.Time
}

type principalEntry struct {
	store    *identitydomain.Store
	events   chan identitydomain.ProviderEvent
	token    string
	lastSeen time.Time
}

// NewSessionManager returns a SessionManager over the given cookie store and
// provider connection.
func NewSessionManager(cookies sessions.Store, client identitydomain.ProviderClient, log logger.Logger) *SessionManager {
	return &SessionManager{
		cookies:    cookies,
		client:     client,
		log:        log,
		principals: make(map[string]*principalEntry),
		lastSweep:  time.Now(),
	}
}

// Store returns the session store for the request's browser session,
// creating both the session cookie and the store on first contact.
func (m *SessionManager) Store(w http.ResponseWriter, r *http.Request) (*identitydomain.Store, error) {
	sid, token, err := m.sessionValues(w, r)
	if err != nil {
		return nil, err
	}
	return m.entry(sid, token).store, nil
}

// SID returns the request's browser session identifier, establishing one if
// the request has no session yet.
func (m *SessionManager) SID(w http.ResponseWriter, r *http.Request) (string, error) {
	sid, _, err := m.sessionValues(w, r)
	return sid, err
}

// Token returns the provider session token bound to the request's browser
// session, empty when signed out. Handlers pass it to backend clients as the
// bearer credential.
func (m *SessionManager) Token(w http.ResponseWriter, r *http.Request) (string, error) {
	sid, token, err := m.sessionValues(w, r)
	if err != nil {
		return "", err
	}
	e := m.entry(sid, token)
	m.mu.Lock()
	defer m.mu.Unlock()
	return e.token, nil
}

// SignIn verifies the provider session token handed back by the hosted
// sign-in flow, binds it to the browser session, and feeds the sign-in event
// to the session store.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, token string) (*identitydomain.UserIdentity, error) {
	user, err := m.client.VerifyToken(r.Context(), token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", identitydomain.ErrInvalidToken, err)
	}

	session, err := m.cookies.Get(r, sessionName)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	sid, ok := session.Values[sessionSIDKey].(string)
	if !ok || sid == "" {
		sid = uuid.NewString()
		session.Values[sessionSIDKey] = sid
	}
	session.Values[sessionTokenKey] = token
	if err := session.Save(r, w); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	e := m.entry(sid, token)
	m.mu.Lock()
	e.token = token
	m.mu.Unlock()
	e.push(identitydomain.ProviderEvent{User: user})

	return user, nil
}

// SignOut revokes the provider session, clears the token from the browser
// session, and emits the signed-out snapshot.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sid, token, err := m.sessionValues(w, r)
	if err != nil {
		return err
	}

	e := m.entry(sid, token)
	if err := e.store.SignOut(r.Context()); err != nil {
		return err
	}

	m.mu.Lock()
	e.token = ""
	m.mu.Unlock()

	session, err := m.cookies.Get(r, sessionName)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	delete(session.Values, sessionTokenKey)
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// DispatchEvent routes a provider-originated event (webhook) to every live
// session store whose principal matches userID. A sign-out event also drops
// the bound token so the principal is not resurrected from the cookie.
func (m *SessionManager) DispatchEvent(userID string, evt identitydomain.ProviderEvent) {
	m.mu.Lock()
	targets := make([]*principalEntry, 0, 1)
	for _, e := range m.principals {
		snap := e.store.Snapshot()
		if snap.User != nil && snap.User.ID == userID {
			if evt.User == nil {
				e.token = ""
			}
			targets = append(targets, e)
		}
	}
	m.mu.Unlock()

	for _, e := range targets {
		e.push(evt)
	}
}

func (m *SessionManager) sessionValues(w http.ResponseWriter, r *http.Request) (sid, token string, err error) {
	session, err := m.cookies.Get(r, sessionName)
	if err != nil {
		return "", "", fmt.Errorf("get session: %w", err)
	}

	sid, _ = session.Values[sessionSIDKey].(string)
	token, _ = session.Values[sessionTokenKey].(string)
	if sid == "" {
		sid = uuid.NewString()
		session.Values[sessionSIDKey] = sid
		if err := session.Save(r, w); err != nil {
			return "", "", fmt.Errorf("save session: %w", err)
		}
	}
	return sid, token, nil
}

func (m *SessionManager) entry(sid, token string) *principalEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked()

	if e, ok := m.principals[sid]; ok {
		e.lastSeen = time.Now()
		return e
	}

	e := &principalEntry{
		events:   make(chan identitydomain.ProviderEvent, 8),
		token:    token,
		lastSeen: time.Now(),
	}
	p := &principal{
		client: m.client,
		events: e.events,
		tokenFn: func() string {
			m.mu.Lock()
			defer m.mu.Unlock()
			return e.token
		},
	}
	e.store = identitydomain.NewStore(p)
	e.store.Initialize(context.Background())
	m.principals[sid] = e
	return e
}

// sweepLocked evicts idle principals. Caller holds m.mu.
func (m *SessionManager) sweepLocked() {
	now := time.Now()
	if now.Sub(m.lastSweep) < sweepInterval {
		return
	}
	m.lastSweep = now
	for sid, e := range m.principals {
		if now.Sub(e.lastSeen) > principalIdleTTL {
			close(e.events) // ends the store's event loop
			delete(m.principals, sid)
		}
	}
}

// push delivers an event without blocking; a full buffer means the store's
// event loop has stalled, and dropping beats wedging the webhook handler.
func (e *principalEntry) push(evt identitydomain.ProviderEvent) {
	select {
	case e.events <- evt:
	default:
	}
}

// principal adapts the process-wide provider connection into the
// per-principal Provider consumed by a session store.
type principal struct {
	client  identitydomain.ProviderClient
	events  chan identitydomain.ProviderEvent
	tokenFn func() string
}

// Load blocks until the provider connection is ready, then resolves the
// bound token into an identity. A missing or unverifiable token loads as
// signed out; only provider unreadiness keeps the store unloaded.
func (p *principal) Load(ctx context.Context) (*identitydomain.UserIdentity, error) {
	select {
	case <-p.client.Ready():
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token := p.tokenFn()
	if token == "" {
		return nil, nil
	}
	user, err := p.client.VerifyToken(ctx, token)
	if err != nil {
		// Expired or tampered token: the principal is simply signed out.
		return nil, nil
	}
	return user, nil
}

func (p *principal) Events() <-chan identitydomain.ProviderEvent { return p.events }

func (p *principal) SignInURL(returnURL string) string { return p.client.SignInURL(returnURL) }
func (p *principal) SignUpURL(returnURL string) string { return p.client.SignUpURL(returnURL) }

func (p *principal) SignOut(ctx context.Context) error {
	token := p.tokenFn()
	if token == "" {
		return nil
	}
	return p.client.RevokeSession(ctx, token)
}
