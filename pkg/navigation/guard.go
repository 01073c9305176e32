// Package navigation gates navigation away from routes hosting unsaved
// state. A routed page that owns mutable state registers a Deactivator for
// its browser session; every subsequent page navigation consults it before
// committing. Pages that never register are fail-open by construction: the
// guard has nothing to ask.
//
// An unsafe verdict does not block the request thread. The guard issues a
// one-shot confirmation challenge; the client resolves it via ResolveLeave
// (the non-blocking modal) and, on confirmation, replays the navigation.
package navigation

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/logger"
)

// Deactivator is the capability a stateful routed page implements so the
// guard can ask whether leaving would lose state. The verdict must be a pure,
// synchronous function of the page's current state.
type Deactivator interface {
	SafeToLeave() bool
}

// disposer is optionally implemented by registered pages that hold resources
// to release once a navigation away commits.
type disposer interface {
	Dispose()
}

// ConfirmMessage is shown when leaving would discard unsaved changes.
const ConfirmMessage = "You have unsaved changes that will be lost. Are you sure you want to leave?"

const challengeTTL = 5 * time.Minute

// ErrUnknownChallenge indicates a leave confirmation token that does not
// exist, was already resolved, or expired.
var ErrUnknownChallenge = errors.New("unknown or expired leave confirmation")

// Challenge is a pending "unsaved changes" confirmation. It is one-shot:
// resolving it in either direction consumes it.
type Challenge struct {
	Token     string
	SessionID string
	Target    string
	IssuedAt  time.Time
}

// Decision is the guard's answer for one attempted navigation.
type Decision struct {
	Allowed   bool
	Challenge *Challenge // set when user confirmation is required
}

type activePage struct {
	route string
	page  Deactivator
}

// Guard tracks, per browser session, the currently mounted stateful page and
// any pending leave confirmation. All methods are safe for concurrent use;
// concurrent navigations in distinct sessions never interact.
type Guard struct {
	log logger.Logger

	mu         sync.Mutex
	active     map[string]activePage // sessionID → mounted stateful page
	challenges map[string]*Challenge // token → pending confirmation
	approvals  map[string]string     // sessionID → approved leave target (one-shot)
}

// NewGuard returns an empty Guard.
func NewGuard(log logger.Logger) *Guard {
	return &Guard{
		log:        log,
		active:     make(map[string]activePage),
		challenges: make(map[string]*Challenge),
		approvals:  make(map[string]string),
	}
}

// Mount registers page as the session's active stateful page for route,
// replacing (and disposing) any previous registration.
func (g *Guard) Mount(sessionID, route string, page Deactivator) {
	g.mu.Lock()
	prev, had := g.active[sessionID]
	g.active[sessionID] = activePage{route: route, page: page}
	delete(g.approvals, sessionID)
	g.mu.Unlock()

	if had && prev.page != page {
		disposePage(prev.page)
	}
}

// Unmount drops the session's active page registration, disposing the page.
func (g *Guard) Unmount(sessionID string) {
	g.mu.Lock()
	prev, had := g.active[sessionID]
	delete(g.active, sessionID)
	delete(g.approvals, sessionID)
	g.mu.Unlock()

	if had {
		disposePage(prev.page)
	}
}

// CanLeave decides whether the session may navigate to target.
//
// No registered page, navigating within the page's own route, or a safe
// verdict all allow immediately (a committed leave unmounts the page). An
// unsafe verdict yields a Challenge; the navigation is allowed only after
// the same target is re-attempted with a confirmed challenge on record.
func (g *Guard) CanLeave(sessionID, target string) Decision {
	g.mu.Lock()

	current, ok := g.active[sessionID]
	if !ok {
		g.mu.Unlock()
		return Decision{Allowed: true}
	}
	if current.route == target {
		g.mu.Unlock()
		return Decision{Allowed: true}
	}

	if approved, has := g.approvals[sessionID]; has && approved == target {
		delete(g.approvals, sessionID)
		delete(g.active, sessionID)
		g.mu.Unlock()
		disposePage(current.page)
		return Decision{Allowed: true}
	}

	if current.page == nil || current.page.SafeToLeave() {
		delete(g.active, sessionID)
		g.mu.Unlock()
		disposePage(current.page)
		return Decision{Allowed: true}
	}

	g.sweepLocked()
	ch := &Challenge{
		Token:     uuid.NewString(),
		SessionID: sessionID,
		Target:    target,
		IssuedAt:  time.Now(),
	}
	g.challenges[ch.Token] = ch
	g.mu.Unlock()

	g.log.Debug("leave blocked pending confirmation", "target", target)
	return Decision{Challenge: ch}
}

// ResolveLeave consumes a pending challenge. confirm=true records a one-shot
// approval for the challenged target, so replaying that navigation commits;
// confirm=false discards the challenge and leaves the page state untouched.
// Returns the challenged target.
func (g *Guard) ResolveLeave(token string, confirm bool) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch, ok := g.challenges[token]
	if !ok || time.Since(ch.IssuedAt) > challengeTTL {
		delete(g.challenges, token)
		return "", ErrUnknownChallenge
	}
	delete(g.challenges, token)

	if confirm {
		g.approvals[ch.SessionID] = ch.Target
	}
	return ch.Target, nil
}

// ActiveRoute reports the route of the session's registered page, if any.
func (g *Guard) ActiveRoute(sessionID string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.active[sessionID]
	return p.route, ok
}

// sweepLocked drops expired challenges. Caller holds g.mu.
func (g *Guard) sweepLocked() {
	now := time.Now()
	for token, ch := range g.challenges {
		if now.Sub(ch.IssuedAt) > challengeTTL {
			delete(g.challenges, token)
		}
	}
}

func disposePage(page Deactivator) {
	if d, ok := page.(disposer); ok {
		d.Dispose()
	}
}
