package navigation

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/config"
	"github.com/codeinozzz/capstone-prog-5-front/pkg/logger"
)

// fakePage is a scripted Deactivator with disposal tracking.
type fakePage struct {
	safe     bool
	disposed int
}

func (p *fakePage) SafeToLeave() bool { return p.safe }
func (p *fakePage) Dispose()          { p.disposed++ }

func newTestGuard() *Guard {
	return NewGuard(logger.New(&config.Config{LogLevel: "error"}))
}

func TestCanLeave_NoRegisteredPageIsFailOpen(t *testing.T) {
	g := newTestGuard()
	if d := g.CanLeave("sess1", "/user/my-bookings"); !d.Allowed {
		t.Fatal("navigation must be allowed when no page is registered")
	}
}

func TestCanLeave_SameRouteAllowed(t *testing.T) {
	g := newTestGuard()
	page := &fakePage{safe: false}
	g.Mount("sess1", "/booking/room/r1", page)

	if d := g.CanLeave("sess1", "/booking/room/r1"); !d.Allowed {
		t.Fatal("staying on the page's own route must be allowed")
	}
	if _, ok := g.ActiveRoute("sess1"); !ok {
		t.Fatal("page must stay mounted when the navigation stays on its route")
	}
}

func TestCanLeave_SafeVerdictAllowsAndUnmounts(t *testing.T) {
	g := newTestGuard()
	page := &fakePage{safe: true}
	g.Mount("sess1", "/booking/room/r1", page)

	if d := g.CanLeave("sess1", "/"); !d.Allowed {
		t.Fatal("safe verdict must allow navigation")
	}
	if _, ok := g.ActiveRoute("sess1"); ok {
		t.Fatal("committed leave must unmount the page")
	}
	if page.disposed != 1 {
		t.Errorf("expected 1 disposal, got %d", page.disposed)
	}
}

func TestCanLeave_UnsafeVerdictChallenges(t *testing.T) {
	g := newTestGuard()
	g.Mount("sess1", "/booking/room/r1", &fakePage{safe: false})

	d := g.CanLeave("sess1", "/")
	if d.Allowed {
		t.Fatal("unsafe verdict must not allow navigation")
	}
	if d.Challenge == nil || d.Challenge.Token == "" {
		t.Fatal("unsafe verdict must issue a confirmation challenge")
	}
	if d.Challenge.Target != "/" {
		t.Errorf("challenge target = %q, want /", d.Challenge.Target)
	}
}

func TestResolveLeave_DeclinedPreservesPage(t *testing.T) {
	g := newTestGuard()
	page := &fakePage{safe: false}
	g.Mount("sess1", "/booking/room/r1", page)

	d := g.CanLeave("sess1", "/user/my-bookings")
	if _, err := g.ResolveLeave(d.Challenge.Token, false); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// Navigation stays blocked and the page stays mounted untouched.
	if d2 := g.CanLeave("sess1", "/user/my-bookings"); d2.Allowed {
		t.Fatal("declined confirmation must keep blocking the navigation")
	}
	if route, ok := g.ActiveRoute("sess1"); !ok || route != "/booking/room/r1" {
		t.Fatalf("page registration changed after decline: %q %v", route, ok)
	}
	if page.disposed != 0 {
		t.Error("declined confirmation must not dispose the page")
	}
}

func TestResolveLeave_ConfirmedAdmitsTargetOnce(t *testing.T) {
	g := newTestGuard()
	page := &fakePage{safe: false}
	g.Mount("sess1", "/booking/room/r1", page)

	d := g.CanLeave("sess1", "/")
	target, err := g.ResolveLeave(d.Challenge.Token, true)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if target != "/" {
		t.Errorf("target = %q, want /", target)
	}

	if d2 := g.CanLeave("sess1", "/"); !d2.Allowed {
		t.Fatal("confirmed navigation must be allowed")
	}
	if page.disposed != 1 {
		t.Errorf("expected disposal on committed leave, got %d", page.disposed)
	}

	// The approval is one-shot: a later unsafe page blocks again.
	g.Mount("sess1", "/booking/room/r2", &fakePage{safe: false})
	if d3 := g.CanLeave("sess1", "/"); d3.Allowed {
		t.Fatal("approval must not outlive the navigation it admitted")
	}
}

func TestResolveLeave_ApprovalBoundToTarget(t *testing.T) {
	g := newTestGuard()
	g.Mount("sess1", "/booking/room/r1", &fakePage{safe: false})

	d := g.CanLeave("sess1", "/user/my-bookings")
	if _, err := g.ResolveLeave(d.Challenge.Token, true); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// Approval was for /user/my-bookings; a different target re-challenges.
	if d2 := g.CanLeave("sess1", "/search-rooms"); d2.Allowed {
		t.Fatal("approval for one target must not admit another")
	}
}

func TestResolveLeave_TokenIsOneShot(t *testing.T) {
	g := newTestGuard()
	g.Mount("sess1", "/booking/room/r1", &fakePage{safe: false})

	d := g.CanLeave("sess1", "/")
	if _, err := g.ResolveLeave(d.Challenge.Token, true); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if _, err := g.ResolveLeave(d.Challenge.Token, true); !errors.Is(err, ErrUnknownChallenge) {
		t.Fatalf("expected ErrUnknownChallenge on reuse, got %v", err)
	}
}

func TestGuard_SessionsAreIndependent(t *testing.T) {
	g := newTestGuard()
	g.Mount("sess1", "/booking/room/r1", &fakePage{safe: false})

	if d := g.CanLeave("sess2", "/"); !d.Allowed {
		t.Fatal("another session's unsaved state must not block this session")
	}
}

func TestMiddleware_BlockedNavigationAnswers409(t *testing.T) {
	g := newTestGuard()
	g.Mount("sess1", "/booking/room/r1", &fakePage{safe: false})
	log := logger.New(&config.Config{LogLevel: "error"})

	sid := func(w http.ResponseWriter, r *http.Request) (string, error) { return "sess1", nil }
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("blocked navigation must not reach the page handler")
	})

	r := httptest.NewRequest(http.MethodGet, "/user/my-bookings", nil)
	w := httptest.NewRecorder()
	Middleware(g, sid, log)(next).ServeHTTP(w, r)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	var resp LeaveChallengeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !resp.ConfirmationRequired || resp.Token == "" {
		t.Fatalf("expected confirmation challenge in body, got %+v", resp)
	}
}

func TestMiddleware_AllowedNavigationPassesThrough(t *testing.T) {
	g := newTestGuard()
	log := logger.New(&config.Config{LogLevel: "error"})
	sid := func(w http.ResponseWriter, r *http.Request) (string, error) { return "sess1", nil }

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	Middleware(g, sid, log)(next).ServeHTTP(w, r)

	if !called || w.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d (called=%v)", w.Code, called)
	}
}

func TestLeaveHandler_DeclineFlow(t *testing.T) {
	g := newTestGuard()
	log := logger.New(&config.Config{LogLevel: "error"})
	g.Mount("sess1", "/booking/room/r1", &fakePage{safe: false})
	d := g.CanLeave("sess1", "/")

	body := `{"token":"` + d.Challenge.Token + `","confirm":false}`
	r := httptest.NewRequest(http.MethodPost, "/navigation/leave", strings.NewReader(body))
	w := httptest.NewRecorder()
	LeaveHandler(g, log)(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp LeaveResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Allowed {
		t.Fatal("declined confirmation must report allowed=false")
	}
}

func TestLeaveHandler_UnknownToken(t *testing.T) {
	g := newTestGuard()
	log := logger.New(&config.Config{LogLevel: "error"})

	body := `{"token":"08b8a58e-9497-4e0e-b503-0b2f14547fe6","confirm":true}`
	r := httptest.NewRequest(http.MethodPost, "/navigation/leave", strings.NewReader(body))
	w := httptest.NewRecorder()
	LeaveHandler(g, log)(w, r)

	if w.Code != http.StatusGone {
		t.Fatalf("expected 410, got %d", w.Code)
	}
}
