package auth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/codeinozzz/capstone-prog-5-front/pkg/logger"
	identitydomain "github.com/codeinozzz/capstone-prog-5-front/services/identity/domain"
)

// LoginPath is where denied navigations are redirected, carrying the
// originally requested URL so a successful sign-in can resume there.
const LoginPath = "/login"

// RequireAuth gates entry into protected routes against the request's
// session store.
//
// If the store has loaded, the decision is synchronous. If not, the gate
// suspends on the store's snapshot stream until the first post-load snapshot
// arrives, decides from that single snapshot, and drops the subscription;
// it never re-evaluates a committed navigation. The wait is bounded by the
// request context; an identity provider that never loads fails the request
// rather than wedging the connection.
//
// On deny the client is redirected to /login?returnUrl=<original URL>.
// Concurrent navigations each decide from the snapshot current at their own
// evaluation; the gate itself holds no state.
func RequireAuth(mgr *SessionManager, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store, err := mgr.Store(w, r)
			if err != nil {
				log.WarnContext(r.Context(), "session unavailable", "error", err)
				redirectToLogin(w, r)
				return
			}

			snap := store.Snapshot()
			if !snap.Loaded {
				snap = awaitLoad(r.Context(), store)
			}

			if snap.Loaded && snap.Authenticated {
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), snap.User)))
				return
			}

			log.InfoContext(r.Context(), "auth required, redirecting to login", "target", r.URL.Path)
			redirectToLogin(w, r)
		})
	}
}

// awaitLoad consumes snapshots until the first one with Loaded set, then
// releases the subscription. Returns the zero state if ctx expires first.
func awaitLoad(ctx context.Context, store *identitydomain.Store) identitydomain.SessionState {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	snapshots := store.Subscribe(subCtx)
	for {
		select {
		case snap := <-snapshots:
			if snap.Loaded {
				return snap
			}
		case <-ctx.Done():
			return identitydomain.SessionState{}
		}
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := r.URL.RequestURI()
	http.Redirect(w, r, LoginPath+"?returnUrl="+url.QueryEscape(target), http.StatusFound)
}
