package domain

import (
	"context"
	"fmt"
	"sync"
)

// subscriberBuffer bounds how far a subscriber may lag before new snapshots
// are dropped for it. Guards consume a single snapshot, so the buffer is
// never approached in practice.
const subscriberBuffer = 16

// Store is the single source of truth for authentication state. It bridges
// the identity provider's asynchronous initialization and event stream into
// an observable SessionState.
//
// Only the Store mutates its SessionState; guards and handlers read it via
// Snapshot or Subscribe.
type Store struct {
	provider Provider

	mu    sync.Mutex
	state SessionState
	subs  map[chan SessionState]struct{}

	initOnce sync.Once
}

// NewStore returns a Store in the initial state: not loaded, not
// authenticated, no user. Call Initialize to begin the provider load.
func NewStore(provider Provider) *Store {
	return &Store{
		provider: provider,
		subs:     make(map[chan SessionState]struct{}),
	}
}

// Initialize starts the identity-provider load. Loaded transitions false→true
// exactly once, when the provider finishes loading; afterwards the Store
// applies every provider event in order. Calling Initialize more than once is
// a no-op: no duplicate listeners are registered.
//
// If the provider fails to load, Loaded stays false and no events are
// consumed.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		go s.run(ctx)
	})
}

func (s *Store) run(ctx context.Context) {
	user, err := s.provider.Load(ctx)
	if err != nil {
		return
	}

	s.apply(func(st *SessionState) {
		st.Loaded = true
		st.Authenticated = user != nil
		st.User = user
	})

	events := s.provider.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			s.applyEvent(evt)
		}
	}
}

func (s *Store) applyEvent(evt ProviderEvent) {
	s.apply(func(st *SessionState) {
		st.Authenticated = evt.User != nil
		st.User = evt.User
	})
}

// apply mutates the state under the lock and publishes the resulting snapshot
// to every subscriber. Publishing under the lock preserves per-subscriber
// ordering: no subscriber ever observes snapshots out of emission order.
func (s *Store) apply(mutate func(*SessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mutate(&s.state)
	snap := s.state
	for ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Subscriber buffer full; it keeps its already-queued snapshots
			// and misses this one rather than blocking every other reader.
		}
	}
}

// Snapshot returns the latest known SessionState without blocking.
func (s *Store) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe returns a channel of SessionState snapshots. The current snapshot
// is delivered first, then one snapshot per subsequent state change, in
// order and without duplicates. The subscription ends when ctx is done.
func (s *Store) Subscribe(ctx context.Context) <-chan SessionState {
	ch := make(chan SessionState, subscriberBuffer)

	s.mu.Lock()
	ch <- s.state
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}()

	return ch
}

// SignInURL returns the provider's hosted sign-in URL, resuming at returnURL
// after a successful sign-in.
func (s *Store) SignInURL(returnURL string) string {
	return s.provider.SignInURL(returnURL)
}

// SignUpURL returns the provider's hosted sign-up URL.
func (s *Store) SignUpURL(returnURL string) string {
	return s.provider.SignUpURL(returnURL)
}

// SignOut revokes the provider session. Once it returns without error, the
// next snapshot observed by any subscriber has Authenticated == false.
func (s *Store) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	s.apply(func(st *SessionState) {
		st.Authenticated = false
		st.User = nil
	})
	return nil
}
