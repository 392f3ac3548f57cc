package auth

import (
	"sync"
	"time"
)

// State is the auth bootstrap resolution state.
type State int

const (
	StateUnresolved State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unresolved"
	}
}

// Route names a navigation target.
type Route string

const (
	RouteMain   Route = "/main"
	RouteSignIn Route = "/auth"
)

// DefaultResolveTimeout bounds how long boot waits for the first session
// notification before treating the caller as signed out.
const DefaultResolveTimeout = 3 * time.Second

// Router applies navigation decisions. Replace swaps the current history
// entry so back-navigation cannot return to a stale gated screen.
type Router interface {
	Replace(route Route)
}

// SessionWatcher is the slice of the auth service the bootstrap consumes.
type SessionWatcher interface {
	Subscribe(fn func(*Identity)) (unsubscribe func())
}

// Bootstrap resolves whether a caller is signed in within a bounded window
// and drives the initial routing decision.
//
// It starts Unresolved with an armed timer. The first of {session
// notification, timer expiry} wins; the timer is cancelled on the first
// transition, so a late expiry can never override a state the notification
// already settled. Expiry without a notification forces Unauthenticated —
// unresolved-after-timeout is treated as signed out, never as signed in.
// The subscription stays live afterwards: a later notification (an external
// sign-out, say) re-enters the matching state and issues a fresh routing
// decision. Results arriving after Stop are discarded.
type Bootstrap struct {
	mu          sync.Mutex
	watcher     SessionWatcher
	router      Router
	timeout     time.Duration
	state       State
	timer       *time.Timer
	unsubscribe func()
	stopped     bool
}

// NewBootstrap creates a bootstrap in the Unresolved state. Nothing happens
// until Start.
func NewBootstrap(watcher SessionWatcher, router Router) *Bootstrap {
	return &Bootstrap{
		watcher: watcher,
		router:  router,
		timeout: DefaultResolveTimeout,
		state:   StateUnresolved,
	}
}

// WithTimeout overrides the resolve timeout.
func (b *Bootstrap) WithTimeout(d time.Duration) *Bootstrap {
	b.timeout = d
	return b
}

// Start arms the timer and subscribes to session changes. Calling Start more
// than once is a no-op.
func (b *Bootstrap) Start() {
	b.mu.Lock()
	if b.stopped || b.timer != nil || b.unsubscribe != nil {
		b.mu.Unlock()
		return
	}
	b.timer = time.AfterFunc(b.timeout, b.resolveTimeout)
	b.mu.Unlock()

	unsubscribe := b.watcher.Subscribe(b.onChange)

	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		unsubscribe()
		return
	}
	b.unsubscribe = unsubscribe
	b.mu.Unlock()
}

// Stop tears the bootstrap down: the subscription ends and any pending
// timeout is disarmed. Notifications that race with Stop are dropped.
func (b *Bootstrap) Stop() {
	b.mu.Lock()
	b.stopped = true
	b.cancelTimerLocked()
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// State returns the current resolution state.
func (b *Bootstrap) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Bootstrap) onChange(identity *Identity) {
	next, route := StateUnauthenticated, RouteSignIn
	if identity != nil {
		next, route = StateAuthenticated, RouteMain
	}

	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	// Cancellation is tied to the first transition, not to teardown.
	b.cancelTimerLocked()
	b.state = next
	router := b.router
	b.mu.Unlock()

	router.Replace(route)
}

func (b *Bootstrap) resolveTimeout() {
	b.mu.Lock()
	if b.stopped || b.state != StateUnresolved {
		b.mu.Unlock()
		return
	}
	b.timer = nil
	b.state = StateUnauthenticated
	router := b.router
	b.mu.Unlock()

	router.Replace(RouteSignIn)
}

func (b *Bootstrap) cancelTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
