// Package gate implements the route guards protecting authenticated views.
// A gate is a three-state machine: it starts Checking, inspects the session
// synchronously on mount, and settles on Allowed or Denied. Nothing of the
// guarded view renders until Allowed, so no unauthorized content flashes
// during the check window.
package gate

import (
	"sync"

	"github.com/quitecodedevelopers/elearn-go/internal/session"
)

// State of an access gate.
type State int

const (
	Checking State = iota
	Allowed
	Denied
)

func (s State) String() string {
	switch s {
	case Checking:
		return "CHECKING"
	case Allowed:
		return "ALLOWED"
	case Denied:
		return "DENIED"
	default:
		return "UNKNOWN"
	}
}

// Default redirect targets for the two protected areas.
const (
	StudentLoginRoute = "/login"
	AdminLoginRoute   = "/admin/login"
)

// AuthGate guards one mounted view. Once Allowed it does not re-check
// within the same mount; token revocation mid-session takes effect on the
// next mount.
type AuthGate struct {
	mu       sync.Mutex
	session  session.Provider
	redirect func(target string)
	target   string
	state    State
	mounted  bool
}

// NewStudentGate guards student views, redirecting to the student login.
func NewStudentGate(sess session.Provider, redirect func(target string)) *AuthGate {
	return newGate(sess, redirect, StudentLoginRoute)
}

// NewAdminGate guards admin views, redirecting to the admin login.
func NewAdminGate(sess session.Provider, redirect func(target string)) *AuthGate {
	return newGate(sess, redirect, AdminLoginRoute)
}

func newGate(sess session.Provider, redirect func(string), target string) *AuthGate {
	if redirect == nil {
		redirect = func(string) {}
	}
	return &AuthGate{session: sess, redirect: redirect, target: target, state: Checking}
}

// Mount evaluates the gate. The session read does not suspend, so the
// Checking state is never observable after Mount returns. A token present
// means Allowed; absence means Denied plus a redirect to the login route —
// an expected state, not a failure. Mounting again returns the settled
// state without re-checking.
func (g *AuthGate) Mount() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.mounted {
		return g.state
	}
	g.mounted = true

	if _, ok := g.session.Token(); ok {
		g.state = Allowed
	} else {
		g.state = Denied
		g.redirect(g.target)
	}
	return g.state
}

// State returns the current state without evaluating.
func (g *AuthGate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// CanRender reports whether the guarded children may render.
func (g *AuthGate) CanRender() bool {
	return g.State() == Allowed
}

// Remount resets the gate and evaluates afresh, for a view mounted anew
// after navigation.
func (g *AuthGate) Remount() State {
	g.mu.Lock()
	g.mounted = false
	g.state = Checking
	g.mu.Unlock()
	return g.Mount()
}
