// Package gate decides whether a signed-in user with an unfinished profile
// must be sent to the onboarding route.
package gate

import (
	"strings"
	"sync"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
)

// State is the session status as seen by the navigation layer.
type State string

const (
	StateUnknown         State = "unknown"
	StateUnauthenticated State = "unauthenticated"
	StateIncomplete      State = "authenticatedIncomplete"
	StateComplete        State = "authenticatedComplete"
)

// Action is what the navigation layer should do next.
type Action string

const (
	ActionNone     Action = "none"
	ActionRedirect Action = "redirect"
)

// OnboardingRoute is where incomplete profiles are sent.
const OnboardingRoute = "/complete-profile"

var hiddenNavbarRoutes = map[string]struct{}{
	"/login":        {},
	"/signup":       {},
	OnboardingRoute: {},
}

// Input is everything a single evaluation depends on.
type Input struct {
	State State
	Route string
	// Bypass is true when a one-time profileJustCompleted intent is present.
	Bypass bool
	// Redirected is the re-entrancy guard for the current incomplete episode.
	Redirected bool
}

// Decision is the outcome of Evaluate.
type Decision struct {
	State    State
	Action   Action
	Location string
	// Redirected is the guard value to carry into the next evaluation.
	Redirected bool
	// BypassConsumed reports that the bypass suppressed this episode's redirect.
	BypassConsumed bool
}

// StateOf maps a session to a gate state. A nil session is unauthenticated.
func StateOf(session *domain.SessionClaims) State {
	switch {
	case session == nil:
		return StateUnauthenticated
	case session.ProfileComplete:
		return StateComplete
	default:
		return StateIncomplete
	}
}

// NormalizeRoute strips the query, fragment and trailing slash from a route.
func NormalizeRoute(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	route = strings.TrimSpace(route)
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
		if route == "" {
			route = "/"
		}
	}
	return route
}

// Evaluate is the pure transition function of the gate.
func Evaluate(in Input) Decision {
	d := Decision{State: in.State, Action: ActionNone, Redirected: in.Redirected}
	if in.State == StateUnknown {
		return d
	}
	if NormalizeRoute(in.Route) == OnboardingRoute {
		// reaching onboarding closes the episode
		d.Redirected = false
		return d
	}
	if in.State != StateIncomplete || d.Redirected {
		return d
	}
	if in.Bypass {
		d.BypassConsumed = true
		d.Redirected = true
		return d
	}
	d.Action = ActionRedirect
	d.Location = OnboardingRoute
	d.Redirected = true
	return d
}

// NavbarVisible reports whether the navigation bar is shown on route.
func NavbarVisible(route string) bool {
	_, hidden := hiddenNavbarRoutes[NormalizeRoute(route)]
	return !hidden
}

// Machine is a per-client gate that carries the re-entrancy guard and a
// pending bypass between evaluations.
type Machine struct {
	mu         sync.Mutex
	redirected bool
	bypass     bool
}

func NewMachine() *Machine {
	return &Machine{}
}

// Mount records whether a one-time intent was present when the client loaded.
// The intent is single use, so the caller must have already consumed it.
func (m *Machine) Mount(bypass bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bypass = bypass
}

// Observe re-evaluates the gate after a route or session status change.
func (m *Machine) Observe(state State, route string) Decision {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := Evaluate(Input{State: state, Route: route, Bypass: m.bypass, Redirected: m.redirected})
	m.redirected = d.Redirected
	if d.BypassConsumed {
		m.bypass = false
	}
	return d
}
