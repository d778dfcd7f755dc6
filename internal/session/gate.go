package session

import "imsdash/internal/domain"

// GuardDecision is the outcome of the authentication route guard: either the
// wrapped page renders, or nothing renders and the caller navigates to the
// login entry point. The guard is a point-in-time check re-evaluated on every
// cycle; it never retries.
type GuardDecision int

const (
	// GuardRender lets the wrapped content render unchanged.
	GuardRender GuardDecision = iota
	// GuardRedirectLogin suppresses rendering for this cycle and directs the
	// caller to the login page.
	GuardRedirectLogin
)

// Guard derives the route-guard decision from the current session.
func Guard(s domain.Session) GuardDecision {
	if !s.Authenticated {
		return GuardRedirectLogin
	}
	return GuardRender
}

// Gate is a capability allow-set for a fragment of UI.
type Gate struct {
	allow map[domain.Role]struct{}
}

// Allow builds a gate admitting exactly the given roles.
func Allow(roles ...domain.Role) Gate {
	g := Gate{allow: make(map[domain.Role]struct{}, len(roles))}
	for _, r := range roles {
		g.allow[r] = struct{}{}
	}
	return g
}

// Admits reports whether the session's role may see the gated fragment: the
// role must be set, valid, and a member of the allow-set. Pure; no side
// effects and no navigation.
func (g Gate) Admits(s domain.Session) bool {
	if !s.Role.Valid() {
		return false
	}
	_, ok := g.allow[s.Role]
	return ok
}
