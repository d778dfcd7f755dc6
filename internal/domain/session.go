package domain

// UserSummary is the signed-in user's profile as returned by the login
// endpoint.
type UserSummary struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Image     string `json:"image,omitempty"`
}

// Session is the authentication state owned by session.Store.
//
// Invariant: Authenticated is true iff Token is non-empty, Role is a member
// of the closed role set, and User is non-nil. The zero Session is the
// logged-out state.
type Session struct {
	Authenticated bool
	Token         string
	Role          Role
	User          *UserSummary
}

// WellFormed reports whether the token/role/user triple satisfies the session
// invariant, independent of the Authenticated flag.
func (s Session) WellFormed() bool {
	return s.Token != "" && s.Role.Valid() && s.User != nil
}
