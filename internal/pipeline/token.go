// Package pipeline implements the candidate data-view pipeline: an
// asynchronously fetched collection with race-safe result application, a
// single-slot debounced query, and a derived filtered/sorted/paginated view.
// Everything here is plain state driven by the UI event loop; no goroutines
// are owned by this package.
package pipeline

import "sync/atomic"

// Controller issues cancellation tokens, one per fetch. Starting a newer
// fetch or tearing the owner down invalidates every token issued before, so
// a stale response can be recognized and discarded before it writes into
// anyone's state.
type Controller struct {
	gen atomic.Uint64
}

// NewController returns a controller with no tokens issued. Controllers must
// not be copied; owners embedded in value-copied structs hold them by pointer.
func NewController() *Controller {
	return &Controller{}
}

// Token identifies one fetch attempt. It stays live until its controller
// issues a newer token or is cancelled.
type Token struct {
	c   *Controller
	gen uint64
}

// Next invalidates all previously issued tokens and returns a live token for
// a new fetch.
func (c *Controller) Next() Token {
	return Token{c: c, gen: c.gen.Add(1)}
}

// Cancel invalidates all outstanding tokens without issuing a new one. Used
// on teardown of the owning view.
func (c *Controller) Cancel() {
	c.gen.Add(1)
}

// Live reports whether this token still identifies the newest fetch. The
// zero Token is never live.
func (t Token) Live() bool {
	return t.c != nil && t.c.gen.Load() == t.gen
}
