package pipeline

import "imsdash/internal/domain"

// FetchStatus is the state of the collection fetch.
type FetchStatus int

const (
	FetchIdle FetchStatus = iota
	FetchLoading
	FetchReady
	FetchFailed
)

// String returns the lowercase status name.
func (s FetchStatus) String() string {
	switch s {
	case FetchIdle:
		return "idle"
	case FetchLoading:
		return "loading"
	case FetchReady:
		return "ready"
	case FetchFailed:
		return "failed"
	}
	return "unknown"
}

// FetchState is the idle → loading → {ready | failed} machine for one fetched
// collection. Results are applied only while their token is live; a
// resolution that arrives after teardown or after a newer fetch started is
// dropped without touching the records.
type FetchState struct {
	status  FetchStatus
	records []domain.CandidateRecord
	err     error
}

// Status returns the current fetch status.
func (f *FetchState) Status() FetchStatus { return f.status }

// Records returns the last committed collection. On failure the previous
// records are kept; callers treat them as empty for display.
func (f *FetchState) Records() []domain.CandidateRecord { return f.records }

// Err returns the failure cause, if status is FetchFailed.
func (f *FetchState) Err() error { return f.err }

// Begin marks a new fetch outstanding. The token must come from the
// controller guarding this state.
func (f *FetchState) Begin(t Token) {
	if !t.Live() {
		return
	}
	f.status = FetchLoading
	f.err = nil
}

// Apply commits a successful response, replacing the records wholesale.
// Returns false when the token has gone stale, in which case nothing changes.
func (f *FetchState) Apply(t Token, records []domain.CandidateRecord) bool {
	if !t.Live() {
		return false
	}
	f.status = FetchReady
	f.records = records
	f.err = nil
	return true
}

// Fail commits a fetch failure. Records are left unchanged. Returns false
// when the token has gone stale.
func (f *FetchState) Fail(t Token, err error) bool {
	if !t.Live() {
		return false
	}
	f.status = FetchFailed
	f.err = err
	return true
}
