package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"imsdash/internal/domain"
)

// Record is the serialized session layout: a JSON object {token, role, user}.
// Role stays a raw string here; semantic validation happens in
// Store.Bootstrap, not at the persistence layer.
type Record struct {
	Token string              `json:"token"`
	Role  string              `json:"role"`
	User  *domain.UserSummary `json:"user"`
}

// fileName namespaces the storage slot, mirroring the "imsapp:session" key
// of the browser build.
const fileName = "session.json"

// Persistence reads and writes the session record under the state directory.
// Every operation is best-effort: failures are swallowed and Load reports
// absence instead of erroring, so a corrupt or missing file simply means "no
// session".
type Persistence struct {
	path string
}

// NewPersistence returns a Persistence storing its record inside dir.
func NewPersistence(dir string) *Persistence {
	return &Persistence{path: filepath.Join(dir, fileName)}
}

// Save serializes rec to the storage slot. Serialization or write failures
// are discarded; persistence must never throw into the caller.
func (p *Persistence) Save(rec Record) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	_ = os.WriteFile(p.path, data, 0o600)
}

// Load returns the deserialized record, or ok=false on any read or parse
// failure.
func (p *Persistence) Load() (Record, bool) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return Record{}, false
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false
	}
	return rec, true
}

// Clear removes the storage slot; a failed removal is ignored.
func (p *Persistence) Clear() {
	_ = os.Remove(p.path)
}
