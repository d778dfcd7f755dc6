package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistenceRoundTrip(t *testing.T) {
	p := NewPersistence(t.TempDir())

	rec := Record{Token: "tok", Role: "admin", User: testUser()}
	p.Save(rec)

	got, ok := p.Load()
	require.True(t, ok)
	assert.Equal(t, rec.Token, got.Token)
	assert.Equal(t, rec.Role, got.Role)
	require.NotNil(t, got.User)
	assert.Equal(t, "emilys", got.User.Username)
}

func TestPersistenceLoadAbsent(t *testing.T) {
	p := NewPersistence(t.TempDir())
	_, ok := p.Load()
	assert.False(t, ok)
}

func TestPersistenceLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("{not json"), 0o600))

	p := NewPersistence(dir)
	_, ok := p.Load()
	assert.False(t, ok)
}

func TestPersistenceClear(t *testing.T) {
	p := NewPersistence(t.TempDir())
	p.Save(Record{Token: "tok", Role: "admin", User: testUser()})
	p.Clear()

	_, ok := p.Load()
	assert.False(t, ok)

	// Clearing an already-empty slot is fine.
	p.Clear()
}

func TestPersistenceSaveSwallowsErrors(t *testing.T) {
	// A directory that does not exist makes the write fail; Save must not
	// panic or surface anything.
	p := NewPersistence(filepath.Join(t.TempDir(), "missing", "deeper"))
	p.Save(Record{Token: "tok"})
}

func TestPersistenceDoesNotValidate(t *testing.T) {
	// Semantically bad records round-trip untouched; validation is the
	// store's job at bootstrap time.
	p := NewPersistence(t.TempDir())
	p.Save(Record{Token: "t", Role: "superuser"})

	got, ok := p.Load()
	require.True(t, ok)
	assert.Equal(t, "superuser", got.Role)
	assert.Nil(t, got.User)
}
