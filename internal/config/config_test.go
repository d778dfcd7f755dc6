package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://dummyjson.com", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 10, cfg.View.PageSize)
	assert.Equal(t, 250*time.Millisecond, cfg.View.DebounceWindow)
	assert.Equal(t, "auto", cfg.Theme)
}

func TestEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("IMSDASH_API_BASE_URL", "http://localhost:8080")
	t.Setenv("IMSDASH_VIEW_PAGE_SIZE", "25")
	t.Setenv("IMSDASH_VIEW_DEBOUNCE_WINDOW", "100ms")
	t.Setenv("IMSDASH_THEME", "dark")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 25, cfg.View.PageSize)
	assert.Equal(t, 100*time.Millisecond, cfg.View.DebounceWindow)
	assert.Equal(t, "dark", cfg.Theme)
}

func TestYAMLFileOverlay(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := []byte("api:\n  base_url: http://file.example\nview:\n  page_size: 5\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), yaml, 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://file.example", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.View.PageSize)
	// Untouched fields keep their defaults.
	assert.Equal(t, 250*time.Millisecond, cfg.View.DebounceWindow)
}

func TestEnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := []byte("api:\n  base_url: http://file.example\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), yaml, 0o600))
	t.Setenv("IMSDASH_API_BASE_URL", "http://env.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env.example", cfg.API.BaseURL)
}

func TestValidation(t *testing.T) {
	t.Run("page size", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("IMSDASH_VIEW_PAGE_SIZE", "0")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("theme", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("IMSDASH_THEME", "solarized")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestResolveStateDirCreatesDirectory(t *testing.T) {
	cfg := Default()
	cfg.StateDir = filepath.Join(t.TempDir(), "state")

	dir, err := cfg.ResolveStateDir()
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
