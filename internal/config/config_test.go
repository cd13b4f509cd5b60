package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := Config{
		APIBaseURL: "http://example.test/api",
		APIKey:     "secret",
		DBPath:     "/tmp/tasker.db",
		ServerPort: 4000,
		LogLevel:   "debug",
	}

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: from-file\nserver_port: 4000\n"), 0o600))

	t.Setenv("TASKER_API_KEY", "from-env")
	t.Setenv("TASKER_PORT", "5000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, 5000, cfg.ServerPort)
}

func TestDotEnvIsApplied(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TASKER_API_URL=http://dotenv.test/api\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TASKER_API_URL") })

	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv.test/api", cfg.APIBaseURL)
}

func TestInvalidPortIsRejected(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TASKER_PORT", "abc")
	_, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	assert.Error(t, err)
}
