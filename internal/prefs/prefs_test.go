package prefs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseda-hg/tasker/internal/prefs"
)

func TestPreferencesPersistAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.json")

	s, err := prefs.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "TRADITIONAL", s.GetOr(prefs.KeyBoardLayout, "TRADITIONAL"))

	require.NoError(t, s.Set(prefs.KeyBoardLayout, "FOCUS"))
	require.NoError(t, s.Set(prefs.KeyTheme, "dark"))

	reopened, err := prefs.Open(path)
	require.NoError(t, err)
	layout, ok := reopened.Get(prefs.KeyBoardLayout)
	assert.True(t, ok)
	assert.Equal(t, "FOCUS", layout)

	require.NoError(t, reopened.Delete(prefs.KeyTheme))
	_, ok = reopened.Get(prefs.KeyTheme)
	assert.False(t, ok)
}

func TestCorruptFileIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := prefs.Open(path)
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	s := prefs.Memory()
	require.NoError(t, s.Set(prefs.KeyTheme, "light"))
	assert.Equal(t, "light", s.GetOr(prefs.KeyTheme, "auto"))
}

func TestNullFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0o644))

	s, err := prefs.Open(path)
	require.NoError(t, err)
	_, ok := s.Get(prefs.KeyTheme)
	assert.False(t, ok)

	require.NoError(t, s.Set(prefs.KeyTheme, "light"))
	assert.Equal(t, "light", s.GetOr(prefs.KeyTheme, "auto"))
}
