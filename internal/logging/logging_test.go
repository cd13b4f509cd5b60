package logging

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentFieldIsWritten(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New("debug", &buf), "TaskApiService")

	log.Error().Msg("boom")

	assert.Contains(t, buf.String(), "component=TaskApiService")
	assert.Contains(t, buf.String(), "boom")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New("chatty", &buf)

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tasker.log")
	log, closer, err := NewFile("info", path)
	require.NoError(t, err)
	defer closer.Close()

	log.Info().Msg("hello")
	assert.FileExists(t, path)
}
