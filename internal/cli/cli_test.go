package cli_test

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Joseda-hg/tasker/internal/cli"
	"github.com/Joseda-hg/tasker/internal/db"
	"github.com/Joseda-hg/tasker/internal/web"
)

func newBackend(t *testing.T) string {
	t.Helper()
	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	srv := httptest.NewServer(web.NewServer(db.NewStore(conn), "secret", zerolog.Nop()).Handler())
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	cmd := cli.NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--config", filepath.Join(dir, "config.yaml")}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestTasksAddAndList(t *testing.T) {
	url := newBackend(t)

	output, err := run(t, "--api-url", url, "--api-key", "secret", "tasks", "add", "Ship release", "--status", "today")
	require.NoError(t, err)
	assert.Contains(t, output, "Created task 1 in WORK/TODAY")

	_, err = run(t, "--api-url", url, "--api-key", "secret", "tasks", "add", "Groceries", "--workspace", "personal")
	require.NoError(t, err)

	output, err = run(t, "--api-url", url, "--api-key", "secret", "tasks", "list", "--workspace", "work")
	require.NoError(t, err)
	assert.Contains(t, output, "Ship release")
	assert.NotContains(t, output, "Groceries")
}

func TestTasksAddReportsServerValidation(t *testing.T) {
	url := newBackend(t)
	_, err := run(t, "--api-url", url, "--api-key", "secret", "tasks", "add", "Bad", "--workspace", "HOME")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Validation error")
}

func TestMissingAPIKeyIsRejected(t *testing.T) {
	url := newBackend(t)
	_, err := run(t, "--api-url", url, "tasks", "list")
	require.Error(t, err)
}

func TestExportWritesWorkbook(t *testing.T) {
	url := newBackend(t)
	_, err := run(t, "--api-url", url, "--api-key", "secret", "tasks", "add", "Quarterly review", "--status", "done")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "board.xlsx")
	output, err := run(t, "--api-url", url, "--api-key", "secret", "export", path)
	require.NoError(t, err)
	assert.Contains(t, output, "Exported 1 tasks")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Done")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Quarterly review", rows[1][1])
}

func TestExportRejectsUnknownWorkspace(t *testing.T) {
	_, err := run(t, "--api-url", "http://127.0.0.1:1/api", "export", "--workspace", "garden")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown workspace")
}
