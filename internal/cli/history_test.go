package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "red_rect.yaml", redRectScenario)
	db := filepath.Join(dir, "history.db")

	out, err := execute(t, "render", file, "-r", "json", "-o", filepath.Join(dir, "page.json"), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "archived as snapshot 1")

	out, err = execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "render")
	assert.Contains(t, out, "100.00x50.00")

	out, err = execute(t, "history", "--db", db, "--seq", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{\n \"id\": \"0\""), out)

	body := filepath.Join(dir, "snap.json")
	_, err = execute(t, "history", "--db", db, "--seq", "1", "-o", body)
	require.NoError(t, err)
	data, err := os.ReadFile(body)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type": "rect"`)
}

func TestHistoryJSON(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "red_rect.yaml", redRectScenario)
	db := filepath.Join(dir, "history.db")

	_, err := execute(t, "render", file, "-o", filepath.Join(dir, "page.svg"), "--db", db)
	require.NoError(t, err)
	_, err = execute(t, "render", file, "-r", "tikz", "-o", filepath.Join(dir, "page.tex"), "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "--format", "json", "history", "--db", db)
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Snapshots, 2)
	assert.Equal(t, "tikz", resp.Data.Snapshots[0].Renderer)
	assert.Equal(t, "svg", resp.Data.Snapshots[1].Renderer)
}

func TestHistoryErrors(t *testing.T) {
	_, err := execute(t, "history", "--db", "/nonexistent/history.db")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	dir := t.TempDir()
	file := writeFile(t, dir, "red_rect.yaml", redRectScenario)
	db := filepath.Join(dir, "history.db")
	_, err = execute(t, "render", file, "-o", filepath.Join(dir, "page.svg"), "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "history", "--db", db, "--seq", "42")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "no snapshot 42")
}
