package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/plotstore/internal/history"
)

func TestServe(t *testing.T) {
	dir := t.TempDir()
	scenario := writeFile(t, dir, "red_rect.yaml", redRectScenario)
	db := filepath.Join(dir, "history.db")
	cfgPath := writeFile(t, dir, "plotstore.yaml", fmt.Sprintf(
		"port: 0\ntoken: secret\nscenarios: [%q]\nhistory:\n  enabled: true\n  path: %q\n", scenario, db))

	addrCh := make(chan string, 1)
	opts := &ServeOptions{
		RootOptions: &RootOptions{Format: "text"},
		ConfigPath:  cfgPath,
		OnListen:    func(addr string) { addrCh <- addr },
	}
	cmd := NewServeCommand(opts.RootOptions)
	out := &bytes.Buffer{}
	cmd.SetOut(out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd.SetContext(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- runServe(opts, cmd) }()

	var addr string
	select {
	case addr = <-addrCh:
	case err := <-errCh:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	get := func(path string) (int, string) {
		req, err := http.NewRequest(http.MethodGet, "http://"+addr+path, nil)
		require.NoError(t, err)
		req.Header.Set("X-Plotstore-Token", "secret")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	code, body := get("/state")
	require.Equal(t, http.StatusOK, code, body)
	var state map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &state))
	assert.EqualValues(t, 1, state["hsize"])
	assert.Equal(t, true, state["active"])

	code, body = get("/svg?width=200&height=100")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `width="200.00" height="100.00"`)
	assert.Contains(t, body, `width="20.00" height="20.00"`)

	code, _ = get("/remove?index=0")
	require.Equal(t, http.StatusOK, code)

	resp, err := http.Get("http://" + addr + "/state")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.Contains(t, out.String(), "Serving on http://"+addr+"/")
	assert.Contains(t, out.String(), "Token: secret")

	archive, err := history.Open(db)
	require.NoError(t, err)
	defer archive.Close()
	snaps, err := archive.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, history.ReasonRemove, snaps[0].Reason)
	assert.Equal(t, 200.0, snaps[0].Width)
}

func TestServeInvalidConfig(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "plotstore.yaml", "port: 70000\n")

	_, err := execute(t, "serve", "--config", cfgPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestServeFlagOverrides(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "plotstore.yaml", "port: 9000\ncors: false\n")

	opts := &ServeOptions{RootOptions: &RootOptions{Format: "text"}, ConfigPath: cfgPath, Port: 9100, Database: "/tmp/h.db"}
	cmd := NewServeCommand(opts.RootOptions)
	require.NoError(t, cmd.Flags().Set("port", "9100"))

	cfg, err := loadServeConfig(opts, cmd)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.False(t, cfg.CORS)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "/tmp/h.db", cfg.History.Path)
}
