package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const redRectScenario = `name: red_rect
renderer: svg
pages:
  - width: 100
    height: 50
    ops:
      - op: rect
        points: [[0, 0], [10, 10]]
        style: { fill: "#FF0000" }
      - op: text
        points: [[5, 40]]
        text: "hello"
assertions:
  - type: output_contains
    text: "fill: #FF0000;"
  - type: page_count
    count: 1
`

const failingScenario = `name: wrong_count
pages:
  - width: 10
    height: 10
    ops: []
assertions:
  - type: page_count
    count: 3
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the full command tree and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
