package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderToStdout(t *testing.T) {
	file := writeFile(t, t.TempDir(), "red_rect.yaml", redRectScenario)

	out, err := execute(t, "render", file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<svg"), out)
	assert.Contains(t, out, "fill: #FF0000;")
}

func TestRenderStrings(t *testing.T) {
	file := writeFile(t, t.TempDir(), "red_rect.yaml", redRectScenario)

	out, err := execute(t, "render", file, "--renderer", "strings")
	require.NoError(t, err)
	assert.Contains(t, out, "hello")
}

func TestRenderToFile(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "red_rect.yaml", redRectScenario)
	output := filepath.Join(dir, "out.png")

	out, err := execute(t, "render", file, "-r", "png", "--page", "0", "--scale", "2", "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "red_rect page 0")
	assert.Contains(t, out, "png")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\x89PNG"))
}

func TestRenderErrors(t *testing.T) {
	file := writeFile(t, t.TempDir(), "red_rect.yaml", redRectScenario)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown renderer", []string{"render", file, "--renderer", "pdf"}, `unknown renderer "pdf"`},
		{"page out of range", []string{"render", file, "--page", "4"}, "page 4 out of range"},
		{"missing scenario", []string{"render", "/nonexistent.yaml"}, "failed to load scenario"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRenderersCommand(t *testing.T) {
	out, err := execute(t, "renderers")
	require.NoError(t, err)

	for _, id := range []string{"svg", "svgp", "svgz", "png", "tiff", "bmp", "json", "tikz", "strings", "meta"} {
		assert.Contains(t, out, id)
	}
	assert.Contains(t, out, "image/svg+xml")
}
