package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "127.0.0.1:8288", cfg.Addr())
	assert.Equal(t, 2*time.Second, cfg.Timeout())
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("empty config differs from default (-want +got):\n%s", diff)
	}
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse([]byte(`
host: 0.0.0.0
port: 9000
use_token: true
cors: true
redraw_timeout: 500ms
extra_css: ".plotstore text { font-family: serif; }"
scenarios:
  - demo.yaml
history:
  enabled: true
  path: plots.db
`))
	require.NoError(t, err)

	want := &Config{
		Host:          "0.0.0.0",
		Port:          9000,
		UseToken:      true,
		CORS:          true,
		RedrawTimeout: "500ms",
		ExtraCSS:      ".plotstore text { font-family: serif; }",
		UpidLimit:     DefaultUpidLimit,
		Scenarios:     []string{"demo.yaml"},
		History:       History{Enabled: true, Path: "plots.db"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 500*time.Millisecond, cfg.Timeout())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"port too large", "port: 70000\n", "port"},
		{"negative port", "port: -1\n", "port"},
		{"empty host", "host: \"\"\n", "host"},
		{"bad timeout", "redraw_timeout: soon\n", "redraw_timeout"},
		{"history without path", "history:\n  enabled: true\n", "history.path"},
		{"zero upid limit", "upid_limit: 0\n", "upid_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			found := false
			for _, e := range verrs {
				if strings.HasSuffix(e.Field, tt.field) {
					found = true
				}
			}
			assert.True(t, found, "no error for %s in %v", tt.field, verrs)
		})
	}
}

func TestValidate_HistoryPathOnlyRequiredWhenEnabled(t *testing.T) {
	tests := []struct {
		name    string
		history History
		wantErr bool
	}{
		{"disabled without path", History{}, false},
		{"disabled with path", History{Path: "plots.db"}, false},
		{"enabled with path", History{Enabled: true, Path: "plots.db"}, false},
		{"enabled without path", History{Enabled: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.History = tt.history
			err := cfg.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.True(t, strings.HasSuffix(verrs[0].Field, "history.path"), "got %v", verrs)
		})
	}
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("prot: 80\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plotstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 1234\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1234, cfg.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestResolveToken(t *testing.T) {
	t.Run("open access", func(t *testing.T) {
		cfg := Default()
		assert.Empty(t, cfg.ResolveToken())
	})

	t.Run("generated", func(t *testing.T) {
		cfg := Default()
		cfg.UseToken = true
		tok := cfg.ResolveToken()
		assert.Len(t, tok, 36)
		assert.Equal(t, tok, cfg.ResolveToken(), "token is stable once generated")
	})

	t.Run("explicit token implies use_token", func(t *testing.T) {
		cfg := Default()
		cfg.Token = "secret"
		assert.Equal(t, "secret", cfg.ResolveToken())
		assert.True(t, cfg.UseToken)
	})
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{{Field: "port", Message: "out of range"}, {Field: "host", Message: "empty"}}
	assert.Equal(t, "invalid config: port: out of range; host: empty", errs.Error())
}
