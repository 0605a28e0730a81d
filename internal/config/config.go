package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Defaults.
const (
	DefaultHost          = "127.0.0.1"
	DefaultPort          = 8288
	DefaultRedrawTimeout = "2s"
	DefaultUpidLimit     = 1_000_000
)

// Config is the server configuration.
type Config struct {
	Host          string   `yaml:"host" json:"host"`
	Port          int      `yaml:"port" json:"port"`
	Token         string   `yaml:"token" json:"token"`
	UseToken      bool     `yaml:"use_token" json:"use_token"`
	CORS          bool     `yaml:"cors" json:"cors"`
	RedrawTimeout string   `yaml:"redraw_timeout" json:"redraw_timeout"`
	ExtraCSS      string   `yaml:"extra_css" json:"extra_css"`
	WWWDir        string   `yaml:"www_dir" json:"www_dir"`
	UpidLimit     int      `yaml:"upid_limit" json:"upid_limit"`
	Scenarios     []string `yaml:"scenarios" json:"scenarios,omitempty"`
	History       History  `yaml:"history" json:"history"`
}

// History configures the SQLite snapshot archive.
type History struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Host:          DefaultHost,
		Port:          DefaultPort,
		RedrawTimeout: DefaultRedrawTimeout,
		UpidLimit:     DefaultUpidLimit,
	}
}

// ValidationError is a single schema violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every violation found in one config.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Load reads a YAML config file on top of Default and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config against the embedded CUE schema.
// It returns ValidationErrors on failure.
func (c *Config) Validate() error {
	// JSON is a subset of CUE, so the config can be compiled directly.
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	ctx := cuecontext.New()
	file := ctx.CompileString(schemaCUE)
	if err := file.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	// #Config is incomplete until unified with a concrete config, so only
	// its presence is checked here.
	schema := file.LookupPath(cue.ParsePath("#Config"))
	if !schema.Exists() {
		return fmt.Errorf("compile config schema: #Config not found")
	}

	value := ctx.CompileBytes(data)
	if err := value.Err(); err != nil {
		return fmt.Errorf("compile config: %w", err)
	}

	if err := schema.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return toValidationErrors(err)
	}

	if _, err := time.ParseDuration(c.RedrawTimeout); err != nil {
		return ValidationErrors{{Field: "redraw_timeout", Message: err.Error()}}
	}
	return nil
}

func toValidationErrors(err error) ValidationErrors {
	var out ValidationErrors
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		out = append(out, ValidationError{
			Field:   strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		})
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Field: "config", Message: err.Error()})
	}
	return out
}

// Addr returns host:port for net.Listen.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Timeout returns the redraw timeout. Invalid values fall back to the
// default; Validate reports them.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RedrawTimeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultRedrawTimeout)
	}
	return d
}

// ResolveToken generates a random token when UseToken is set and none was
// configured. It returns the token in effect, empty when access is open.
func (c *Config) ResolveToken() string {
	if c.Token != "" {
		c.UseToken = true
		return c.Token
	}
	if c.UseToken {
		c.Token = uuid.NewString()
	}
	return c.Token
}
