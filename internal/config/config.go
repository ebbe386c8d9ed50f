// Package config loads lexid configuration files.
//
// Files are YAML. Each document is checked against an embedded CUE schema
// before it is decoded, so type errors and unknown keys are reported with the
// schema's constraint rather than as a silent zero value.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/lexid"
)

//go:embed schema.cue
var schemaCUE string

// EnvPrefix prefixes environment overrides, e.g. LEXID_WORKER_ID.
const EnvPrefix = "LEXID_"

// logLevels mirrors log_level in schema.cue.
var logLevels = []string{"debug", "info", "warn", "error"}

// Config is the decoded configuration.
type Config struct {
	// WorkerID pins the worker id. Nil derives it from the host.
	WorkerID *int32 `yaml:"worker_id,omitempty" json:"worker_id,omitempty"`

	// Layout is "big-endian" or "little-endian".
	Layout string `yaml:"layout,omitempty" json:"layout,omitempty"`

	// DB is the SQLite ledger path. Empty disables recording.
	DB string `yaml:"db,omitempty" json:"db,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty" json:"log_level,omitempty"`

	// Label is attached to identifiers recorded without an explicit label.
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Layout:   lexid.BigEndian.String(),
		LogLevel: "info",
	}
}

// ValidationError reports a schema violation.
type ValidationError struct {
	Source  string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return Parse(data, path)
}

// Parse validates and decodes a YAML document. source names the document in
// error messages. Missing fields take their Default values.
func Parse(data []byte, source string) (Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, &ValidationError{Source: source, Message: err.Error()}
	}
	if raw == nil {
		raw = map[string]any{}
	}

	if err := validate(raw, source); err != nil {
		return Config{}, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &ValidationError{Source: source, Message: err.Error()}
	}
	return cfg, nil
}

// validate unifies the decoded document with #Config.
func validate(raw map[string]any, source string) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	doc := ctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return &ValidationError{Source: source, Message: err.Error()}
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err, source)
	}
	return nil
}

// formatCUEError reduces a CUE error list to its first entry.
func formatCUEError(err error, source string) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ValidationError{Source: source, Message: err.Error()}
	}
	return &ValidationError{Source: source, Message: errs[0].Error()}
}

// ApplyEnv overlays LEXID_* environment variables using lookup (os.LookupEnv
// in production). Malformed values are errors, not silently ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "WORKER_ID"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("%sWORKER_ID: %w", EnvPrefix, err)
		}
		w := int32(n)
		c.WorkerID = &w
	}
	if v, ok := lookup(EnvPrefix + "LAYOUT"); ok && v != "" {
		c.Layout = v
	}
	if v, ok := lookup(EnvPrefix + "DB"); ok && v != "" {
		c.DB = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok && v != "" {
		level := strings.ToLower(v)
		if !slices.Contains(logLevels, level) {
			return fmt.Errorf("%sLOG_LEVEL: %q is not one of %v", EnvPrefix, v, logLevels)
		}
		c.LogLevel = level
	}
	return nil
}

// ParsedLayout converts Layout to a lexid.Layout.
func (c Config) ParsedLayout() (lexid.Layout, error) {
	return lexid.ParseLayoutName(c.Layout)
}

// SlogLevel converts LogLevel to a slog.Level. Unknown values map to Info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
