// Package config loads encrude settings: encrude.toml, then .env, then
// ENCRUDE_* variables from the process environment. Flags are applied by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrInvalid is returned for values outside their allowed set.
var ErrInvalid = errors.New("invalid configuration")

// Config is the merged configuration.
type Config struct {
	// Path is the encrude.toml that was read, empty when none was found.
	Path string `toml:"-"`

	Analyze Analyze `toml:"analyze"`
	Output  Output  `toml:"output"`
	Check   Check   `toml:"check"`
	Trace   Trace   `toml:"trace"`
}

type Analyze struct {
	Provider       string `toml:"provider"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

type Output struct {
	Format    string `toml:"format"`
	Color     string `toml:"color"`
	PathMode  string `toml:"path_mode"`
	Context   int    `toml:"context"`
	Highlight bool   `toml:"highlight"`
}

type Check struct {
	Dir       string   `toml:"dir"`
	Include   []string `toml:"include"`
	Jobs      int      `toml:"jobs"`
	UI        string   `toml:"ui"`
	DiskCache bool     `toml:"disk_cache"`
	CacheDir  string   `toml:"cache_dir"`
}

type Trace struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Format string `toml:"format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Analyze: Analyze{Provider: "native"},
		Output:  Output{Format: "pretty", Color: "auto", PathMode: "auto", Context: 1, Highlight: true},
		Check:   Check{Dir: ".", Include: []string{"**/*.toml"}, UI: "auto"},
		Trace:   Trace{Level: "off", Format: "text"},
	}
}

// Options drive Load.
type Options struct {
	// StartDir is where the upward search for encrude.toml begins.
	StartDir string
	// Path names the file explicitly and disables the search.
	Path string
	// LookupEnv reads the process environment; os.LookupEnv when nil.
	LookupEnv func(string) (string, bool)
}

// Load merges defaults, encrude.toml, the .env next to it (or in StartDir)
// and the process environment, later sources winning.
func Load(opts Options) (Config, error) {
	cfg := Default()
	path := opts.Path
	if path == "" {
		found, ok, err := Find(opts.StartDir)
		if err != nil {
			return Config{}, err
		}
		if ok {
			path = found
		}
	}
	envDir := opts.StartDir
	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("%s: %w: unknown key %q", path, ErrInvalid, undecoded[0].String())
		}
		cfg.Path = path
		envDir = filepath.Dir(path)
	}

	env, err := dotenv(envDir)
	if err != nil {
		return Config{}, err
	}
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	}
	if err := cfg.applyEnv(get); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func dotenv(dir string) (map[string]string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return env, nil
}

func (c *Config) applyEnv(get func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := get(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := get(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalid, key, v)
		}
		*dst = n
		return nil
	}
	flag := func(key string, dst *bool) error {
		v, ok := get(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalid, key, v)
		}
		*dst = b
		return nil
	}

	str("ENCRUDE_PROVIDER", &c.Analyze.Provider)
	str("ENCRUDE_FORMAT", &c.Output.Format)
	str("ENCRUDE_COLOR", &c.Output.Color)
	str("ENCRUDE_PATH_MODE", &c.Output.PathMode)
	str("ENCRUDE_UI", &c.Check.UI)
	str("ENCRUDE_CACHE_DIR", &c.Check.CacheDir)
	str("ENCRUDE_TRACE", &c.Trace.Output)
	str("ENCRUDE_TRACE_LEVEL", &c.Trace.Level)
	str("ENCRUDE_TRACE_FORMAT", &c.Trace.Format)
	if v, ok := get("ENCRUDE_INCLUDE"); ok && strings.TrimSpace(v) != "" {
		c.Check.Include = strings.Split(v, ",")
	}
	return errors.Join(
		num("ENCRUDE_MAX_DIAGNOSTICS", &c.Analyze.MaxDiagnostics),
		num("ENCRUDE_JOBS", &c.Check.Jobs),
		num("ENCRUDE_CONTEXT", &c.Output.Context),
		flag("ENCRUDE_DISK_CACHE", &c.Check.DiskCache),
		flag("ENCRUDE_HIGHLIGHT", &c.Output.Highlight),
	)
}

func oneOf(field, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (want %s)", ErrInvalid, field, v, strings.Join(allowed, "|"))
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	errs := []error{
		oneOf("provider", c.Analyze.Provider, "native", "treesitter"),
		oneOf("format", c.Output.Format, "pretty", "short", "json", "sarif"),
		oneOf("color", c.Output.Color, "auto", "on", "off"),
		oneOf("path_mode", c.Output.PathMode, "auto", "absolute", "relative", "basename"),
		oneOf("ui", c.Check.UI, "auto", "on", "off"),
		oneOf("trace format", c.Trace.Format, "text", "ndjson"),
	}
	if c.Check.Jobs < 0 {
		errs = append(errs, fmt.Errorf("%w: jobs must be >= 0", ErrInvalid))
	}
	if c.Analyze.MaxDiagnostics < 0 {
		errs = append(errs, fmt.Errorf("%w: max_diagnostics must be >= 0", ErrInvalid))
	}
	if c.Output.Context < 0 || c.Output.Context > 10 {
		errs = append(errs, fmt.Errorf("%w: context must be within 0..10", ErrInvalid))
	}
	return errors.Join(errs...)
}
