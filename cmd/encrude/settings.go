package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"encrude/internal/config"
	"encrude/internal/diagfmt"
)

// loadSettings merges encrude.toml, .env and ENCRUDE_* with explicitly set flags.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(config.Options{StartDir: wd, Path: path})
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	str("color", &cfg.Output.Color)
	str("format", &cfg.Output.Format)
	str("path-mode", &cfg.Output.PathMode)
	str("provider", &cfg.Analyze.Provider)
	str("ui", &cfg.Check.UI)
	str("trace", &cfg.Trace.Output)
	str("trace-level", &cfg.Trace.Level)
	str("trace-format", &cfg.Trace.Format)
	if flags.Changed("max-diagnostics") {
		if cfg.Analyze.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return config.Config{}, err
		}
	} else if cfg.Analyze.MaxDiagnostics == 0 {
		cfg.Analyze.MaxDiagnostics, _ = flags.GetInt("max-diagnostics")
	}
	if flags.Lookup("jobs") != nil && flags.Changed("jobs") {
		if cfg.Check.Jobs, err = flags.GetInt("jobs"); err != nil {
			return config.Config{}, err
		}
	}
	if flags.Lookup("disk-cache") != nil && flags.Changed("disk-cache") {
		if cfg.Check.DiskCache, err = flags.GetBool("disk-cache"); err != nil {
			return config.Config{}, err
		}
	}
	if flags.Lookup("include") != nil && flags.Changed("include") {
		if cfg.Check.Include, err = flags.GetStringSlice("include"); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, cfg.Validate()
}

func pathMode(s string) diagfmt.PathMode {
	switch s {
	case "absolute":
		return diagfmt.PathModeAbsolute
	case "relative":
		return diagfmt.PathModeRelative
	case "basename":
		return diagfmt.PathModeBasename
	default:
		return diagfmt.PathModeAuto
	}
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Flags().GetBool("quiet")
	return q
}
