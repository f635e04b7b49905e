package main

import (
	"fmt"
	"io"
	"os"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"encrude/internal/diag"
	"encrude/internal/diagfmt"
	"encrude/internal/driver"
	"encrude/internal/source"
	"encrude/internal/version"
)

// writeDiagnostics renders bag in the configured output format.
func writeDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	out := settings.Output
	mode := pathMode(out.PathMode)
	switch out.Format {
	case "short":
		diagfmt.Short(w, bag, fs, mode)
		return nil
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{IncludePositions: true, PathMode: mode, IncludeNotes: true})
	case "sarif":
		return diagfmt.Sarif(w, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "encrude",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args,
		})
	case "pretty", "":
		context, err := safecast.Conv[int8](out.Context)
		if err != nil {
			return err
		}
		file, _ := w.(*os.File)
		useColor := diagfmt.ColorEnabled(out.Color, file)
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     useColor,
			Highlight: out.Highlight,
			Context:   context,
			PathMode:  mode,
			ShowNotes: true,
		})
		return nil
	default:
		return fmt.Errorf("unknown format: %s", out.Format)
	}
}

// writeTimings prints the timing payload to stderr when --timings is set.
func writeTimings(cmd *cobra.Command, payload driver.TimingPayload) error {
	show, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	asJSON, err := cmd.Flags().GetBool("timings-json")
	if err != nil {
		return fmt.Errorf("failed to get timings-json flag: %w", err)
	}
	if !show && !asJSON {
		return nil
	}
	return payload.Write(cmd.ErrOrStderr(), asJSON)
}
