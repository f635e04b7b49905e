package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"encrude/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [dir]",
	Short: "Run rude edit fixture cases",
	Long: `Check loads *.toml fixture cases under dir (default from encrude.toml, else ".")
and compares the diagnostics of every case with its [[expect]] entries.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostic format for failed cases (pretty|short|json|sarif)")
	checkCmd.Flags().String("path-mode", "auto", "path display (auto|absolute|relative|basename)")
	checkCmd.Flags().String("provider", "native", "tree provider (native|treesitter)")
	checkCmd.Flags().Int("jobs", 0, "max parallel cases (0 = GOMAXPROCS)")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().Bool("disk-cache", false, "reuse results from the on-disk cache")
	checkCmd.Flags().Bool("drop-cache", false, "clear the on-disk cache before running")
	checkCmd.Flags().StringSlice("include", nil, "glob patterns of case files (default **/*.toml)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := settings.Check.Dir
	if len(args) == 1 {
		dir = args[0]
	}
	cases, err := driver.LoadCases(dir, settings.Check.Include)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		return fmt.Errorf("no cases found under %s", dir)
	}

	provider, err := driver.ParseProvider(settings.Analyze.Provider)
	if err != nil {
		return err
	}
	session := uuid.NewString()
	opts := driver.RunOptions{
		Pair: driver.Options{
			Provider:       provider,
			MaxDiagnostics: settings.Analyze.MaxDiagnostics,
			Session:        session,
		},
		Jobs: settings.Check.Jobs,
	}
	if settings.Check.DiskCache {
		cache, err := openCache()
		if err != nil {
			return err
		}
		if drop, _ := cmd.Flags().GetBool("drop-cache"); drop {
			if err := cache.DropAll(); err != nil {
				return err
			}
		}
		opts.Pair.Cache = cache
	}

	mode, err := readUIMode(settings.Check.UI)
	if err != nil {
		return err
	}
	var report *driver.RunReport
	if shouldUseTUI(mode, os.Stdout, os.Getenv) && !quiet(cmd) {
		report, err = runCasesWithUI(cmd.Context(), "encrude check "+dir, cases, opts)
	} else {
		report, err = driver.RunCases(cmd.Context(), cases, opts)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := writeReport(out, report); err != nil {
		return err
	}
	if err := writeTimings(cmd, driver.CheckTimings(report)); err != nil {
		return err
	}
	if !report.OK() {
		return exitError{code: 1}
	}
	return nil
}

func openCache() (*driver.DiskCache, error) {
	if settings.Check.CacheDir != "" {
		return driver.OpenDiskCacheAt(settings.Check.CacheDir)
	}
	return driver.OpenDiskCache("encrude")
}

// writeReport prints failed and errored cases with their diagnostics, then a summary line.
func writeReport(w io.Writer, report *driver.RunReport) error {
	for _, r := range report.Results {
		switch {
		case r.Skipped || r.Passed:
			continue
		case r.Err != nil:
			fmt.Fprintf(w, "ERROR %s: %v\n", r.Case.Name, r.Err)
			continue
		}
		fmt.Fprintf(w, "FAIL %s (%s)\n", r.Case.Name, r.Case.Path)
		writeLines(w, "  expected:", r.Expected)
		writeLines(w, "  actual:", r.Actual)
		if r.Pair != nil && r.Pair.Bag.Len() > 0 && settings.Output.Format != "short" {
			if err := writeDiagnostics(w, r.Pair.Bag, r.Pair.FileSet); err != nil {
				return err
			}
		}
		fmt.Fprintln(w)
	}
	_, err := fmt.Fprintf(w, "%d passed, %d failed, %d errors, %d skipped\n",
		report.Passed, report.Failed, report.Errored, report.Skipped)
	return err
}

func writeLines(w io.Writer, title string, lines []string) {
	if len(lines) == 0 {
		fmt.Fprintln(w, title, "(none)")
		return
	}
	fmt.Fprintln(w, title)
	for _, l := range lines {
		fmt.Fprintln(w, "    "+l)
	}
}
