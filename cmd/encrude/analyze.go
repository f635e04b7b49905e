package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"encrude/internal/driver"
	"encrude/internal/source"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] before.cs [after.cs]",
	Short: "Report rude edits between two versions of a document",
	Long: `Analyze maps the active statements marked with <AS:N>...</AS:N> in the old
document onto the new one and reports rude edits. The new document is either
the second argument or the result of applying --patch to the first.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	analyzeCmd.Flags().String("path-mode", "auto", "path display (auto|absolute|relative|basename)")
	analyzeCmd.Flags().String("provider", "native", "tree provider (native|treesitter)")
	analyzeCmd.Flags().String("patch", "", "unified diff producing the new document from the old one")
	analyzeCmd.Flags().IntSlice("leaf", nil, "active statement ids of leaf frames (default: 0)")
	analyzeCmd.Flags().Bool("show-diff", false, "print a unified diff of the two documents")
	analyzeCmd.Flags().Bool("tracked", false, "print where every active statement ended up")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	patchPath, err := cmd.Flags().GetString("patch")
	if err != nil {
		return fmt.Errorf("failed to get patch flag: %w", err)
	}
	switch {
	case patchPath == "" && len(args) != 2:
		return fmt.Errorf("expected before and after documents (or --patch)")
	case patchPath != "" && len(args) != 1:
		return fmt.Errorf("--patch replaces the after document")
	}

	in := driver.PairInput{BeforePath: args[0]}
	if in.Before, err = os.ReadFile(args[0]); err != nil {
		return err
	}
	if patchPath != "" {
		if in.Patch, err = os.ReadFile(patchPath); err != nil {
			return err
		}
	} else {
		in.AfterPath = args[1]
		if in.After, err = os.ReadFile(args[1]); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("leaf") {
		if in.Leaf, err = cmd.Flags().GetIntSlice("leaf"); err != nil {
			return fmt.Errorf("failed to get leaf flag: %w", err)
		}
	}

	provider, err := driver.ParseProvider(settings.Analyze.Provider)
	if err != nil {
		return err
	}
	res, err := driver.AnalyzePair(cmd.Context(), source.NewFileSet(), in, driver.Options{
		Provider:       provider,
		MaxDiagnostics: settings.Analyze.MaxDiagnostics,
		Session:        uuid.NewString(),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if show, _ := cmd.Flags().GetBool("show-diff"); show && res.Before != nil && res.After != nil {
		if err := writeDiff(out, res); err != nil {
			return err
		}
	}
	if tracked, _ := cmd.Flags().GetBool("tracked"); tracked {
		writeTracked(out, res)
	}
	res.Bag.Sort()
	if err := writeDiagnostics(out, res.Bag, res.FileSet); err != nil {
		return err
	}
	if res.Timer != nil {
		if err := writeTimings(cmd, driver.NewTimingPayload("pair", in.BeforePath, res.Timer.Report())); err != nil {
			return err
		}
	}

	switch {
	case res.Broken():
		return exitError{code: 2}
	case res.Rude():
		if !quiet(cmd) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d rude edit(s)\n", countRude(res))
		}
		return exitError{code: 1}
	}
	if !quiet(cmd) && settings.Output.Format == "pretty" {
		fmt.Fprintln(cmd.ErrOrStderr(), "no rude edits")
	}
	return nil
}

func countRude(res *driver.PairResult) int {
	n := 0
	for _, d := range res.Bag.Items() {
		if d.Code.IsRude() {
			n++
		}
	}
	return n
}

func writeDiff(w io.Writer, res *driver.PairResult) error {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(res.Before.Content)),
		B:        difflib.SplitLines(string(res.After.Content)),
		FromFile: res.Before.Path,
		ToFile:   res.After.Path,
		Context:  3,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text+"\n")
	return err
}

// writeTracked prints one line per active statement: old position, new
// position (or "-") and the mapping state.
func writeTracked(w io.Writer, res *driver.PairResult) {
	for _, o := range res.Outcomes {
		leaf := ""
		if o.Leaf {
			leaf = " leaf"
		}
		from, _ := res.FileSet.Resolve(o.Before)
		to := "-"
		if o.HasAfter {
			pos, _ := res.FileSet.Resolve(o.After)
			to = fmt.Sprintf("%d:%d %q", pos.Line, pos.Col, res.After.Text(o.After))
		}
		fmt.Fprintf(w, "AS:%d%s %d:%d -> %s (%s)\n", o.ID, leaf, from.Line, from.Col, to, o.State)
	}
}
