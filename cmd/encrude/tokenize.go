package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"encrude/internal/diagfmt"
	"encrude/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.cs",
	Short: "Tokenize a C# source file",
	Long:  `Tokenize prints the tokens of a C# file. Active statement markup is stripped first.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	result, err := driver.Tokenize(args[0], settings.Analyze.MaxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// диагностика в stderr, токены в stdout
	if result.Bag.Len() > 0 {
		result.Bag.Sort()
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   diagfmt.ColorEnabled(settings.Output.Color, os.Stderr),
			Context: 2,
		})
	}
	if err := diagfmt.Tokens(cmd.OutOrStdout(), result.Tokens, result.FileSet, format == "json"); err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return exitError{code: 2}
	}
	return nil
}
