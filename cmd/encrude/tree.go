package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"encrude/internal/diagfmt"
	"encrude/internal/driver"
)

var treeCmd = &cobra.Command{
	Use:   "tree [flags] file.cs",
	Short: "Print the syntax tree of a C# source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

func init() {
	treeCmd.Flags().String("provider", "native", "tree provider (native|treesitter)")
	treeCmd.Flags().Bool("marks", false, "list active statement marks found in the file")
}

func runTree(cmd *cobra.Command, args []string) error {
	provider, err := driver.ParseProvider(settings.Analyze.Provider)
	if err != nil {
		return err
	}
	result, err := driver.Parse(cmd.Context(), args[0], provider, settings.Analyze.MaxDiagnostics)
	if err != nil {
		return err
	}
	if result.Bag.Len() > 0 {
		result.Bag.Sort()
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   diagfmt.ColorEnabled(settings.Output.Color, os.Stderr),
			Context: 2,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Tree.Dump(result.Tree.Root))
	if marks, _ := cmd.Flags().GetBool("marks"); marks {
		for _, m := range result.Marks {
			leaf := ""
			if m.Leaf {
				leaf = " leaf"
			}
			fmt.Fprintf(out, "AS:%d%s [%d,%d) %q\n", m.ID, leaf, m.Start, m.End, result.File.Content[m.Start:m.End])
		}
	}
	if result.Bag.HasErrors() {
		return exitError{code: 2}
	}
	return nil
}
