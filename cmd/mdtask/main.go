// Package main is the entry point for the mdtask CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

func main() {
	a, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "mdtask",
		Short: "Manage tasks stored as markdown files",
		Long: `mdtask is a local task tracker that keeps every task as a
markdown file with YAML frontmatter, compatible with Obsidian vaults
and the Obsidian Tasks inline syntax.

Tasks can be referenced by their full id or any unique prefix.`,
	}

	rootCmd.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newStartCmd(a),
		newDoneCmd(a),
		newCancelCmd(a),
		newReopenCmd(a),
		newRmCmd(a),
		newNoteCmd(a),
		newEditCmd(a),
		newSearchCmd(a),
		newTreeCmd(a),
		newProjectsCmd(a),
		newTagsCmd(a),
		newRecurCmd(a),
		newImportCmd(a),
		newAnalyzeCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
