package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdtask/mdtask/internal/vault"
)

var (
	importPolicy    string
	importDryRun    bool
	importRecursive bool
	importPattern   string
	importReplace   bool
)

func newImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file-or-dir>",
		Short: "Import inline task lines from vault notes",
		Long: `Import Obsidian-style task lines ("- [ ] ...") from a markdown
file or directory into task storage, keeping a source reference on
each imported task.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(a, args[0])
		},
	}

	cmd.Flags().StringVar(&importPolicy, "duplicates", string(vault.DupSkip), "Duplicate policy: skip, update, or force")
	cmd.Flags().BoolVarP(&importDryRun, "dry-run", "n", false, "Report without persisting or rewriting")
	cmd.Flags().BoolVarP(&importRecursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().StringVar(&importPattern, "pattern", "", "Filename glob when importing a directory")
	cmd.Flags().BoolVar(&importReplace, "replace-lines", false, "Rewrite imported lines as wiki links")

	return cmd
}

func runImport(a *app, path string) error {
	policy := vault.DuplicatePolicy(importPolicy)
	switch policy {
	case vault.DupSkip, vault.DupUpdate, vault.DupForce:
	default:
		return fmt.Errorf("invalid duplicate policy %q (skip, update, force)", importPolicy)
	}

	vaultRoot := a.cfg.Vault.Root
	if vaultRoot == "" {
		if root, ok := vault.FindVaultRoot(path); ok {
			vaultRoot = root
		}
	}

	pattern := importPattern
	if pattern == "" {
		pattern = a.cfg.Vault.Pattern
	}
	recursive := importRecursive || a.cfg.Vault.Recursive

	files, err := vault.CollectFiles(path, pattern, recursive, a.cfg.Storage.Dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No files to import")
		return nil
	}

	im := vault.NewImporter(a.repo, vaultRoot, a.log)
	res, err := im.ImportAll(files, vault.ImportOptions{
		Policy:       policy,
		DryRun:       importDryRun,
		ReplaceLines: importReplace,
	})
	if err != nil {
		return err
	}

	prefix := ""
	if importDryRun {
		prefix = "[dry run] "
	}
	for _, t := range res.Created {
		fmt.Printf("%sImported %s %s (%s:%d)\n", prefix, idStyle.Render(t.ShortID()), t.Title, t.SourceFile, t.SourceLine)
	}
	for _, t := range res.Updated {
		fmt.Printf("%sUpdated %s %s\n", prefix, idStyle.Render(t.ShortID()), t.Title)
	}
	fmt.Printf("%s%d imported, %d updated, %d skipped\n",
		prefix, len(res.Created), len(res.Updated), len(res.Skipped))
	return nil
}
