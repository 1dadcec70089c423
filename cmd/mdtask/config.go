package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdtask/mdtask/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Search paths:")
			for _, p := range config.ConfigPaths() {
				fmt.Printf("  %s\n", p)
			}
			fmt.Println()
			printField("Storage dir", a.cfg.Storage.Dir)
			printField("Format", a.cfg.Storage.Format)
			printField("Layout", a.cfg.Storage.Organization)
			printField("Vault root", a.cfg.Vault.Root)
			printField("Analyzer", a.cfg.Analyzer.Command)
			printField("Log file", a.cfg.Logging.File)
			printField("Log level", a.cfg.Logging.Level)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write an example config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := config.ConfigPaths()
			if len(paths) == 0 {
				return fmt.Errorf("cannot determine home directory")
			}
			path := paths[len(paths)-1]
			if err := config.WriteExample(path); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	})

	return cmd
}
