package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProjectsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List the project names in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := a.mgr.Projects()
			if err != nil {
				return err
			}
			for _, p := range projects {
				fmt.Println(p)
			}
			return nil
		},
	}
}

func newTagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the tags in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := a.mgr.Tags()
			if err != nil {
				return err
			}
			for _, t := range tags {
				fmt.Println(t)
			}
			return nil
		},
	}
}
