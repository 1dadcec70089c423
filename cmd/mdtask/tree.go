package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdtask/mdtask/internal/manager"
)

func newTreeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "tree [id]",
		Short:             "Show the task hierarchy",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: taskIDCompletion(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := ""
			if len(args) == 1 {
				root = args[0]
			}
			forest, err := a.mgr.Tree(root)
			if err != nil {
				return err
			}
			if len(forest) == 0 {
				fmt.Println("No tasks found")
				return nil
			}
			for _, node := range forest {
				printTree(node, "")
			}
			return nil
		},
	}
}

func printTree(node *manager.TreeNode, indent string) {
	t := node.Task
	fmt.Printf("%s%s %s %s\n", indent, statusGlyph(t.Status), idStyle.Render(t.ShortID()), t.Title)
	for _, c := range node.Children {
		printTree(c, indent+"  ")
	}
}
