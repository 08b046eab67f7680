package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <world-id>",
		Short: "Delete a saved world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, args[0], yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

func runDelete(cmd *cobra.Command, id string, yes bool) error {
	ctx := cmd.Context()

	if !yes {
		fmt.Printf("Delete world %s and all its entities? [y/N] ", id)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	return withDeps(func(d *Deps) error {
		if err := d.WorldHandler.HandleDelete(ctx, id); err != nil {
			return fmt.Errorf("deleting world: %w", err)
		}
		fmt.Printf("Deleted world %s\n", id)
		return nil
	})
}
