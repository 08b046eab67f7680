package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved worlds",
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		summaries, err := d.WorldHandler.HandleList(ctx)
		if err != nil {
			return fmt.Errorf("listing worlds: %w", err)
		}

		if len(summaries) == 0 {
			fmt.Println("No worlds found.")
			return nil
		}

		for _, s := range summaries {
			fmt.Printf("%s  %-24s  %d regions, %d entities  (%s)\n",
				s.ID, s.Name, s.RegionCount, s.EntityCount, s.CreatedAt)
		}
		return nil
	})
}
