package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/world-core/internal/domain/entities"
)

func newSearchCmd() *cobra.Command {
	var (
		limit int
		kind  string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Semantically search generated entities",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), kind, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultSearchLimit, "Maximum number of results")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Restrict to one kind (item, npc, location)")

	return cmd
}

func runSearch(cmd *cobra.Command, query, kind string, limit int) error {
	ctx := cmd.Context()

	k := entities.Kind(kind)
	if kind != "" && !k.Valid() {
		return fmt.Errorf("invalid kind %q (want item, npc, or location)", kind)
	}

	return withDeps(func(d *Deps) error {
		result, err := d.SearchHandler.HandleSearch(ctx, query, k, limit)
		if err != nil {
			return fmt.Errorf("searching: %w", err)
		}

		if result.Total == 0 {
			fmt.Println("No matches found.")
			return nil
		}

		for _, h := range result.Hits {
			fmt.Printf("%.3f  %-8s  %s  %s (%s) in %s\n",
				h.Score, h.Kind, h.EntityID, h.Name, h.Category, h.Region)
		}
		return nil
	})
}
