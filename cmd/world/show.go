package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/world-core/internal/domain/entities"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <world-id>",
		Short: "Show a saved world's regions and entities",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		world, err := d.WorldHandler.HandleShow(ctx, args[0])
		if err != nil {
			return fmt.Errorf("loading world: %w", err)
		}

		fmt.Printf("World %q (%s)\n\n", world.Name, world.ID)

		fmt.Println("Regions:")
		for _, r := range world.Regions {
			fmt.Printf("  [%d,%d] %s (%s, %s)\n", r.GridX, r.GridY, r.Name, r.Theme, r.Biome)
		}

		displayEntities("Locations", world.Locations)
		displayEntities("NPCs", world.NPCs)
		displayEntities("Items", world.Items)
		return nil
	})
}

func displayEntities(header string, ents []*entities.Entity) {
	if len(ents) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", header)
	for _, e := range ents {
		fmt.Printf("  %s  %s (%s %s) @ %s (%d,%d), %d attributes\n",
			e.ID, e.Name, e.Rarity, e.Category,
			e.Position.Region, e.Position.X, e.Position.Y, len(e.Attributes))
	}
}
