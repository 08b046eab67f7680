package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/world-core/internal/domain/entities"
)

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show the built-in entity categories per kind",
		Long:  "Lists the default category enum used to seed generation before the taxonomy discovers its own categories.",
		RunE:  runCategories,
	}
}

func runCategories(cmd *cobra.Command, args []string) error {
	for _, kind := range []entities.Kind{entities.KindItem, entities.KindNPC, entities.KindLocation} {
		fmt.Printf("%s:\n", kind)
		for _, name := range entities.DefaultCategories(kind) {
			fmt.Printf("  %s\n", name)
		}
	}
	return nil
}
