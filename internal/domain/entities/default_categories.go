package entities

// Default category names per entity kind, used for the metadata stage's
// category enum whenever the taxonomy has no categories for that kind yet.
// The backend may still invent new categories; these only seed the first
// generations.
var defaultCategories = map[Kind][]string{
	KindItem: {
		"weapon",
		"armor",
		"consumable",
		"tool",
		"trinket",
	},
	KindNPC: {
		"merchant",
		"guard",
		"quest_giver",
		"villager",
		"monster",
	},
	KindLocation: {
		"settlement",
		"dungeon",
		"landmark",
		"shop",
		"wilderness",
	},
}

// DefaultCategories returns the built-in category names for a kind.
func DefaultCategories(kind Kind) []string {
	names := defaultCategories[kind]
	out := make([]string, len(names))
	copy(out, names)
	return out
}
