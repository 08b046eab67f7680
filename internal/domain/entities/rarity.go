package entities

import (
	"fmt"
	"strings"
)

// Rarity is an entity's significance tier.
type Rarity string

// Rarity tiers, ordered from least to most significant.
const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// rarityOrder maps each tier to its position in the ordering.
var rarityOrder = map[Rarity]int{
	RarityCommon:    0,
	RarityRare:      1,
	RarityEpic:      2,
	RarityLegendary: 3,
}

// ParseRarity normalizes and validates a rarity string from the backend.
func ParseRarity(s string) (Rarity, error) {
	r := Rarity(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rarityOrder[r]; !ok {
		return "", fmt.Errorf("unknown rarity %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the four known tiers.
func (r Rarity) Valid() bool {
	_, ok := rarityOrder[r]
	return ok
}

// Less reports whether r is a lower tier than other.
func (r Rarity) Less(other Rarity) bool {
	return rarityOrder[r] < rarityOrder[other]
}
