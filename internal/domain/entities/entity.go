// Package entities contains core domain data structures.
package entities

import "time"

// Kind identifies which flat registry and taxonomy an entity belongs to.
type Kind string

// Entity kinds. Regions are not a Kind: they are spatial containers, not
// placeable entities.
const (
	KindItem     Kind = "item"
	KindNPC      Kind = "npc"
	KindLocation Kind = "location"
)

// Tag returns the short prefix used in generated identifiers.
func (k Kind) Tag() string {
	if k == KindLocation {
		return "loc"
	}
	return string(k)
}

// Valid reports whether k is a known entity kind.
func (k Kind) Valid() bool {
	switch k {
	case KindItem, KindNPC, KindLocation:
		return true
	}
	return false
}

// Position is an entity's integer world position inside a region.
type Position struct {
	Region string `json:"region" yaml:"region"`
	X      int    `json:"x" yaml:"x"`
	Y      int    `json:"y" yaml:"y"`
}

// ConversationTurn is one exchange in an NPC's dialogue history.
type ConversationTurn struct {
	Speaker string    `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// Entity is a fully synthesized item, NPC, or location. The three kinds are
// structurally identical; only NPCs use the Conversation field.
type Entity struct {
	ID                string               `json:"id"`
	Kind              Kind                 `json:"kind"`
	Name              string               `json:"name"`
	Rarity            Rarity               `json:"rarity"`
	Category          string               `json:"category"`
	VisualDescription string               `json:"visual_description"`
	Description       string               `json:"description"`
	Purpose           string               `json:"purpose"`
	ImageRef          string               `json:"image_ref"`
	Position          Position             `json:"position"`
	Attributes        map[string]Attribute `json:"attributes"`
	Conversation      []ConversationTurn   `json:"conversation,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
}

// Clone returns a deep copy of the entity. The registry hands out and stores
// copies so callers can never mutate registry state through a shared pointer.
func (e *Entity) Clone() *Entity {
	c := *e
	if e.Attributes != nil {
		c.Attributes = make(map[string]Attribute, len(e.Attributes))
		for name, attr := range e.Attributes {
			c.Attributes[name] = attr
		}
	}
	if e.Conversation != nil {
		c.Conversation = make([]ConversationTurn, len(e.Conversation))
		copy(c.Conversation, e.Conversation)
	}
	return &c
}
