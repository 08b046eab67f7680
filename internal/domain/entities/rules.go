package entities

// RuleBase holds the generation settings shared by every entity kind.
type RuleBase struct {
	ArtStyle   string   `json:"art_style" yaml:"art_style"`
	Period     string   `json:"period" yaml:"period"`
	Genre      string   `json:"genre" yaml:"genre"`
	Categories []string `json:"categories" yaml:"categories"`
}

// Rules is the per-kind generation rule set. Each kind has its own concrete
// rule type so kind-specific knobs stay typed instead of living in one broad
// bag of optional fields.
type Rules interface {
	Kind() Kind
	Base() RuleBase
}

// ItemRules steer item synthesis.
type ItemRules struct {
	RuleBase `yaml:",inline"`

	// PowerBudget caps how strong generated item attributes should read.
	PowerBudget string `json:"power_budget" yaml:"power_budget"`
}

// Kind implements Rules.
func (r ItemRules) Kind() Kind { return KindItem }

// Base implements Rules.
func (r ItemRules) Base() RuleBase { return r.RuleBase }

// NPCRules steer NPC synthesis.
type NPCRules struct {
	RuleBase `yaml:",inline"`

	// Disposition biases generated personalities (e.g. "mostly hostile").
	Disposition string `json:"disposition" yaml:"disposition"`
}

// Kind implements Rules.
func (r NPCRules) Kind() Kind { return KindNPC }

// Base implements Rules.
func (r NPCRules) Base() RuleBase { return r.RuleBase }

// LocationRules steer location synthesis.
type LocationRules struct {
	RuleBase `yaml:",inline"`

	// Scale hints at location size (e.g. "hamlet", "fortress city").
	Scale string `json:"scale" yaml:"scale"`
}

// Kind implements Rules.
func (r LocationRules) Kind() Kind { return KindLocation }

// Base implements Rules.
func (r LocationRules) Base() RuleBase { return r.RuleBase }

// RulesFor returns zero-valued rules for a kind, used when the caller
// supplies none.
func RulesFor(kind Kind) Rules {
	switch kind {
	case KindNPC:
		return NPCRules{}
	case KindLocation:
		return LocationRules{}
	default:
		return ItemRules{}
	}
}
