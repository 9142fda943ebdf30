package model

// ArchetypeID identifies one of the six selectable archetypes.
type ArchetypeID string

const (
	ArchetypeWarrior   ArchetypeID = "warrior"
	ArchetypeSage      ArchetypeID = "sage"
	ArchetypeMonk      ArchetypeID = "monk"
	ArchetypeArchitect ArchetypeID = "architect"
	ArchetypeBard      ArchetypeID = "bard"
	ArchetypeHybrid    ArchetypeID = "hybrid"
)

// PerkEffect is one passive bonus. A nil Category means the perk applies to
// every task category.
type PerkEffect struct {
	XPMultiplier      float64
	CreditsMultiplier float64
	Category          *TaskCategory
}

type ArchetypePerk struct {
	ID     string
	Title  string
	Effect PerkEffect
}

type Archetype struct {
	ID          ArchetypeID
	Name        string
	Description string
	Focus       string
	Perks       []ArchetypePerk
}

// ArchetypeBonus is the composed multiplier pair applicable to one task.
type ArchetypeBonus struct {
	XPMultiplier      float64
	CreditsMultiplier float64
}
