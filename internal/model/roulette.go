package model

// Rarity orders the roulette pools from most to least likely.
type Rarity string

const (
	RarityCommon Rarity = "common"
	RarityRare   Rarity = "rare"
	RarityEpic   Rarity = "epic"
)

// RouletteReward is one entry of the static challenge wheel.
type RouletteReward struct {
	ID     string
	Text   string
	XP     int
	Rarity Rarity
}

// RouletteOutcome is the ephemeral result of one spin.
type RouletteOutcome struct {
	Reward       RouletteReward
	BonusTickets int
}
