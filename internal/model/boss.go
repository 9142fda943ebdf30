package model

import (
	"time"

	"github.com/google/uuid"
)

type RaidStatus string

const (
	RaidActive   RaidStatus = "active"
	RaidDefeated RaidStatus = "defeated"
	RaidEscaped  RaidStatus = "escaped"
)

// BossRaid is the shared weekly community event. CurrentHP only decreases
// and is floored at zero; the status flips to defeated exactly once.
type BossRaid struct {
	ID             uuid.UUID
	Name           string
	Description    string
	TotalHP        int
	CurrentHP      int
	Status         RaidStatus
	WeekStart      time.Time
	WeekEnd        time.Time
	RewardXP       int
	RewardCredits  int
	RewardTickets  int
	Participants   int
	CreatedAt      time.Time
}

// Contribution is one user's accumulated damage against one raid.
type Contribution struct {
	RaidID             uuid.UUID
	UserID             string
	DamageDealt        int
	TasksCompleted     int
	FocusMinutes       int
	LastContributionAt time.Time
}

// RaidReward is the tiered payout of a claimed, defeated raid.
type RaidReward struct {
	XP          int
	Credits     int
	Tickets     int
	Multiplier  float64
	SharePct    float64
	DamageDealt int
}
