package model

import (
	"math"
	"time"
)

// TaskCategory is the fixed five-category split every task belongs to.
type TaskCategory string

const (
	CategoryBody   TaskCategory = "Body"
	CategoryMind   TaskCategory = "Mind"
	CategorySpirit TaskCategory = "Spirit"
	CategoryWork   TaskCategory = "Work"
	CategoryLife   TaskCategory = "Life"
)

func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryBody, CategoryMind, CategorySpirit, CategoryWork, CategoryLife:
		return true
	}
	return false
}

// Stats are the per-category counters shown on the profile radar.
type Stats struct {
	Strength  int
	Intellect int
	Focus     int
	Spirit    int
	Charisma  int
}

// Increment bumps the counter matching the task category.
func (s *Stats) Increment(category TaskCategory) {
	switch category {
	case CategoryBody:
		s.Strength++
	case CategoryMind:
		s.Intellect++
	case CategoryWork:
		s.Focus++
	case CategorySpirit:
		s.Spirit++
	case CategoryLife:
		s.Charisma++
	}
}

type Profile struct {
	UserID           string
	Username         string
	TotalXP          int
	Credits          int
	Streak           int
	RouletteTickets  int
	ArchetypeID      string
	Stats            Stats
	LastActiveDate   *time.Time
	RegistrationDate time.Time
}

// AuraLevel is the level derived from total XP: floor(sqrt(xp/120)) + 1.
func AuraLevel(totalXP int) int {
	if totalXP <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(totalXP)/120))) + 1
}

// LevelProgress reports XP accumulated inside the current level and the XP
// span of the level, for the profile progress bar.
func LevelProgress(totalXP int) (current, needed int) {
	level := AuraLevel(totalXP)
	start := 120 * (level - 1) * (level - 1)
	end := 120 * level * level
	return totalXP - start, end - start
}
