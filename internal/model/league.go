package model

import "time"

// LeagueTier is one ranking band. MaxXP is nil for the open-ended top tier.
type LeagueTier struct {
	ID    string
	Name  string
	MinXP int
	MaxXP *int
}

// WeeklyLeagueStatus is the classification of a user's weekly XP total.
type WeeklyLeagueStatus struct {
	Tier           LeagueTier
	WeeklyXP       int
	WeekStart      time.Time
	WeekEnd        time.Time
	ProgressToNext int
	NextTier       *LeagueTier
}

// LeaderboardEntry is one row of the weekly XP ranking.
type LeaderboardEntry struct {
	UserID   string
	WeeklyXP int
	Rank     int
}
