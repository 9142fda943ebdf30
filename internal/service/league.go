package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"dopamind/internal/model"
)

func intPtr(v int) *int { return &v }

// LeagueTiers is the fixed ordered tier table. The top tier is open-ended.
var LeagueTiers = []model.LeagueTier{
	{ID: "bronze", Name: "Bronze", MinXP: 0, MaxXP: intPtr(499)},
	{ID: "silver", Name: "Silver", MinXP: 500, MaxXP: intPtr(1199)},
	{ID: "gold", Name: "Gold", MinXP: 1200, MaxXP: intPtr(2499)},
	{ID: "platinum", Name: "Platinum", MinXP: 2500, MaxXP: intPtr(3999)},
	{ID: "diamond", Name: "Diamond", MinXP: 4000, MaxXP: intPtr(5999)},
	{ID: "ascendant", Name: "Ascendant", MinXP: 6000},
}

// ClassifyWeeklyXP maps a weekly XP total to its tier band. Pure function:
// week boundaries come from the reference date alone, so the classification
// is recomputable at any time from the raw accumulator.
func ClassifyWeeklyXP(weeklyXP int, reference time.Time) model.WeeklyLeagueStatus {
	tierIndex := 0
	for i, tier := range LeagueTiers {
		if weeklyXP >= tier.MinXP {
			tierIndex = i
		}
	}
	tier := LeagueTiers[tierIndex]

	weekStart := StartOfWeek(reference)
	status := model.WeeklyLeagueStatus{
		Tier:           tier,
		WeeklyXP:       weeklyXP,
		WeekStart:      weekStart,
		WeekEnd:        weekStart.AddDate(0, 0, 7).Add(-time.Second),
		ProgressToNext: 100,
	}

	if tierIndex+1 < len(LeagueTiers) {
		next := LeagueTiers[tierIndex+1]
		status.NextTier = &next

		progress := math.Round(100 * float64(weeklyXP-tier.MinXP) / float64(next.MinXP-tier.MinXP))
		status.ProgressToNext = int(math.Min(100, math.Max(0, progress)))
	}

	return status
}

// LeagueService pairs the pure classifier with the week-keyed redis
// accumulator.
type LeagueService struct {
	weekly WeeklyXPRepository
	now    func() time.Time
}

func NewLeagueService(weekly WeeklyXPRepository) *LeagueService {
	return &LeagueService{
		weekly: weekly,
		now:    time.Now,
	}
}

// AddWeeklyXP credits XP to the current week's accumulator.
func (s *LeagueService) AddWeeklyXP(ctx context.Context, userID string, amount int) error {
	if amount <= 0 {
		return nil
	}
	return s.weekly.AddWeeklyXP(ctx, userID, StartOfWeek(s.now()), amount)
}

// WeeklyStatus classifies the user's current weekly XP.
func (s *LeagueService) WeeklyStatus(ctx context.Context, userID string) (*model.WeeklyLeagueStatus, error) {
	now := s.now()

	weeklyXP, err := s.weekly.GetWeeklyXP(ctx, userID, StartOfWeek(now))
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly xp: %w", err)
	}

	status := ClassifyWeeklyXP(weeklyXP, now)
	return &status, nil
}

// Leaderboard returns the top entries for the current week.
func (s *LeagueService) Leaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	entries, err := s.weekly.TopWeekly(ctx, StartOfWeek(s.now()), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly leaderboard: %w", err)
	}
	return entries, nil
}
