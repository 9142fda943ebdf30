package service

import (
	"context"
	"fmt"
	"time"

	"dopamind/internal/model"

	"github.com/google/uuid"
)

// GoalTemplates are the static definitions every user's goal set is stamped
// from at period start.
var GoalTemplates = []model.GoalTemplate{
	{
		ID: "daily_complete_5", Title: "Daily Momentum",
		Description: "Complete 5 tasks today", Period: model.PeriodDaily,
		Requirement: model.GoalRequirement{Type: model.GoalCompleteTasks, Target: 5},
		Reward:      model.GoalReward{XP: 50, Credits: 10},
	},
	{
		ID: "daily_focus_25", Title: "Focused Session",
		Description: "Accumulate 25 minutes of focus", Period: model.PeriodDaily,
		Requirement: model.GoalRequirement{Type: model.GoalFocusTime, Target: 25},
		Reward:      model.GoalReward{XP: 30, Credits: 5},
	},
	{
		ID: "daily_body", Title: "Body Warrior",
		Description: "Complete 2 Body tasks", Period: model.PeriodDaily,
		Requirement: model.GoalRequirement{Type: model.GoalCompleteCategory, Target: 2, Category: categoryPtr(model.CategoryBody)},
		Reward:      model.GoalReward{XP: 40, Credits: 8},
	},
	{
		ID: "daily_mind", Title: "Mind Sage",
		Description: "Complete 2 Mind tasks", Period: model.PeriodDaily,
		Requirement: model.GoalRequirement{Type: model.GoalCompleteCategory, Target: 2, Category: categoryPtr(model.CategoryMind)},
		Reward:      model.GoalReward{XP: 40, Credits: 8},
	},
	{
		ID: "weekly_complete_25", Title: "Weekly Marathon",
		Description: "Complete 25 tasks this week", Period: model.PeriodWeekly,
		Requirement: model.GoalRequirement{Type: model.GoalCompleteTasks, Target: 25},
		Reward:      model.GoalReward{XP: 200, Credits: 50, Tickets: 2},
	},
	{
		ID: "weekly_xp_1000", Title: "Ascension",
		Description: "Earn 1000 XP this week", Period: model.PeriodWeekly,
		Requirement: model.GoalRequirement{Type: model.GoalEarnXP, Target: 1000},
		Reward:      model.GoalReward{XP: 150, Credits: 40, Tickets: 1},
	},
	{
		ID: "weekly_focus_300", Title: "Focus Master",
		Description: "Accumulate 300 minutes of focus", Period: model.PeriodWeekly,
		Requirement: model.GoalRequirement{Type: model.GoalFocusTime, Target: 300},
		Reward:      model.GoalReward{XP: 250, Credits: 60, Tickets: 2},
	},
	{
		ID: "weekly_streak", Title: "Unbreakable Consistency",
		Description: "Maintain a 7-day streak", Period: model.PeriodWeekly,
		Requirement: model.GoalRequirement{Type: model.GoalMaintainStreak, Target: 7},
		Reward:      model.GoalReward{XP: 300, Credits: 75, Tickets: 3},
	},
	{
		ID: "seasonal_complete_300", Title: "Season Champion",
		Description: "Complete 300 tasks this season", Period: model.PeriodSeasonal,
		Requirement: model.GoalRequirement{Type: model.GoalCompleteTasks, Target: 300},
		Reward:      model.GoalReward{XP: 2000, Credits: 500, Tickets: 10},
	},
	{
		ID: "seasonal_xp_10000", Title: "Rising Legend",
		Description: "Earn 10,000 XP this season", Period: model.PeriodSeasonal,
		Requirement: model.GoalRequirement{Type: model.GoalEarnXP, Target: 10000},
		Reward:      model.GoalReward{XP: 1500, Credits: 400, Tickets: 8},
	},
	{
		ID: "seasonal_streak_30", Title: "Immortal",
		Description: "Reach a 30-day streak", Period: model.PeriodSeasonal,
		Requirement: model.GoalRequirement{Type: model.GoalMaintainStreak, Target: 30},
		Reward:      model.GoalReward{XP: 3000, Credits: 750, Tickets: 15},
	},
}

// StartOfDay truncates to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Monday 00:00 of t's week.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// StartOfSeason returns the first Monday of t's quarter.
func StartOfSeason(t time.Time) time.Time {
	quarter := (int(t.Month()) - 1) / 3
	first := time.Date(t.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, t.Location())
	offset := (8 - int(first.Weekday())) % 7
	return first.AddDate(0, 0, offset)
}

// PeriodExpiration computes when a goal of the period lapses, relative to now.
func PeriodExpiration(period model.GoalPeriod, now time.Time) time.Time {
	switch period {
	case model.PeriodDaily:
		return StartOfDay(now).AddDate(0, 0, 1)
	case model.PeriodWeekly:
		return StartOfWeek(now).AddDate(0, 0, 7)
	case model.PeriodSeasonal:
		return StartOfSeason(now).AddDate(0, 0, 90)
	}
	return StartOfDay(now).AddDate(0, 0, 1)
}

// GoalService keeps the layered daily/weekly/seasonal trackers current.
// Expired goals regenerate from their template on the next read; a completed
// goal grants its reward bundle exactly once.
type GoalService struct {
	repo    GoalRepository
	profile ProfileRepository
	ledger  LedgerRepository
	now     func() time.Time
}

func NewGoalService(repo GoalRepository, profile ProfileRepository, ledger LedgerRepository) *GoalService {
	return &GoalService{
		repo:    repo,
		profile: profile,
		ledger:  ledger,
		now:     time.Now,
	}
}

func instantiateGoal(template model.GoalTemplate, userID string, now time.Time) *model.Goal {
	return &model.Goal{
		ID:          template.ID,
		UserID:      userID,
		Title:       template.Title,
		Description: template.Description,
		Period:      template.Period,
		Requirement: template.Requirement,
		Reward:      template.Reward,
		Progress:    0,
		Completed:   false,
		ExpiresAt:   PeriodExpiration(template.Period, now),
	}
}

// LoadActive returns the user's full goal set, creating missing goals and
// regenerating expired ones first. A stale goal is never an error.
func (s *GoalService) LoadActive(ctx context.Context, userID string) ([]*model.Goal, error) {
	stored, err := s.repo.LoadGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	now := s.now()
	byID := make(map[string]*model.Goal, len(stored))
	for _, goal := range stored {
		byID[goal.ID] = goal
	}

	goals := make([]*model.Goal, 0, len(GoalTemplates))
	changed := false
	for _, template := range GoalTemplates {
		goal, ok := byID[template.ID]
		if !ok || now.After(goal.ExpiresAt) {
			goal = instantiateGoal(template, userID, now)
			changed = true
		}
		goals = append(goals, goal)
	}
	if len(goals) != len(stored) {
		changed = true
	}

	if changed {
		if err := s.repo.SaveGoals(ctx, userID, goals); err != nil {
			return nil, fmt.Errorf("failed to save regenerated goals: %w", err)
		}
	}

	return goals, nil
}

// advance runs one progress rule over the goal set and settles any goal that
// crosses its target. Progress on an already completed goal is a no-op, so a
// reward can never be granted twice within a period.
func (s *GoalService) advance(ctx context.Context, userID string, update func(goal *model.Goal)) ([]*model.Goal, error) {
	goals, err := s.LoadActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	var completed []*model.Goal
	for _, goal := range goals {
		if goal.Completed {
			continue
		}

		update(goal)

		if goal.Progress > goal.Requirement.Target {
			goal.Progress = goal.Requirement.Target
		}
		if goal.Progress >= goal.Requirement.Target {
			goal.Completed = true
			completed = append(completed, goal)
		}
	}

	if err := s.repo.SaveGoals(ctx, userID, goals); err != nil {
		return nil, fmt.Errorf("failed to save goals: %w", err)
	}

	for _, goal := range completed {
		if err := s.grantReward(ctx, userID, goal); err != nil {
			return nil, err
		}
	}

	return completed, nil
}

// grantReward pays out a completed goal. Goal rewards are flat: they do not
// pass through the task multiplier pipeline again.
func (s *GoalService) grantReward(ctx context.Context, userID string, goal *model.Goal) error {
	err := s.profile.ApplyReward(ctx, userID, goal.Reward.XP, goal.Reward.Credits, goal.Reward.Tickets, nil)
	if err != nil {
		return fmt.Errorf("failed to apply goal reward: %w", err)
	}

	entry := &model.LedgerEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Source:    fmt.Sprintf("goal:%s", goal.ID),
		Amount:    goal.Reward.XP,
		Breakdown: []string{fmt.Sprintf("goal_reward:%+d", goal.Reward.XP)},
		CreatedAt: s.now().UTC(),
	}
	if err := s.ledger.AppendLedger(ctx, entry); err != nil {
		return fmt.Errorf("failed to append goal ledger entry: %w", err)
	}

	return nil
}

// OnTaskCompleted advances complete_tasks goals and, when the category
// matches, complete_category goals.
func (s *GoalService) OnTaskCompleted(ctx context.Context, userID string, category model.TaskCategory) ([]*model.Goal, error) {
	return s.advance(ctx, userID, func(goal *model.Goal) {
		switch goal.Requirement.Type {
		case model.GoalCompleteTasks:
			goal.Progress++
		case model.GoalCompleteCategory:
			if goal.Requirement.Category != nil && *goal.Requirement.Category == category {
				goal.Progress++
			}
		}
	})
}

func (s *GoalService) OnXPGained(ctx context.Context, userID string, amount int) ([]*model.Goal, error) {
	return s.advance(ctx, userID, func(goal *model.Goal) {
		if goal.Requirement.Type == model.GoalEarnXP {
			goal.Progress += amount
		}
	})
}

func (s *GoalService) OnFocusTime(ctx context.Context, userID string, minutes int) ([]*model.Goal, error) {
	return s.advance(ctx, userID, func(goal *model.Goal) {
		if goal.Requirement.Type == model.GoalFocusTime {
			goal.Progress += minutes
		}
	})
}

// OnStreakUpdated sets streak goals to the current streak value. The streak
// gauge reflects state rather than counting events, so it is assigned, not
// incremented.
func (s *GoalService) OnStreakUpdated(ctx context.Context, userID string, streak int) ([]*model.Goal, error) {
	return s.advance(ctx, userID, func(goal *model.Goal) {
		if goal.Requirement.Type == model.GoalMaintainStreak {
			goal.Progress = streak
		}
	})
}
