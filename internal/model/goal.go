package model

import "time"

type GoalPeriod string

const (
	PeriodDaily    GoalPeriod = "daily"
	PeriodWeekly   GoalPeriod = "weekly"
	PeriodSeasonal GoalPeriod = "seasonal"
)

// GoalType selects how a goal's progress advances.
type GoalType string

const (
	GoalCompleteTasks    GoalType = "complete_tasks"
	GoalCompleteCategory GoalType = "complete_category"
	GoalEarnXP           GoalType = "earn_xp"
	GoalFocusTime        GoalType = "focus_time"
	GoalMaintainStreak   GoalType = "maintain_streak"
)

type GoalRequirement struct {
	Type     GoalType
	Target   int
	Category *TaskCategory
}

type GoalReward struct {
	XP      int
	Credits int
	Tickets int
}

// Goal is one live progress tracker instantiated from a template. Progress
// is clamped to the target and never decreases within a period; a completed
// goal grants its reward exactly once and regenerates fresh after ExpiresAt.
type Goal struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Period      GoalPeriod
	Requirement GoalRequirement
	Reward      GoalReward
	Progress    int
	Completed   bool
	ExpiresAt   time.Time
}

// GoalTemplate is a static definition goals are stamped from at period start.
type GoalTemplate struct {
	ID          string
	Title       string
	Description string
	Period      GoalPeriod
	Requirement GoalRequirement
	Reward      GoalReward
}
