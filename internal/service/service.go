package service

import (
	"context"
	"errors"
	"time"

	"dopamind/internal/model"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
	ErrInsufficientTickets  = errors.New("no roulette tickets available")
	ErrInsufficientCredits  = errors.New("not enough credits")
	ErrDuplicateEffect      = errors.New("an effect of this kind is already active")
	ErrRaidNotFound         = errors.New("no boss raid found")
	ErrRaidNotDefeated      = errors.New("boss raid is not defeated")
	ErrRewardAlreadyClaimed = errors.New("raid reward already claimed")
	ErrNoContribution       = errors.New("no contribution to this raid")
	ErrInvalidCategory      = errors.New("invalid task category")
)

type Service struct {
	*ProfileService
	*EffectService
	*GoalService
	*LeagueService
	*BossService
	*RouletteService
}

func NewService(
	profile *ProfileService,
	effects *EffectService,
	goals *GoalService,
	league *LeagueService,
	boss *BossService,
	roulette *RouletteService,
) *Service {
	return &Service{
		ProfileService:  profile,
		EffectService:   effects,
		GoalService:     goals,
		LeagueService:   league,
		BossService:     boss,
		RouletteService: roulette,
	}
}

type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *model.Profile) error
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	ApplyReward(ctx context.Context, userID string, xp, credits, tickets int, category *model.TaskCategory) error
	UpdateStreak(ctx context.Context, userID string, streak int, activeDate time.Time) error
	SetArchetype(ctx context.Context, userID string, archetypeID string) error
	ConsumeTicket(ctx context.Context, userID string) error
	AddTickets(ctx context.Context, userID string, amount int) error
	SpendCredits(ctx context.Context, userID string, amount int) error
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, taskID uuid.UUID) (*model.Task, error)
	ListTasksForDate(ctx context.Context, userID string, date time.Time) ([]*model.Task, error)
	MarkTaskCompleted(ctx context.Context, taskID uuid.UUID, completedAt time.Time) error
	SaveFocusSession(ctx context.Context, session *model.FocusSession) error
}

type EffectRepository interface {
	InsertEffect(ctx context.Context, effect *model.ActiveEffect) error
	ListEffects(ctx context.Context, userID string) ([]*model.ActiveEffect, error)
	DeleteEffect(ctx context.Context, effectID uuid.UUID) error
	DeleteExpiredEffects(ctx context.Context, userID string, now time.Time) error
}

type GoalRepository interface {
	LoadGoals(ctx context.Context, userID string) ([]*model.Goal, error)
	SaveGoals(ctx context.Context, userID string, goals []*model.Goal) error
}

type BossRepository interface {
	CreateBossRaid(ctx context.Context, raid *model.BossRaid) error
	GetActiveBossRaid(ctx context.Context) (*model.BossRaid, error)
	GetBossRaid(ctx context.Context, raidID uuid.UUID) (*model.BossRaid, error)
	ApplyDamage(ctx context.Context, raidID uuid.UUID, userID string, damage, taskIncrement, focusMinutes int, now time.Time) (newHP int, defeated bool, err error)
	GetContribution(ctx context.Context, raidID uuid.UUID, userID string) (*model.Contribution, error)
	ListTopContributions(ctx context.Context, raidID uuid.UUID, limit int) ([]*model.Contribution, error)
	MarkRewardClaimed(ctx context.Context, raidID uuid.UUID, userID string, damageDealt int, now time.Time) error
	MarkRaidEscaped(ctx context.Context, now time.Time) (int64, error)
}

type LedgerRepository interface {
	AppendLedger(ctx context.Context, entry *model.LedgerEntry) error
	ListLedger(ctx context.Context, userID string, limit int) ([]*model.LedgerEntry, error)
}

type WeeklyXPRepository interface {
	AddWeeklyXP(ctx context.Context, userID string, weekStart time.Time, amount int) error
	GetWeeklyXP(ctx context.Context, userID string, weekStart time.Time) (int, error)
	TopWeekly(ctx context.Context, weekStart time.Time, limit int) ([]*model.LeaderboardEntry, error)
}
