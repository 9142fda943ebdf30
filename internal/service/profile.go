package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dopamind/internal/model"
	"dopamind/internal/repository"

	"github.com/google/uuid"
)

// FocusXPPerMinute is the base rate a finished focus block earns before the
// multiplier pipeline.
const FocusXPPerMinute = 2

// CompletionResult is the settled outcome of one task completion, returned
// only after every fan-out update has been applied.
type CompletionResult struct {
	Task           *model.Task
	Reward         *Reward
	PerfectDay     bool
	CompletedGoals []*model.Goal
	BossDamage     *DamageResult
}

// ProfileService owns the profile aggregate and is the single entry point
// for reward-granting actions. A task completion computes the reward, applies
// it, then fans out to goals, the weekly league accumulator and the boss
// raid before it returns, so callers always observe a consistent post-reward
// state.
type ProfileService struct {
	profiles   ProfileRepository
	tasks      TaskRepository
	ledger     LedgerRepository
	calculator *RewardCalculator
	effects    *EffectService
	goals      *GoalService
	league     *LeagueService
	boss       *BossService
	now        func() time.Time
}

func NewProfileService(
	profiles ProfileRepository,
	tasks TaskRepository,
	ledger LedgerRepository,
	calculator *RewardCalculator,
	effects *EffectService,
	goals *GoalService,
	league *LeagueService,
	boss *BossService,
) *ProfileService {
	return &ProfileService{
		profiles:   profiles,
		tasks:      tasks,
		ledger:     ledger,
		calculator: calculator,
		effects:    effects,
		goals:      goals,
		league:     league,
		boss:       boss,
		now:        time.Now,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) RegisterProfile(ctx context.Context, userID, username string) (*model.Profile, error) {
	profile := &model.Profile{
		UserID:           userID,
		Username:         username,
		ArchetypeID:      string(model.ArchetypeHybrid),
		RegistrationDate: s.now().UTC(),
	}
	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) SelectArchetype(ctx context.Context, userID string, archetypeID model.ArchetypeID) error {
	// Unknown ids are stored as hybrid rather than rejected, mirroring the
	// resolver's fallback.
	archetype := ArchetypeByID(archetypeID)
	err := s.profiles.SetArchetype(ctx, userID, string(archetype.ID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to set archetype: %w", err)
	}
	return nil
}

func (s *ProfileService) TasksForToday(ctx context.Context, userID string) ([]*model.Task, error) {
	return s.tasks.ListTasksForDate(ctx, userID, StartOfDay(s.now()))
}

func (s *ProfileService) CreateTask(ctx context.Context, userID, title string, category model.TaskCategory, xp int, requiresEvidence, grantsTicket bool) (*model.Task, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	task := &model.Task{
		ID:               uuid.New(),
		UserID:           userID,
		Title:            title,
		Category:         category,
		XP:               xp,
		RequiresEvidence: requiresEvidence,
		GrantsTicket:     grantsTicket,
		Date:             StartOfDay(s.now()),
	}
	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// CompleteTask settles one task: mark completed, compute the reward through
// the multiplier pipeline, apply it, then fan out. Completing an already
// completed task is rejected, never double-counted.
func (s *ProfileService) CompleteTask(ctx context.Context, userID string, taskID uuid.UUID) (*CompletionResult, error) {
	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task.UserID != userID {
		return nil, ErrTaskNotFound
	}
	if task.IsCompleted {
		return nil, ErrTaskAlreadyCompleted
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.tasks.MarkTaskCompleted(ctx, taskID, now.UTC()); err != nil {
		if errors.Is(err, repository.ErrAlreadyCompleted) {
			return nil, ErrTaskAlreadyCompleted
		}
		return nil, fmt.Errorf("failed to mark task completed: %w", err)
	}
	task.IsCompleted = true
	completedAt := now.UTC()
	task.CompletedAt = &completedAt

	// Perfect day check counts this task as done.
	todays, err := s.tasks.ListTasksForDate(ctx, userID, StartOfDay(now))
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	perfectDay := len(todays) > 0
	for _, t := range todays {
		if !t.IsCompleted && t.ID != taskID {
			perfectDay = false
			break
		}
	}

	reward, err := s.calculator.ComputeReward(ctx, userID, RewardInput{
		BaseXP:      task.XP,
		BaseCredits: task.XP / 10,
		Category:    task.Category,
		ArchetypeID: model.ArchetypeID(profile.ArchetypeID),
		PerfectDay:  perfectDay,
	})
	if err != nil {
		return nil, err
	}

	tickets := 0
	if task.GrantsTicket {
		tickets = 1
	}

	if err := s.profiles.ApplyReward(ctx, userID, reward.XP, reward.Credits, tickets, &task.Category); err != nil {
		return nil, fmt.Errorf("failed to apply reward: %w", err)
	}

	entry := &model.LedgerEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Source:    fmt.Sprintf("task:%s", task.ID),
		Amount:    reward.XP,
		Breakdown: reward.Breakdown,
		CreatedAt: now.UTC(),
	}
	if err := s.ledger.AppendLedger(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	result := &CompletionResult{
		Task:       task,
		Reward:     reward,
		PerfectDay: perfectDay,
	}

	if err := s.fanOut(ctx, userID, reward.XP, &task.Category, 1, 0, result); err != nil {
		return nil, err
	}

	return result, nil
}

// SettleFocusSession records a finished focus block and grants its XP
// through the same pipeline, with no perfect-day bonus.
func (s *ProfileService) SettleFocusSession(ctx context.Context, userID string, minutes int, startedAt time.Time) (*CompletionResult, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("focus session must be longer than zero minutes")
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	reward, err := s.calculator.ComputeReward(ctx, userID, RewardInput{
		BaseXP:      minutes * FocusXPPerMinute,
		BaseCredits: minutes * FocusXPPerMinute / 10,
		Category:    model.CategoryWork,
		ArchetypeID: model.ArchetypeID(profile.ArchetypeID),
	})
	if err != nil {
		return nil, err
	}

	session := &model.FocusSession{
		ID:          uuid.New(),
		UserID:      userID,
		Minutes:     minutes,
		XPEarned:    reward.XP,
		StartedAt:   startedAt,
		CompletedAt: now.UTC(),
	}
	if err := s.tasks.SaveFocusSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save focus session: %w", err)
	}

	if err := s.profiles.ApplyReward(ctx, userID, reward.XP, reward.Credits, 0, nil); err != nil {
		return nil, fmt.Errorf("failed to apply focus reward: %w", err)
	}

	entry := &model.LedgerEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Source:    fmt.Sprintf("focus:%s", session.ID),
		Amount:    reward.XP,
		Breakdown: reward.Breakdown,
		CreatedAt: now.UTC(),
	}
	if err := s.ledger.AppendLedger(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	result := &CompletionResult{Reward: reward}

	if completed, err := s.goals.OnFocusTime(ctx, userID, minutes); err != nil {
		return nil, err
	} else {
		result.CompletedGoals = append(result.CompletedGoals, completed...)
	}

	if err := s.fanOut(ctx, userID, reward.XP, nil, 0, minutes, result); err != nil {
		return nil, err
	}

	return result, nil
}

// fanOut pushes one settled XP gain into the independent trackers: goals,
// the weekly league accumulator and the active boss raid.
func (s *ProfileService) fanOut(ctx context.Context, userID string, xp int, category *model.TaskCategory, taskIncrement, focusMinutes int, result *CompletionResult) error {
	if category != nil {
		completed, err := s.goals.OnTaskCompleted(ctx, userID, *category)
		if err != nil {
			return err
		}
		result.CompletedGoals = append(result.CompletedGoals, completed...)
	}

	completed, err := s.goals.OnXPGained(ctx, userID, xp)
	if err != nil {
		return err
	}
	result.CompletedGoals = append(result.CompletedGoals, completed...)

	if err := s.league.AddWeeklyXP(ctx, userID, xp); err != nil {
		return err
	}

	raid, err := s.boss.ActiveRaid(ctx)
	if err != nil {
		if errors.Is(err, ErrRaidNotFound) {
			return nil
		}
		return err
	}

	damage, err := s.boss.DealDamage(ctx, raid.ID, userID, xp, taskIncrement, focusMinutes)
	if err != nil {
		return err
	}
	result.BossDamage = damage

	return nil
}

// AdvanceStreak settles the daily streak on first activity of a day. A gap
// of exactly one missed day consumes a streak freeze when one is active;
// otherwise the streak restarts at one.
func (s *ProfileService) AdvanceStreak(ctx context.Context, userID string) (int, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return 0, err
	}

	today := StartOfDay(s.now())
	streak := profile.Streak

	switch {
	case profile.LastActiveDate == nil:
		streak = 1
	case StartOfDay(*profile.LastActiveDate).Equal(today):
		return streak, nil
	case StartOfDay(*profile.LastActiveDate).Equal(today.AddDate(0, 0, -1)):
		streak++
	case StartOfDay(*profile.LastActiveDate).Equal(today.AddDate(0, 0, -2)):
		frozen, err := s.effects.ConsumeSingleUse(ctx, userID, model.EffectStreakFreeze)
		if err != nil {
			return 0, err
		}
		if frozen {
			streak++
		} else {
			streak = 1
		}
	default:
		streak = 1
	}

	if err := s.profiles.UpdateStreak(ctx, userID, streak, today); err != nil {
		return 0, fmt.Errorf("failed to update streak: %w", err)
	}

	if _, err := s.goals.OnStreakUpdated(ctx, userID, streak); err != nil {
		return 0, err
	}

	return streak, nil
}

func (s *ProfileService) History(ctx context.Context, userID string, limit int) ([]*model.LedgerEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.ledger.ListLedger(ctx, userID, limit)
}

// PurchaseBoost spends credits on a shop item and activates its effect. The
// conditional charge lands first and a failed activation refunds it, so an
// effect can never outlive an unpaid purchase.
func (s *ProfileService) PurchaseBoost(ctx context.Context, userID, itemName string, price int, kind model.EffectKind, multiplier float64, durationHours int) (*model.ActiveEffect, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown effect kind %q", kind)
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.Credits < price {
		return nil, ErrInsufficientCredits
	}

	if err := s.profiles.SpendCredits(ctx, userID, price); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInsufficientCredits
		}
		return nil, fmt.Errorf("failed to spend credits: %w", err)
	}

	effect, err := s.effects.Activate(ctx, userID, kind, itemName, multiplier, durationHours)
	if err != nil {
		if refundErr := s.profiles.ApplyReward(ctx, userID, 0, price, 0, nil); refundErr != nil {
			return nil, fmt.Errorf("failed to refund credits after activation failure: %w", refundErr)
		}
		return nil, err
	}

	return effect, nil
}
