package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"dopamind/internal/model"
	"dopamind/internal/repository"

	"github.com/google/uuid"
)

// DamagePerXP is the fixed conversion ratio: 10 XP deal 1 damage.
const DamagePerXP = 10

// DamageFromXP floors the conversion so partial damage is never dealt.
func DamageFromXP(xpGained int) int {
	if xpGained <= 0 {
		return 0
	}
	return xpGained / DamagePerXP
}

// RaidRewardMultiplier tiers the payout by contribution share of total HP.
func RaidRewardMultiplier(sharePct float64) float64 {
	switch {
	case sharePct >= 10:
		return 2
	case sharePct >= 5:
		return 1.5
	case sharePct >= 1:
		return 1.25
	default:
		return 1
	}
}

// DamageResult reports the outcome of one damage application.
type DamageResult struct {
	NewHP           int
	Defeated        bool
	AlreadyDefeated bool
	DamageDealt     int
}

// BossService coordinates the shared weekly HP pool. The HP decrement is
// atomic at the store level; this layer only decides amounts and payouts.
type BossService struct {
	repo    BossRepository
	profile ProfileRepository
	ledger  LedgerRepository
	now     func() time.Time
}

func NewBossService(repo BossRepository, profile ProfileRepository, ledger LedgerRepository) *BossService {
	return &BossService{
		repo:    repo,
		profile: profile,
		ledger:  ledger,
		now:     time.Now,
	}
}

func (s *BossService) ActiveRaid(ctx context.Context) (*model.BossRaid, error) {
	raid, err := s.repo.GetActiveBossRaid(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRaidNotFound
		}
		return nil, fmt.Errorf("failed to get active raid: %w", err)
	}
	return raid, nil
}

func (s *BossService) Raid(ctx context.Context, raidID uuid.UUID) (*model.BossRaid, error) {
	raid, err := s.repo.GetBossRaid(ctx, raidID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRaidNotFound
		}
		return nil, fmt.Errorf("failed to get raid: %w", err)
	}
	return raid, nil
}

func (s *BossService) Contribution(ctx context.Context, raidID uuid.UUID, userID string) (*model.Contribution, error) {
	contribution, err := s.repo.GetContribution(ctx, raidID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoContribution
		}
		return nil, err
	}
	return contribution, nil
}

func (s *BossService) TopContributors(ctx context.Context, raidID uuid.UUID, limit int) ([]*model.Contribution, error) {
	return s.repo.ListTopContributions(ctx, raidID, limit)
}

// DealDamage converts an XP gain into damage and applies it. Damage against
// an already defeated raid is a successful no-op, since concurrent hits near
// defeat are expected.
func (s *BossService) DealDamage(ctx context.Context, raidID uuid.UUID, userID string, xpGained, taskIncrement, focusMinutes int) (*DamageResult, error) {
	damage := DamageFromXP(xpGained)

	// A zero-damage hit still goes through the store so the contribution's
	// task and focus counters accumulate.
	newHP, defeated, err := s.repo.ApplyDamage(ctx, raidID, userID, damage, taskIncrement, focusMinutes, s.now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRaidDefeated):
			return &DamageResult{NewHP: 0, Defeated: true, AlreadyDefeated: true}, nil
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrRaidNotFound
		default:
			return nil, fmt.Errorf("failed to apply damage: %w", err)
		}
	}

	return &DamageResult{
		NewHP:       newHP,
		Defeated:    defeated,
		DamageDealt: damage,
	}, nil
}

// ClaimReward pays out a defeated raid, scaled by the claimer's share of the
// boss HP. The claim ledger makes the payout one-shot per user.
func (s *BossService) ClaimReward(ctx context.Context, raidID uuid.UUID, userID string) (*model.RaidReward, error) {
	raid, err := s.Raid(ctx, raidID)
	if err != nil {
		return nil, err
	}
	if raid.Status != model.RaidDefeated {
		return nil, ErrRaidNotDefeated
	}

	contribution, err := s.Contribution(ctx, raidID, userID)
	if err != nil {
		return nil, err
	}
	if contribution.DamageDealt == 0 {
		return nil, ErrNoContribution
	}

	sharePct := float64(contribution.DamageDealt) / float64(raid.TotalHP) * 100
	multiplier := RaidRewardMultiplier(sharePct)

	reward := &model.RaidReward{
		XP:          int(math.Floor(float64(raid.RewardXP) * multiplier)),
		Credits:     int(math.Floor(float64(raid.RewardCredits) * multiplier)),
		Tickets:     raid.RewardTickets,
		Multiplier:  multiplier,
		SharePct:    sharePct,
		DamageDealt: contribution.DamageDealt,
	}

	// Record the claim before paying out so a concurrent duplicate claim
	// cannot double-pay.
	err = s.repo.MarkRewardClaimed(ctx, raidID, userID, contribution.DamageDealt, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyClaimed) {
			return nil, ErrRewardAlreadyClaimed
		}
		return nil, fmt.Errorf("failed to mark reward claimed: %w", err)
	}

	if err := s.profile.ApplyReward(ctx, userID, reward.XP, reward.Credits, reward.Tickets, nil); err != nil {
		return nil, fmt.Errorf("failed to apply raid reward: %w", err)
	}

	entry := &model.LedgerEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Source:    fmt.Sprintf("boss_raid:%s", raidID),
		Amount:    reward.XP,
		Breakdown: []string{fmt.Sprintf("raid_reward:%+d", reward.XP), fmt.Sprintf("share:%.1f%%", sharePct)},
		CreatedAt: s.now().UTC(),
	}
	if err := s.ledger.AppendLedger(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append raid ledger entry: %w", err)
	}

	return reward, nil
}

// RotateWeekly escapes an unfinished raid past its window and spawns the new
// week's boss. Run from the weekly cron in cmd/app.
func (s *BossService) RotateWeekly(ctx context.Context, name, description string, totalHP, rewardXP, rewardCredits, rewardTickets int) (*model.BossRaid, error) {
	now := s.now()

	if _, err := s.repo.MarkRaidEscaped(ctx, now.UTC()); err != nil {
		return nil, fmt.Errorf("failed to close expired raids: %w", err)
	}

	if existing, err := s.repo.GetActiveBossRaid(ctx); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check active raid: %w", err)
	}

	weekStart := StartOfWeek(now)
	raid := &model.BossRaid{
		ID:            uuid.New(),
		Name:          name,
		Description:   description,
		TotalHP:       totalHP,
		CurrentHP:     totalHP,
		Status:        model.RaidActive,
		WeekStart:     weekStart,
		WeekEnd:       weekStart.AddDate(0, 0, 7),
		RewardXP:      rewardXP,
		RewardCredits: rewardCredits,
		RewardTickets: rewardTickets,
		CreatedAt:     now.UTC(),
	}

	if err := s.repo.CreateBossRaid(ctx, raid); err != nil {
		return nil, fmt.Errorf("failed to create raid: %w", err)
	}

	return raid, nil
}
