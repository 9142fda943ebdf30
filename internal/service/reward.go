package service

import (
	"context"
	"fmt"
	"math"

	"dopamind/internal/model"
)

const (
	PerfectDayXPBonus     = 200
	PerfectDayCreditBonus = 50
)

// Reward is the final computed payout of one task or focus session.
type Reward struct {
	XP        int
	Credits   int
	Breakdown []string
}

// RewardInput is everything the pipeline needs besides the live effect set.
type RewardInput struct {
	BaseXP      int
	BaseCredits int
	Category    model.TaskCategory
	ArchetypeID model.ArchetypeID
	PerfectDay  bool
}

type rewardState struct {
	xp      float64
	credits float64
	input   RewardInput
	effects []*model.ActiveEffect
	labels  []string
}

type rewardStep struct {
	name  string
	apply func(*rewardState)
}

// rewardPipeline is the fixed stacking order. Each step works on the running
// value, so reordering it changes totals; it is a constant on purpose.
var rewardPipeline = []rewardStep{
	{name: "archetype", apply: applyArchetypeStep},
	{name: "item_boost", apply: applyItemBoostStep},
	{name: "perfect_day", apply: applyPerfectDayStep},
}

func applyArchetypeStep(s *rewardState) {
	bonus := ResolveArchetypeBonus(s.input.ArchetypeID, s.input.Category)

	before := s.xp
	s.xp = math.Round(s.xp * bonus.XPMultiplier)
	s.credits = math.Round(s.credits * bonus.CreditsMultiplier)

	if delta := int(s.xp - before); delta != 0 {
		s.labels = append(s.labels, fmt.Sprintf("archetype:%+d", delta))
	}
}

func applyItemBoostStep(s *rewardState) {
	for _, effect := range s.effects {
		switch effect.Kind {
		case model.EffectXPBoost:
			before := s.xp
			s.xp = math.Round(s.xp * effect.Multiplier)
			if delta := int(s.xp - before); delta != 0 {
				s.labels = append(s.labels, fmt.Sprintf("xp_boost:%+d", delta))
			}
		case model.EffectCreditsBoost:
			s.credits = math.Round(s.credits * effect.Multiplier)
		}
	}
}

func applyPerfectDayStep(s *rewardState) {
	if !s.input.PerfectDay {
		return
	}
	s.xp += PerfectDayXPBonus
	s.credits += PerfectDayCreditBonus
	s.labels = append(s.labels, fmt.Sprintf("perfect_day:%+d", PerfectDayXPBonus))
}

// RewardCalculator turns a base reward into the final one: archetype
// multiplier, then active item boost, then the flat perfect-day bonus.
// It never mutates state; callers apply the returned delta.
type RewardCalculator struct {
	effects *EffectService
}

func NewRewardCalculator(effects *EffectService) *RewardCalculator {
	return &RewardCalculator{effects: effects}
}

func (c *RewardCalculator) ComputeReward(ctx context.Context, userID string, input RewardInput) (*Reward, error) {
	effects, err := c.effects.GetActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active effects: %w", err)
	}

	state := &rewardState{
		xp:      float64(input.BaseXP),
		credits: float64(input.BaseCredits),
		input:   input,
		effects: effects,
		labels:  []string{fmt.Sprintf("base:%d", input.BaseXP)},
	}

	for _, step := range rewardPipeline {
		step.apply(state)
	}

	return &Reward{
		XP:        int(state.xp),
		Credits:   int(state.credits),
		Breakdown: state.labels,
	}, nil
}
