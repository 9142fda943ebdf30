package service

import (
	"context"
	"fmt"
	"time"

	"dopamind/internal/model"

	"github.com/google/uuid"
)

// EffectService holds the time-boxed modifiers. Expiry is lazy: every read
// prunes dead effects first, there is no background timer.
type EffectService struct {
	repo EffectRepository
	now  func() time.Time
}

func NewEffectService(repo EffectRepository) *EffectService {
	return &EffectService{
		repo: repo,
		now:  time.Now,
	}
}

// GetActive returns the live effect set after pruning expired entries.
func (s *EffectService) GetActive(ctx context.Context, userID string) ([]*model.ActiveEffect, error) {
	now := s.now().UTC()

	if err := s.repo.DeleteExpiredEffects(ctx, userID, now); err != nil {
		return nil, fmt.Errorf("failed to prune expired effects: %w", err)
	}

	effects, err := s.repo.ListEffects(ctx, userID)
	if err != nil {
		return nil, err
	}

	live := effects[:0]
	for _, effect := range effects {
		if !effect.Expired(now) {
			live = append(live, effect)
		}
	}

	return live, nil
}

// Activate creates a new effect. A second non-cosmetic effect of a kind that
// is already live is rejected, protecting against multiplier stacking.
func (s *EffectService) Activate(ctx context.Context, userID string, kind model.EffectKind, itemName string, multiplier float64, durationHours int) (*model.ActiveEffect, error) {
	active, err := s.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	if kind != model.EffectCosmetic {
		for _, effect := range active {
			if effect.Kind == kind {
				return nil, ErrDuplicateEffect
			}
		}
	}

	now := s.now().UTC()
	effect := &model.ActiveEffect{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        kind,
		ItemName:    itemName,
		Multiplier:  multiplier,
		ActivatedAt: now,
		ExpiresAt:   now.Add(time.Duration(durationHours) * time.Hour),
	}

	if err := s.repo.InsertEffect(ctx, effect); err != nil {
		return nil, fmt.Errorf("failed to activate effect: %w", err)
	}

	return effect, nil
}

// ConsumeSingleUse removes one single-use effect of the kind, reporting
// whether one was present.
func (s *EffectService) ConsumeSingleUse(ctx context.Context, userID string, kind model.EffectKind) (bool, error) {
	active, err := s.GetActive(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, effect := range active {
		if effect.Kind != kind {
			continue
		}
		if err := s.repo.DeleteEffect(ctx, effect.ID); err != nil {
			return false, fmt.Errorf("failed to consume effect: %w", err)
		}
		return true, nil
	}

	return false, nil
}
