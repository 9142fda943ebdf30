package model

import (
	"time"

	"github.com/google/uuid"
)

// EffectKind is the closed set of time-boxed modifiers an item can grant.
type EffectKind string

const (
	EffectXPBoost      EffectKind = "xp_boost"
	EffectCreditsBoost EffectKind = "credits_boost"
	EffectStreakFreeze EffectKind = "streak_freeze"
	EffectCosmetic     EffectKind = "cosmetic"
)

func (k EffectKind) Valid() bool {
	switch k {
	case EffectXPBoost, EffectCreditsBoost, EffectStreakFreeze, EffectCosmetic:
		return true
	}
	return false
}

// SingleUse reports whether the effect is consumed on use instead of
// expiring naturally.
func (k EffectKind) SingleUse() bool {
	return k == EffectStreakFreeze
}

// ActiveEffect is one live modifier on a user. At most one non-cosmetic
// effect of a given kind may be active at a time.
type ActiveEffect struct {
	ID          uuid.UUID
	UserID      string
	Kind        EffectKind
	ItemName    string
	Multiplier  float64
	ActivatedAt time.Time
	ExpiresAt   time.Time
}

func (e ActiveEffect) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
