package repository

import (
	"context"
	"fmt"
	"time"

	"dopamind/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type effectRow struct {
	ID          uuid.UUID `db:"id"`
	UserID      string    `db:"user_id"`
	Kind        string    `db:"kind"`
	ItemName    string    `db:"item_name"`
	Multiplier  float64   `db:"multiplier"`
	ActivatedAt time.Time `db:"activated_at"`
	ExpiresAt   time.Time `db:"expires_at"`
}

func (e effectRow) toModel() *model.ActiveEffect {
	return &model.ActiveEffect{
		ID:          e.ID,
		UserID:      e.UserID,
		Kind:        model.EffectKind(e.Kind),
		ItemName:    e.ItemName,
		Multiplier:  e.Multiplier,
		ActivatedAt: e.ActivatedAt,
		ExpiresAt:   e.ExpiresAt,
	}
}

func (r *Repository) InsertEffect(ctx context.Context, effect *model.ActiveEffect) error {
	query, args, err := squirrel.
		Insert("active_effects").
		SetMap(map[string]interface{}{
			"id":           effect.ID,
			"user_id":      effect.UserID,
			"kind":         string(effect.Kind),
			"item_name":    effect.ItemName,
			"multiplier":   effect.Multiplier,
			"activated_at": effect.ActivatedAt,
			"expires_at":   effect.ExpiresAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build effect insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert effect: %w", err)
	}

	return nil
}

func (r *Repository) ListEffects(ctx context.Context, userID string) ([]*model.ActiveEffect, error) {
	var rows []effectRow

	query, args, err := squirrel.
		Select("id", "user_id", "kind", "item_name", "multiplier",
			"activated_at", "expires_at").
		From("active_effects").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("activated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	effects := make([]*model.ActiveEffect, len(rows))
	for i, row := range rows {
		effects[i] = row.toModel()
	}

	return effects, nil
}

func (r *Repository) DeleteEffect(ctx context.Context, effectID uuid.UUID) error {
	query, args, err := squirrel.
		Delete("active_effects").
		Where(squirrel.Eq{"id": effectID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteExpiredEffects prunes effects whose expiry is behind now. Called on
// every read so expiry needs no background timer.
func (r *Repository) DeleteExpiredEffects(ctx context.Context, userID string, now time.Time) error {
	query, args, err := squirrel.
		Delete("active_effects").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Lt{"expires_at": now}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}
