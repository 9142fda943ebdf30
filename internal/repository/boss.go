package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dopamind/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type bossRaidRow struct {
	ID            uuid.UUID `db:"id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	TotalHP       int       `db:"total_hp"`
	CurrentHP     int       `db:"current_hp"`
	Status        string    `db:"status"`
	WeekStart     time.Time `db:"week_start"`
	WeekEnd       time.Time `db:"week_end"`
	RewardXP      int       `db:"reward_xp"`
	RewardCredits int       `db:"reward_credits"`
	RewardTickets int       `db:"reward_tickets"`
	Participants  int       `db:"participants"`
	CreatedAt     time.Time `db:"created_at"`
}

func (b bossRaidRow) toModel() *model.BossRaid {
	return &model.BossRaid{
		ID:            b.ID,
		Name:          b.Name,
		Description:   b.Description,
		TotalHP:       b.TotalHP,
		CurrentHP:     b.CurrentHP,
		Status:        model.RaidStatus(b.Status),
		WeekStart:     b.WeekStart,
		WeekEnd:       b.WeekEnd,
		RewardXP:      b.RewardXP,
		RewardCredits: b.RewardCredits,
		RewardTickets: b.RewardTickets,
		Participants:  b.Participants,
		CreatedAt:     b.CreatedAt,
	}
}

type contributionRow struct {
	RaidID             uuid.UUID `db:"boss_raid_id"`
	UserID             string    `db:"user_id"`
	DamageDealt        int       `db:"damage_dealt"`
	TasksCompleted     int       `db:"tasks_completed"`
	FocusMinutes       int       `db:"focus_minutes"`
	LastContributionAt time.Time `db:"last_contribution_at"`
}

func (c contributionRow) toModel() *model.Contribution {
	return &model.Contribution{
		RaidID:             c.RaidID,
		UserID:             c.UserID,
		DamageDealt:        c.DamageDealt,
		TasksCompleted:     c.TasksCompleted,
		FocusMinutes:       c.FocusMinutes,
		LastContributionAt: c.LastContributionAt,
	}
}

func (r *Repository) CreateBossRaid(ctx context.Context, raid *model.BossRaid) error {
	query, args, err := squirrel.
		Insert("boss_raids").
		SetMap(map[string]interface{}{
			"id":             raid.ID,
			"name":           raid.Name,
			"description":    raid.Description,
			"total_hp":       raid.TotalHP,
			"current_hp":     raid.CurrentHP,
			"status":         string(raid.Status),
			"week_start":     raid.WeekStart,
			"week_end":       raid.WeekEnd,
			"reward_xp":      raid.RewardXP,
			"reward_credits": raid.RewardCredits,
			"reward_tickets": raid.RewardTickets,
			"created_at":     raid.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build boss raid insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert boss raid: %w", err)
	}

	return nil
}

func (r *Repository) GetActiveBossRaid(ctx context.Context) (*model.BossRaid, error) {
	var row bossRaidRow

	query, args, err := squirrel.
		Select("b.id", "b.name", "b.description", "b.total_hp", "b.current_hp",
			"b.status", "b.week_start", "b.week_end", "b.reward_xp",
			"b.reward_credits", "b.reward_tickets", "b.created_at",
			"count(c.user_id) AS participants").
		From("boss_raids b").
		LeftJoin("boss_raid_contributions c ON c.boss_raid_id = b.id").
		Where(squirrel.Eq{"b.status": string(model.RaidActive)}).
		GroupBy("b.id").
		OrderBy("b.created_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel(), nil
}

func (r *Repository) GetBossRaid(ctx context.Context, raidID uuid.UUID) (*model.BossRaid, error) {
	var row bossRaidRow

	query, args, err := squirrel.
		Select("b.id", "b.name", "b.description", "b.total_hp", "b.current_hp",
			"b.status", "b.week_start", "b.week_end", "b.reward_xp",
			"b.reward_credits", "b.reward_tickets", "b.created_at",
			"count(c.user_id) AS participants").
		From("boss_raids b").
		LeftJoin("boss_raid_contributions c ON c.boss_raid_id = b.id").
		Where(squirrel.Eq{"b.id": raidID}).
		GroupBy("b.id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel(), nil
}

// ApplyDamage is the atomic read-modify-write for the shared HP pool. The
// decrement, the contribution upsert and the defeat flip happen in one
// transaction; the HP row is locked so concurrent callers serialize.
func (r *Repository) ApplyDamage(ctx context.Context, raidID uuid.UUID, userID string, damage, taskIncrement, focusMinutes int, now time.Time) (newHP int, defeated bool, err error) {
	err = r.Transaction(ctx, func(tx *sqlx.Tx) error {
		var raid struct {
			CurrentHP int    `db:"current_hp"`
			Status    string `db:"status"`
		}

		lockQuery, lockArgs, err := squirrel.
			Select("current_hp", "status").
			From("boss_raids").
			Where(squirrel.Eq{"id": raidID}).
			Suffix("FOR UPDATE").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		err = tx.GetContext(ctx, &raid, lockQuery, lockArgs...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		if raid.Status != string(model.RaidActive) {
			return ErrRaidDefeated
		}

		applied := damage
		if applied > raid.CurrentHP {
			applied = raid.CurrentHP
		}
		newHP = raid.CurrentHP - applied
		defeated = newHP == 0

		setMap := map[string]interface{}{
			"current_hp": newHP,
		}
		if defeated {
			setMap["status"] = string(model.RaidDefeated)
		}

		updateQuery, updateArgs, err := squirrel.
			Update("boss_raids").
			SetMap(setMap).
			Where(squirrel.Eq{"id": raidID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
		if err != nil {
			return fmt.Errorf("failed to update raid hp: %w", err)
		}

		upsert := `
			INSERT INTO boss_raid_contributions
				(boss_raid_id, user_id, damage_dealt, tasks_completed, focus_minutes, last_contribution_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (boss_raid_id, user_id) DO UPDATE SET
				damage_dealt = boss_raid_contributions.damage_dealt + EXCLUDED.damage_dealt,
				tasks_completed = boss_raid_contributions.tasks_completed + EXCLUDED.tasks_completed,
				focus_minutes = boss_raid_contributions.focus_minutes + EXCLUDED.focus_minutes,
				last_contribution_at = EXCLUDED.last_contribution_at`

		_, err = tx.ExecContext(ctx, upsert, raidID, userID, applied, taskIncrement, focusMinutes, now)
		if err != nil {
			return fmt.Errorf("failed to upsert contribution: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, false, err
	}

	return newHP, defeated, nil
}

func (r *Repository) GetContribution(ctx context.Context, raidID uuid.UUID, userID string) (*model.Contribution, error) {
	var row contributionRow

	query, args, err := squirrel.
		Select("boss_raid_id", "user_id", "damage_dealt", "tasks_completed",
			"focus_minutes", "last_contribution_at").
		From("boss_raid_contributions").
		Where(squirrel.Eq{"boss_raid_id": raidID, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel(), nil
}

func (r *Repository) ListTopContributions(ctx context.Context, raidID uuid.UUID, limit int) ([]*model.Contribution, error) {
	var rows []contributionRow

	query, args, err := squirrel.
		Select("boss_raid_id", "user_id", "damage_dealt", "tasks_completed",
			"focus_minutes", "last_contribution_at").
		From("boss_raid_contributions").
		Where(squirrel.Eq{"boss_raid_id": raidID}).
		OrderBy("damage_dealt DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	contributions := make([]*model.Contribution, len(rows))
	for i, row := range rows {
		contributions[i] = row.toModel()
	}

	return contributions, nil
}

// MarkRewardClaimed records a one-shot claim. The primary key on
// (boss_raid_id, user_id) turns a second claim into ErrAlreadyClaimed.
func (r *Repository) MarkRewardClaimed(ctx context.Context, raidID uuid.UUID, userID string, damageDealt int, now time.Time) error {
	query, args, err := squirrel.
		Insert("boss_raid_claims").
		SetMap(map[string]interface{}{
			"boss_raid_id": raidID,
			"user_id":      userID,
			"damage_dealt": damageDealt,
			"claimed_at":   now,
		}).
		Suffix("ON CONFLICT (boss_raid_id, user_id) DO NOTHING").
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
		return ErrAlreadyClaimed
	}

	return nil
}

// MarkRaidEscaped closes an active raid whose window ended before defeat.
func (r *Repository) MarkRaidEscaped(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := squirrel.
		Update("boss_raids").
		Set("status", string(model.RaidEscaped)).
		Where(squirrel.Eq{"status": string(model.RaidActive)}).
		Where(squirrel.Lt{"week_end": now}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
