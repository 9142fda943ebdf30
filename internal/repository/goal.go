package repository

import (
	"context"
	"fmt"
	"time"

	"dopamind/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type goalRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Period      string    `db:"period"`
	ReqType     string    `db:"req_type"`
	ReqTarget   int       `db:"req_target"`
	ReqCategory *string   `db:"req_category"`
	RewardXP    int       `db:"reward_xp"`
	RewardCreds int       `db:"reward_credits"`
	RewardTix   int       `db:"reward_tickets"`
	Progress    int       `db:"progress"`
	Completed   bool      `db:"completed"`
	ExpiresAt   time.Time `db:"expires_at"`
}

func (g goalRow) toModel() *model.Goal {
	goal := &model.Goal{
		ID:          g.ID,
		UserID:      g.UserID,
		Title:       g.Title,
		Description: g.Description,
		Period:      model.GoalPeriod(g.Period),
		Requirement: model.GoalRequirement{
			Type:   model.GoalType(g.ReqType),
			Target: g.ReqTarget,
		},
		Reward: model.GoalReward{
			XP:      g.RewardXP,
			Credits: g.RewardCreds,
			Tickets: g.RewardTix,
		},
		Progress:  g.Progress,
		Completed: g.Completed,
		ExpiresAt: g.ExpiresAt,
	}
	if g.ReqCategory != nil {
		category := model.TaskCategory(*g.ReqCategory)
		goal.Requirement.Category = &category
	}
	return goal
}

func goalSetMap(goal *model.Goal) map[string]interface{} {
	var category *string
	if goal.Requirement.Category != nil {
		c := string(*goal.Requirement.Category)
		category = &c
	}
	return map[string]interface{}{
		"id":             goal.ID,
		"user_id":        goal.UserID,
		"title":          goal.Title,
		"description":    goal.Description,
		"period":         string(goal.Period),
		"req_type":       string(goal.Requirement.Type),
		"req_target":     goal.Requirement.Target,
		"req_category":   category,
		"reward_xp":      goal.Reward.XP,
		"reward_credits": goal.Reward.Credits,
		"reward_tickets": goal.Reward.Tickets,
		"progress":       goal.Progress,
		"completed":      goal.Completed,
		"expires_at":     goal.ExpiresAt,
	}
}

func (r *Repository) LoadGoals(ctx context.Context, userID string) ([]*model.Goal, error) {
	var rows []goalRow

	query, args, err := squirrel.
		Select("id", "user_id", "title", "description", "period", "req_type",
			"req_target", "req_category", "reward_xp", "reward_credits",
			"reward_tickets", "progress", "completed", "expires_at").
		From("goals").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("period", "id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	goals := make([]*model.Goal, len(rows))
	for i, row := range rows {
		goals[i] = row.toModel()
	}

	return goals, nil
}

// SaveGoals replaces the user's full goal set in one transaction, matching
// the read/replace contract the tracker works against.
func (r *Repository) SaveGoals(ctx context.Context, userID string, goals []*model.Goal) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		deleteQuery, deleteArgs, err := squirrel.
			Delete("goals").
			Where(squirrel.Eq{"user_id": userID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build goals delete query: %w", err)
		}

		_, err = tx.ExecContext(ctx, deleteQuery, deleteArgs...)
		if err != nil {
			return fmt.Errorf("failed to delete goals: %w", err)
		}

		for _, goal := range goals {
			query, args, err := squirrel.
				Insert("goals").
				SetMap(goalSetMap(goal)).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build goal insert query: %w", err)
			}

			_, err = tx.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("failed to insert goal: %w", err)
			}
		}

		return nil
	})
}
