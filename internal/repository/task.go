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
)

type taskRow struct {
	ID               uuid.UUID  `db:"id"`
	UserID           string     `db:"user_id"`
	Title            string     `db:"title"`
	Category         string     `db:"category"`
	XP               int        `db:"xp"`
	IsCompleted      bool       `db:"is_completed"`
	RequiresEvidence bool       `db:"requires_evidence"`
	GrantsTicket     bool       `db:"grants_ticket"`
	Date             time.Time  `db:"date"`
	CompletedAt      *time.Time `db:"completed_at"`
}

func (t taskRow) toModel() *model.Task {
	return &model.Task{
		ID:               t.ID,
		UserID:           t.UserID,
		Title:            t.Title,
		Category:         model.TaskCategory(t.Category),
		XP:               t.XP,
		IsCompleted:      t.IsCompleted,
		RequiresEvidence: t.RequiresEvidence,
		GrantsTicket:     t.GrantsTicket,
		Date:             t.Date,
		CompletedAt:      t.CompletedAt,
	}
}

func (r *Repository) CreateTask(ctx context.Context, task *model.Task) error {
	query, args, err := squirrel.
		Insert("tasks").
		SetMap(map[string]interface{}{
			"id":                task.ID,
			"user_id":           task.UserID,
			"title":             task.Title,
			"category":          string(task.Category),
			"xp":                task.XP,
			"is_completed":      false,
			"requires_evidence": task.RequiresEvidence,
			"grants_ticket":     task.GrantsTicket,
			"date":              task.Date,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build task insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	return nil
}

func (r *Repository) GetTask(ctx context.Context, taskID uuid.UUID) (*model.Task, error) {
	var row taskRow

	query, args, err := squirrel.
		Select("id", "user_id", "title", "category", "xp", "is_completed",
			"requires_evidence", "grants_ticket", "date", "completed_at").
		From("tasks").
		Where(squirrel.Eq{"id": taskID}).
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

func (r *Repository) ListTasksForDate(ctx context.Context, userID string, date time.Time) ([]*model.Task, error) {
	var rows []taskRow

	query, args, err := squirrel.
		Select("id", "user_id", "title", "category", "xp", "is_completed",
			"requires_evidence", "grants_ticket", "date", "completed_at").
		From("tasks").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"date": date}).
		OrderBy("category", "title").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	tasks := make([]*model.Task, len(rows))
	for i, row := range rows {
		tasks[i] = row.toModel()
	}

	return tasks, nil
}

// MarkTaskCompleted flips the completion flag once. A second call for the
// same task reports ErrAlreadyCompleted.
func (r *Repository) MarkTaskCompleted(ctx context.Context, taskID uuid.UUID, completedAt time.Time) error {
	query, args, err := squirrel.
		Update("tasks").
		SetMap(map[string]interface{}{
			"is_completed": true,
			"completed_at": completedAt,
		}).
		Where(squirrel.Eq{"id": taskID}).
		Where(squirrel.Eq{"is_completed": false}).
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
		return ErrAlreadyCompleted
	}

	return nil
}

func (r *Repository) SaveFocusSession(ctx context.Context, session *model.FocusSession) error {
	query, args, err := squirrel.
		Insert("focus_sessions").
		SetMap(map[string]interface{}{
			"id":           session.ID,
			"user_id":      session.UserID,
			"minutes":      session.Minutes,
			"xp_earned":    session.XPEarned,
			"started_at":   session.StartedAt,
			"completed_at": session.CompletedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build focus session insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert focus session: %w", err)
	}

	return nil
}
