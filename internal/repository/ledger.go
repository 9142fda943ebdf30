package repository

import (
	"context"
	"time"

	"dopamind/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ledgerRow struct {
	ID        uuid.UUID      `db:"id"`
	UserID    string         `db:"user_id"`
	Source    string         `db:"source"`
	Amount    int            `db:"amount"`
	Breakdown pq.StringArray `db:"breakdown"`
	CreatedAt time.Time      `db:"created_at"`
}

func (l ledgerRow) toModel() *model.LedgerEntry {
	return &model.LedgerEntry{
		ID:        l.ID,
		UserID:    l.UserID,
		Source:    l.Source,
		Amount:    l.Amount,
		Breakdown: []string(l.Breakdown),
		CreatedAt: l.CreatedAt,
	}
}

func (r *Repository) AppendLedger(ctx context.Context, entry *model.LedgerEntry) error {
	query, args, err := squirrel.
		Insert("reward_ledger").
		SetMap(map[string]interface{}{
			"id":         entry.ID,
			"user_id":    entry.UserID,
			"source":     entry.Source,
			"amount":     entry.Amount,
			"breakdown":  pq.StringArray(entry.Breakdown),
			"created_at": entry.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *Repository) ListLedger(ctx context.Context, userID string, limit int) ([]*model.LedgerEntry, error) {
	var rows []ledgerRow

	query, args, err := squirrel.
		Select("id", "user_id", "source", "amount", "breakdown", "created_at").
		From("reward_ledger").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
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

	entries := make([]*model.LedgerEntry, len(rows))
	for i, row := range rows {
		entries[i] = row.toModel()
	}

	return entries, nil
}
