package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dopamind/internal/model"

	"github.com/Masterminds/squirrel"
)

type profileRow struct {
	UserID           string     `db:"user_id"`
	Username         string     `db:"username"`
	TotalXP          int        `db:"total_xp"`
	Credits          int        `db:"credits"`
	Streak           int        `db:"streak"`
	RouletteTickets  int        `db:"roulette_tickets"`
	ArchetypeID      string     `db:"archetype_id"`
	StatStr          int        `db:"stat_str"`
	StatInt          int        `db:"stat_int"`
	StatFoc          int        `db:"stat_foc"`
	StatSpi          int        `db:"stat_spi"`
	StatCha          int        `db:"stat_cha"`
	LastActiveDate   *time.Time `db:"last_active_date"`
	RegistrationDate time.Time  `db:"registration_date"`
}

func (p profileRow) toModel() *model.Profile {
	return &model.Profile{
		UserID:          p.UserID,
		Username:        p.Username,
		TotalXP:         p.TotalXP,
		Credits:         p.Credits,
		Streak:          p.Streak,
		RouletteTickets: p.RouletteTickets,
		ArchetypeID:     p.ArchetypeID,
		Stats: model.Stats{
			Strength:  p.StatStr,
			Intellect: p.StatInt,
			Focus:     p.StatFoc,
			Spirit:    p.StatSpi,
			Charisma:  p.StatCha,
		},
		LastActiveDate:   p.LastActiveDate,
		RegistrationDate: p.RegistrationDate,
	}
}

func (r *Repository) CreateProfile(ctx context.Context, profile *model.Profile) error {
	query, args, err := squirrel.
		Insert("profiles").
		SetMap(map[string]interface{}{
			"user_id":           profile.UserID,
			"username":          profile.Username,
			"total_xp":          profile.TotalXP,
			"credits":           profile.Credits,
			"streak":            profile.Streak,
			"roulette_tickets":  profile.RouletteTickets,
			"archetype_id":      profile.ArchetypeID,
			"registration_date": profile.RegistrationDate,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build profile insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	return nil
}

func (r *Repository) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var row profileRow

	query, args, err := squirrel.
		Select("user_id", "username", "total_xp", "credits", "streak",
			"roulette_tickets", "archetype_id", "stat_str", "stat_int",
			"stat_foc", "stat_spi", "stat_cha", "last_active_date",
			"registration_date").
		From("profiles").
		Where(squirrel.Eq{"user_id": userID}).
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

// ApplyReward atomically increments XP, credits, tickets and the category
// stat counter in a single update so a partially applied reward can never be
// observed.
func (r *Repository) ApplyReward(ctx context.Context, userID string, xp, credits, tickets int, category *model.TaskCategory) error {
	setMap := map[string]interface{}{
		"total_xp": squirrel.Expr("total_xp + ?", xp),
		"credits":  squirrel.Expr("credits + ?", credits),
	}
	if tickets != 0 {
		setMap["roulette_tickets"] = squirrel.Expr("roulette_tickets + ?", tickets)
	}
	if category != nil {
		setMap[statColumn(*category)] = squirrel.Expr(statColumn(*category) + " + 1")
	}

	query, args, err := squirrel.
		Update("profiles").
		SetMap(setMap).
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build reward update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to apply reward: %w", err)
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

func statColumn(category model.TaskCategory) string {
	switch category {
	case model.CategoryBody:
		return "stat_str"
	case model.CategoryMind:
		return "stat_int"
	case model.CategoryWork:
		return "stat_foc"
	case model.CategorySpirit:
		return "stat_spi"
	case model.CategoryLife:
		return "stat_cha"
	}
	return "stat_str"
}

func (r *Repository) UpdateStreak(ctx context.Context, userID string, streak int, activeDate time.Time) error {
	query, args, err := squirrel.
		Update("profiles").
		SetMap(map[string]interface{}{
			"streak":           streak,
			"last_active_date": activeDate,
		}).
		Where(squirrel.Eq{"user_id": userID}).
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

func (r *Repository) SetArchetype(ctx context.Context, userID string, archetypeID string) error {
	query, args, err := squirrel.
		Update("profiles").
		Set("archetype_id", archetypeID).
		Where(squirrel.Eq{"user_id": userID}).
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

// ConsumeTicket decrements the ticket balance only when it is positive, so
// two concurrent spins cannot both consume the last ticket.
func (r *Repository) ConsumeTicket(ctx context.Context, userID string) error {
	query, args, err := squirrel.
		Update("profiles").
		Set("roulette_tickets", squirrel.Expr("roulette_tickets - 1")).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Gt{"roulette_tickets": 0}).
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
		return ErrNoTickets
	}

	return nil
}

func (r *Repository) AddTickets(ctx context.Context, userID string, amount int) error {
	query, args, err := squirrel.
		Update("profiles").
		Set("roulette_tickets", squirrel.Expr("roulette_tickets + ?", amount)).
		Where(squirrel.Eq{"user_id": userID}).
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

// SpendCredits decrements credits only when the balance covers the price.
func (r *Repository) SpendCredits(ctx context.Context, userID string, amount int) error {
	query, args, err := squirrel.
		Update("profiles").
		Set("credits", squirrel.Expr("credits - ?", amount)).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"credits": amount}).
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
