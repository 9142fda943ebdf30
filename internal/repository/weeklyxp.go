package repository

import (
	"context"
	"fmt"
	"time"

	"dopamind/internal/model"

	"github.com/redis/go-redis/v9"
)

// WeeklyXPStore accumulates per-user weekly XP in redis, keyed by the Monday
// the week starts on. Keys expire shortly after the week ends, which is what
// makes the league reset itself with no scheduled job.
type WeeklyXPStore struct {
	client *redis.Client
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

func NewWeeklyXPStore(cfg RedisConfig) (*WeeklyXPStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &WeeklyXPStore{client: client}, nil
}

func (s *WeeklyXPStore) Close() error {
	return s.client.Close()
}

const weeklyKeyTTL = 8 * 24 * time.Hour

func weeklyUserKey(userID string, weekStart time.Time) string {
	return fmt.Sprintf("weekly_xp:%s:%s", weekStart.Format("2006-01-02"), userID)
}

func weeklyBoardKey(weekStart time.Time) string {
	return fmt.Sprintf("weekly_board:%s", weekStart.Format("2006-01-02"))
}

// AddWeeklyXP increments both the per-user counter and the leaderboard set
// for the given week.
func (s *WeeklyXPStore) AddWeeklyXP(ctx context.Context, userID string, weekStart time.Time, amount int) error {
	userKey := weeklyUserKey(userID, weekStart)
	boardKey := weeklyBoardKey(weekStart)

	pipe := s.client.TxPipeline()
	pipe.IncrBy(ctx, userKey, int64(amount))
	pipe.Expire(ctx, userKey, weeklyKeyTTL)
	pipe.ZIncrBy(ctx, boardKey, float64(amount), userID)
	pipe.Expire(ctx, boardKey, weeklyKeyTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add weekly xp: %w", err)
	}

	return nil
}

func (s *WeeklyXPStore) GetWeeklyXP(ctx context.Context, userID string, weekStart time.Time) (int, error) {
	result, err := s.client.Get(ctx, weeklyUserKey(userID, weekStart)).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	return result, nil
}

func (s *WeeklyXPStore) TopWeekly(ctx context.Context, weekStart time.Time, limit int) ([]*model.LeaderboardEntry, error) {
	results, err := s.client.ZRevRangeWithScores(ctx, weeklyBoardKey(weekStart), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*model.LeaderboardEntry, len(results))
	for i, z := range results {
		member, _ := z.Member.(string)
		entries[i] = &model.LeaderboardEntry{
			UserID:   member,
			WeeklyXP: int(z.Score),
			Rank:     i + 1,
		}
	}

	return entries, nil
}
