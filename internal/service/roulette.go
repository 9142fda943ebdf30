package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"dopamind/internal/model"
	"dopamind/internal/repository"

	"github.com/google/uuid"
)

// Rand is the random source the wheel draws from. Injectable so tests can
// supply a fixed sequence and assert exact outcomes.
type Rand interface {
	// Float64 returns a uniform number in [0, 1).
	Float64() float64
	// IntN returns a uniform number in [0, n).
	IntN(n int) int
}

type defaultRand struct{}

func (defaultRand) Float64() float64 { return rand.Float64() }
func (defaultRand) IntN(n int) int   { return rand.Intn(n) }

// RouletteRewards is the static challenge wheel: five common, three rare,
// two epic entries.
var RouletteRewards = []model.RouletteReward{
	{ID: "1", Text: "Drink a glass of water", XP: 50, Rarity: model.RarityCommon},
	{ID: "2", Text: "Fix your posture", XP: 50, Rarity: model.RarityCommon},
	{ID: "3", Text: "Breathe deeply for 1 minute", XP: 50, Rarity: model.RarityCommon},
	{ID: "4", Text: "Stretch for 2 minutes", XP: 50, Rarity: model.RarityCommon},
	{ID: "5", Text: "Tidy your desk", XP: 50, Rarity: model.RarityCommon},
	{ID: "6", Text: "Do 10 jumping jacks", XP: 100, Rarity: model.RarityRare},
	{ID: "7", Text: "Read 5 pages of a book", XP: 100, Rarity: model.RarityRare},
	{ID: "8", Text: "Compliment someone right now", XP: 100, Rarity: model.RarityRare},
	{ID: "9", Text: "Meditate for 5 minutes", XP: 200, Rarity: model.RarityEpic},
	{ID: "10", Text: "Do 20 push-ups", XP: 200, Rarity: model.RarityEpic},
}

// RouletteService runs the ticket-gated challenge wheel.
type RouletteService struct {
	profile ProfileRepository
	ledger  LedgerRepository
	rng     Rand
	now     func() time.Time
}

func NewRouletteService(profile ProfileRepository, ledger LedgerRepository, rng Rand) *RouletteService {
	if rng == nil {
		rng = defaultRand{}
	}
	return &RouletteService{
		profile: profile,
		ledger:  ledger,
		rng:     rng,
		now:     time.Now,
	}
}

func poolByRarity(rarity model.Rarity) []model.RouletteReward {
	var pool []model.RouletteReward
	for _, reward := range RouletteRewards {
		if reward.Rarity == rarity {
			pool = append(pool, reward)
		}
	}
	return pool
}

// drawRarity implements the 70/20/10 split across the pools.
func (s *RouletteService) drawRarity() model.Rarity {
	roll := s.rng.Float64() * 100
	switch {
	case roll < 70:
		return model.RarityCommon
	case roll < 90:
		return model.RarityRare
	default:
		return model.RarityEpic
	}
}

// drawBonusTickets is the second, independent weighted draw. Epic always
// grants exactly one ticket.
func (s *RouletteService) drawBonusTickets(rarity model.Rarity) int {
	if rarity == model.RarityEpic {
		return 1
	}

	roll := s.rng.Float64() * 100
	switch {
	case roll < 60:
		return 0
	case roll < 85:
		return 1
	case roll < 95:
		return 2
	default:
		return 3
	}
}

// Spin consumes one ticket and resolves one weighted draw. The ticket
// decrement is conditional at the store, so a spin racing to a zero balance
// is rejected with no reward and no state change.
func (s *RouletteService) Spin(ctx context.Context, userID string) (*model.RouletteOutcome, error) {
	err := s.profile.ConsumeTicket(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoTickets) {
			return nil, ErrInsufficientTickets
		}
		return nil, fmt.Errorf("failed to consume ticket: %w", err)
	}

	rarity := s.drawRarity()
	pool := poolByRarity(rarity)
	reward := pool[s.rng.IntN(len(pool))]
	bonusTickets := s.drawBonusTickets(rarity)

	if err := s.profile.ApplyReward(ctx, userID, reward.XP, 0, 0, nil); err != nil {
		return nil, fmt.Errorf("failed to apply spin reward: %w", err)
	}

	if bonusTickets > 0 {
		if err := s.profile.AddTickets(ctx, userID, bonusTickets); err != nil {
			return nil, fmt.Errorf("failed to credit bonus tickets: %w", err)
		}
	}

	entry := &model.LedgerEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Source:    fmt.Sprintf("roulette:%s", reward.ID),
		Amount:    reward.XP,
		Breakdown: []string{fmt.Sprintf("%s:%+d", reward.Rarity, reward.XP), fmt.Sprintf("bonus_tickets:%d", bonusTickets)},
		CreatedAt: s.now().UTC(),
	}
	if err := s.ledger.AppendLedger(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append roulette ledger entry: %w", err)
	}

	return &model.RouletteOutcome{
		Reward:       reward,
		BonusTickets: bonusTickets,
	}, nil
}
