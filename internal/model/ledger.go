package model

import (
	"time"

	"github.com/google/uuid"
)

// LedgerEntry records one reward-granting event. Entries double as the
// duplicate-claim guard for one-shot rewards (boss raids, goal completions).
type LedgerEntry struct {
	ID        uuid.UUID
	UserID    string
	Source    string
	Amount    int
	Breakdown []string
	CreatedAt time.Time
}
