package model

import (
	"time"

	"github.com/google/uuid"
)

// Task is a single daily checklist item. Tasks are created fresh each day;
// completed instances are never reused.
type Task struct {
	ID               uuid.UUID
	UserID           string
	Title            string
	Category         TaskCategory
	XP               int
	IsCompleted      bool
	RequiresEvidence bool
	GrantsTicket     bool
	Date             time.Time
	CompletedAt      *time.Time
}

// FocusSession is a finished focus block settled through the reward pipeline.
type FocusSession struct {
	ID          uuid.UUID
	UserID      string
	Minutes     int
	XPEarned    int
	StartedAt   time.Time
	CompletedAt time.Time
}
