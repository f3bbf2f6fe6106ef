package domain

import (
	"time"

	"github.com/google/uuid"
)

type SupportSender string

const (
	SupportSenderCustomer SupportSender = "customer"
	SupportSenderAdmin    SupportSender = "admin"
)

// SupportMessage is one entry in the append-only per-session chat log.
// Messages are never edited or deleted.
type SupportMessage struct {
	ID        int64         `db:"id"`
	SessionID uuid.UUID     `db:"session_id"`
	Sender    SupportSender `db:"sender"`
	Body      string        `db:"body"`
	CreatedAt time.Time     `db:"created_at"`
}
