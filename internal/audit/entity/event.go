package entity

import "time"

type SignInEvent struct {
	ID         int64
	AccountID  int64
	Phone      string // E.164
	NewAccount bool
	ClientIP   string
	OccurredAt time.Time
	CreatedAt  time.Time
}

type SignInEventFilter struct {
	AccountID int64
	Limit     int32
	Offset    int32
}
