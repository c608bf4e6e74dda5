package entity

import "time"

type OtpRecord struct {
	ID        int64
	Phone     string // E.164
	Code      string
	ExpiresAt time.Time
	Attempts  int32
	Verified  bool
	CreatedAt time.Time
}

type Account struct {
	ID        int64
	Phone     string // E.164
	Status    AccountStatus
	CreatedAt time.Time
}

type RefreshToken struct {
	ID        int64
	AccountID int64
	Token     string // hashed
	ExpiresAt time.Time
	Revoked   bool
}

type RotateRefreshToken struct {
	NewID        int64
	OldID        int64
	AccountID    int64
	NewToken     string // hashed
	NewExpiresAt time.Time
}

// ---- //

type AccountRefreshToken struct {
	AccountID                int64
	AccountPhone             string
	AccountStatus            AccountStatus
	RefreshID                int64
	RefreshRevoked           bool
	RefreshReplacedByTokenID *int64
	RefreshExpiresAt         time.Time
}
