package entity

import "time"

// RefreshToken is a stored refresh token. Token holds the HMAC-SHA256 hash
// of the opaque value, never the value itself.
type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
}

// RefreshTokenInfo joins a refresh token row with the owning user for the
// rotation flow.
type RefreshTokenInfo struct {
	RefreshID                int64
	RefreshToken             string
	RefreshExpiresAt         time.Time
	RefreshRevoked           bool
	RefreshReplacedByTokenID *int64
	UserID                   int64
	UserIdentifier           string
	UserStatus               UserStatus
}

// RotateRefreshToken revokes the old token, links it to its replacement and
// inserts the new one in a single transaction.
type RotateRefreshToken struct {
	NewID        int64
	OldID        int64
	UserID       int64
	NewToken     string
	NewExpiresAt time.Time
}
