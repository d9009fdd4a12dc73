package uid

import "github.com/google/uuid"

// UUID generates RFC 4122 UUID strings, used for correlation ids and
// token jti claims.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUID string. Time-ordered v7 keeps correlation
// ids roughly sortable in log search; v4 is the fallback.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString() // fallback: uuidV4
	}
	return id.String()
}
