// Package uid groups the identifier generators used by the service: int64
// row IDs, UUID correlation IDs, and opaque challenge tokens.
package uid

// NumberID generates int64 identifiers for database rows.
type NumberID interface {
	Generate() int64
}

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}
