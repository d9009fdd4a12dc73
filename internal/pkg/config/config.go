// Package config abstracts configuration lookup behind a typed getter
// interface so the rest of the application never touches the concrete
// configuration backend.
package config

import (
	"io"
	"time"
)

// Config exposes typed access to configuration values. Implementations
// return the zero value when a key is absent or cannot be converted, so
// callers are expected to validate anything mandatory at startup.
type Config interface {
	io.Closer

	// GetString returns the value for key as a string.
	GetString(key string) string

	// GetBool returns the value for key as a bool.
	GetBool(key string) bool

	// GetInt returns the value for key as an int.
	GetInt(key string) int

	// GetInt32 returns the value for key as an int32.
	GetInt32(key string) int32

	// GetInt64 returns the value for key as an int64.
	GetInt64(key string) int64

	// GetFloat64 returns the value for key as a float64.
	GetFloat64(key string) float64

	// GetSecond interprets the integer value for key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetMinute interprets the integer value for key as a number of minutes.
	GetMinute(key string) time.Duration

	// GetHour interprets the integer value for key as a number of hours.
	GetHour(key string) time.Duration

	// GetBinary returns the value for key decoded from base64.
	// The value is stored base64 encoded.
	GetBinary(key string) []byte

	// GetArray returns the value for key as a string slice.
	// The value is stored as <element1>,<element2>,...
	GetArray(key string) []string

	// GetMap returns the value for key as a string map.
	// The value is stored as <key1>:<value1>,<key2>:<value2>,...
	GetMap(key string) map[string]string
}
