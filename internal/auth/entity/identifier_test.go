package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentifierMobileForms(t *testing.T) {
	for _, raw := range []string{"+989123456789", "989123456789", "09123456789", "9123456789"} {
		ident, err := ParseIdentifier(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, IdentifierMobile, ident.Kind, raw)
		assert.Equal(t, "9123456789", ident.Value, raw)
		assert.Equal(t, ChannelSMS, ident.Channel(), raw)
	}
}

func TestParseIdentifierEmail(t *testing.T) {
	ident, err := ParseIdentifier("User@Example.com")
	require.NoError(t, err)
	assert.Equal(t, IdentifierEmail, ident.Kind)
	assert.Equal(t, "user@example.com", ident.Value)
	assert.Equal(t, ChannelEmail, ident.Channel())
	assert.False(t, ident.IsMobile())
}

func TestParseIdentifierInvalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"not-an-identifier",
		"08123456789",     // not a 9-prefixed mobile line
		"+98912345678",    // too short
		"+9891234567890",  // too long
		"4915212345678",   // german number
		"Display <a@b.c>", // address with display name
		"a@b@c",
	} {
		_, err := ParseIdentifier(raw)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, raw)
	}
}

func TestParseIdentifierTrimsSpace(t *testing.T) {
	ident, err := ParseIdentifier("  09123456789 ")
	require.NoError(t, err)
	assert.Equal(t, "9123456789", ident.Value)
}
