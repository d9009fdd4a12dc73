package uid

import (
	"crypto/rand"
	"encoding/hex"
)

// OpaqueToken generates unguessable 64-character hex tokens from 32 bytes of
// crypto/rand output. Used as the external handle for OTP challenges and as
// refresh token material.
type OpaqueToken struct{}

// NewOpaqueToken returns an OpaqueToken generator.
func NewOpaqueToken() *OpaqueToken {
	return &OpaqueToken{}
}

// Generate returns a new 64-character hex token.
//
// crypto/rand.Read never fails on supported platforms; if it ever does the
// process cannot safely mint tokens, so this panics rather than degrade to a
// guessable source.
func (t *OpaqueToken) Generate() string {
	var raw [32]byte
	if _, err := rand.Read(raw[:]); err != nil {
		panic("uid: crypto/rand unavailable: " + err.Error())
	}

	return hex.EncodeToString(raw[:])
}
