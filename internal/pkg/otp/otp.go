// Package otp generates the numeric one-time codes delivered to users.
//
// Generation is intentionally simple: a uniform random 6-digit value. Codes
// are not required to be unique across challenges; only the challenge token
// carries that burden.
package otp

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	codeMin = 111111
	codeMax = 999999
)

// CodeGenerator produces one-time numeric codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// CryptoCode is a CodeGenerator backed by crypto/rand.
type CryptoCode struct{}

// NewCryptoCode returns a cryptographically secure code generator.
func NewCryptoCode() *CryptoCode {
	return &CryptoCode{}
}

// Generate returns a uniform random 6-digit code in [111111, 999999].
func (c *CryptoCode) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}
