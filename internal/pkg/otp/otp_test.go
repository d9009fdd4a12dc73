package otp

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCryptoCodeRange(t *testing.T) {
	gen := NewCryptoCode()

	for range 200 {
		code, err := gen.Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, codeMin)
		require.LessOrEqual(t, n, codeMax)
	}
}
