package uid

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpaqueTokenShape(t *testing.T) {
	gen := NewOpaqueToken()

	seen := make(map[string]struct{}, 100)
	for range 100 {
		token := gen.Generate()
		require.Len(t, token, 64)

		_, err := hex.DecodeString(token)
		require.NoError(t, err)

		_, dup := seen[token]
		require.False(t, dup)
		seen[token] = struct{}{}
	}
}
