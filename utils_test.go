package smoldb

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func TestBytesIsZero(t *testing.T) {
	b := make([]byte, RecordSize*4)
	require.True(t, bytesIsZero(b))
	b[17] = 1
	require.False(t, bytesIsZero(b))
	require.True(t, bytesIsZero(b[:16]))
	require.Panics(t, func() {
		bytesIsZero(b[:5])
	})
}
