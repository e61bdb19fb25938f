package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandByteArray_Length(t *testing.T) {
	b := GenerateRandByteArray(24)
	require.NotNil(t, b)
	assert.Len(t, b, 24)
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte("secret123")
	WipeByteArray(buf)
	assert.Equal(t, make([]byte, len("secret123")), buf)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}
