package device

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ID(t *testing.T) {
	serial, err := Serial("00010203-0405-0607-0809-0a0b0c0d0e0f")
	require.NoError(t, err)
	id := ID(serial)
	assert.Len(t, id, 24)
	assert.Equal(t, "040404040c0c0c0c04040404", id)
}

func Test_Serial(t *testing.T) {
	s, err := Serial("")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, s)

	_, err = Serial("not-a-uuid")
	assert.Error(t, err)
}
