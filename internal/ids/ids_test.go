package ids_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guahanweb/photography-challenges-backend/internal/ids"
)

func TestNew(t *testing.T) {
	id, err := ids.New("proj")
	require.NoError(t, err)

	parts := strings.Split(id, "_")
	require.Len(t, parts, 3)
	assert.Equal(t, "proj", parts[0])

	ms, err := strconv.ParseInt(parts[1], 10, 64)
	require.NoError(t, err)
	assert.Positive(t, ms)

	assert.Len(t, parts[2], 9)
	for _, r := range parts[2] {
		assert.Contains(t, "0123456789abcdefghijklmnopqrstuvwxyz", string(r))
	}
}

func TestNew_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := ids.New("inst")
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestInviteCode(t *testing.T) {
	code, err := ids.InviteCode()
	require.NoError(t, err)

	assert.Len(t, code, 8)
	for _, r := range code {
		assert.Contains(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", string(r))
	}
}
