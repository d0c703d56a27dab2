package trust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhitelistAddRemove(t *testing.T) {
	db := newTestDB(t)
	wl := NewWhitelist(db)

	assert.False(t, wl.IsWhitelisted("g1", "u1"))

	wl.Add("g1", "u1")
	assert.True(t, wl.IsWhitelisted("g1", "u1"))
	assert.False(t, wl.IsWhitelisted("g2", "u1"))

	wl.Remove("g1", "u1")
	assert.False(t, wl.IsWhitelisted("g1", "u1"))
}

func TestWhitelistHydrate(t *testing.T) {
	db := newTestDB(t)

	first := NewWhitelist(db)
	first.Add("g1", "u1")
	first.Add("g1", "u2")
	first.Add("g2", "u3")

	second := NewWhitelist(db)
	require.NoError(t, second.Hydrate())

	assert.True(t, second.IsWhitelisted("g1", "u1"))
	assert.True(t, second.IsWhitelisted("g1", "u2"))
	assert.True(t, second.IsWhitelisted("g2", "u3"))
	assert.False(t, second.IsWhitelisted("g2", "u1"))
	assert.ElementsMatch(t, []string{"u1", "u2"}, second.Guild("g1"))
}
