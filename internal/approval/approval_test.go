package approval

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zack-Nika/Francos-Security/internal/database"
)

func newTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.CloseInstance() })
	return db
}

func TestApproveRevoke(t *testing.T) {
	set := NewSet(newTestDB(t))

	assert.False(t, set.IsApproved("g1"))

	set.Approve("g1")
	assert.True(t, set.IsApproved("g1"))
	assert.False(t, set.IsApproved("g2"))

	set.Revoke("g1")
	assert.False(t, set.IsApproved("g1"))
}

func TestHydrateFromStore(t *testing.T) {
	db := newTestDB(t)

	first := NewSet(db)
	first.Approve("g1")
	first.Approve("g2")
	first.Revoke("g2")

	second := NewSet(db)
	require.NoError(t, second.Hydrate())
	assert.True(t, second.IsApproved("g1"))
	assert.False(t, second.IsApproved("g2"))
}

func TestIsPromptButton(t *testing.T) {
	assert.True(t, IsPromptButton("approve_guild:123"))
	assert.True(t, IsPromptButton("reject_guild:123"))
	assert.False(t, IsPromptButton("defcon_select:123"))
	assert.False(t, IsPromptButton(""))
}

func TestApproveIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	set := NewSet(db)

	set.Approve("g1")
	set.Approve("g1")

	ids, err := db.GetApprovedGuilds()
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, ids)
}
