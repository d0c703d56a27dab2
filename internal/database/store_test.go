package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.CloseInstance() })
	return db
}

func TestBusyTimeoutConfigured(t *testing.T) {
	db := newTestDB(t)

	var timeout int
	require.NoError(t, db.db.QueryRow("PRAGMA busy_timeout").Scan(&timeout))
	assert.Equal(t, 5000, timeout)
}

func TestTrustRecordRoundTrip(t *testing.T) {
	db := newTestDB(t)

	rec, err := db.GetTrustRecord("g1", "u1")
	require.NoError(t, err)
	assert.Nil(t, rec, "unknown member has no record")

	require.NoError(t, db.UpsertTrustRecord(&TrustRecord{
		GuildID: "g1", UserID: "u1", Trust: 42.5, Quarantined: true,
	}))

	rec, err = db.GetTrustRecord("g1", "u1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 42.5, rec.Trust)
	assert.True(t, rec.Quarantined)

	// Upsert replaces, never duplicates.
	require.NoError(t, db.UpsertTrustRecord(&TrustRecord{
		GuildID: "g1", UserID: "u1", Trust: 60, Quarantined: false,
	}))
	all, err := db.GetGuildTrustRecords("g1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 60.0, all[0].Trust)
	assert.False(t, all[0].Quarantined)
}

func TestWhitelistStore(t *testing.T) {
	db := newTestDB(t)

	assert.False(t, db.IsWhitelisted("g1", "u1"))
	require.NoError(t, db.AddWhitelist("g1", "u1"))
	require.NoError(t, db.AddWhitelist("g1", "u1"))
	assert.True(t, db.IsWhitelisted("g1", "u1"))

	users, err := db.GetWhitelist("g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, users)

	require.NoError(t, db.RemoveWhitelist("g1", "u1"))
	assert.False(t, db.IsWhitelisted("g1", "u1"))
}

func TestNukeAttemptsAppendOnly(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.LogNukeAttempt("g1", "ChannelDelete", "a1"))
	require.NoError(t, db.LogNukeAttempt("g1", "ChannelDelete", "a1"))
	require.NoError(t, db.LogNukeAttempt("g2", "ChannelDelete", "a2"))

	attempts, err := db.GetNukeAttempts("g1")
	require.NoError(t, err)
	assert.Len(t, attempts, 2)
	for _, a := range attempts {
		assert.Equal(t, "a1", a.AttackerID)
	}
}

func TestGuildBackupOverwrite(t *testing.T) {
	db := newTestDB(t)

	data, err := db.GetGuildBackup("g1")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, db.SaveGuildBackup("g1", []byte(`{"v":1}`)))
	require.NoError(t, db.SaveGuildBackup("g1", []byte(`{"v":2}`)))

	data, err = db.GetGuildBackup("g1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":2}`), data)
}

func TestDefconLevelDefaultsLow(t *testing.T) {
	db := newTestDB(t)

	assert.Equal(t, "low", db.GetDefconLevel("g1"))

	require.NoError(t, db.SetDefconLevel("g1", "high"))
	assert.Equal(t, "high", db.GetDefconLevel("g1"))
}
