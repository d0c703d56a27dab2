package snapshot

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zack-Nika/Francos-Security/internal/database"
)

type fakeProvider struct {
	channels map[string][]ChannelRecord
	roles    map[string][]RoleRecord
	created  []ChannelRecord
	failOn   string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		channels: make(map[string][]ChannelRecord),
		roles:    make(map[string][]RoleRecord),
	}
}

func (p *fakeProvider) ListChannels(guildID string) ([]ChannelRecord, error) {
	return p.channels[guildID], nil
}

func (p *fakeProvider) ListRoles(guildID string) ([]RoleRecord, error) {
	return p.roles[guildID], nil
}

func (p *fakeProvider) CreateChannel(guildID string, ch ChannelRecord) error {
	if p.failOn != "" && ch.Name == p.failOn {
		return errors.New("create failed")
	}
	p.created = append(p.created, ch)
	return nil
}

func newTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.CloseInstance() })
	return db
}

func TestRestoreWithoutBackup(t *testing.T) {
	db := newTestDB(t)
	p := newFakeProvider()
	m := NewManager(db, p)

	assert.False(t, m.Restore("g1"))
	assert.Empty(t, p.created)
	assert.False(t, m.HasBackup("g1"))
}

func TestRestoreUnchangedGuildCreatesNothing(t *testing.T) {
	db := newTestDB(t)
	p := newFakeProvider()
	p.channels["g1"] = []ChannelRecord{
		{ID: "c1", Name: "general", Type: 0, Position: 0},
		{ID: "c2", Name: "voice", Type: 2, Position: 1},
	}
	m := NewManager(db, p)

	require.NoError(t, m.Capture("g1"))
	assert.True(t, m.HasBackup("g1"))

	assert.True(t, m.Restore("g1"))
	assert.Empty(t, p.created)
}

func TestRestoreRecreatesMissingChannels(t *testing.T) {
	db := newTestDB(t)
	p := newFakeProvider()
	p.channels["g1"] = []ChannelRecord{
		{ID: "c1", Name: "general", Type: 0, Position: 0},
		{ID: "c2", Name: "lounge", Type: 2, ParentID: "cat1", Position: 1},
		{ID: "c3", Name: "rules", Type: 5, Position: 2},
	}
	m := NewManager(db, p)
	require.NoError(t, m.Capture("g1"))

	// A nuke wipes everything but general.
	p.channels["g1"] = p.channels["g1"][:1]

	assert.True(t, m.Restore("g1"))
	require.Len(t, p.created, 2)

	byName := make(map[string]ChannelRecord)
	for _, ch := range p.created {
		byName[ch.Name] = ch
	}

	lounge := byName["lounge"]
	assert.Equal(t, 2, lounge.Type, "voice channels come back as voice")
	assert.Equal(t, "cat1", lounge.ParentID)

	rules := byName["rules"]
	assert.Equal(t, 0, rules.Type, "announcement channels collapse to text")
	assert.Empty(t, rules.ID, "restored channels are created under new ids")
}

func TestRestoreSurvivesIndividualCreateFailures(t *testing.T) {
	db := newTestDB(t)
	p := newFakeProvider()
	p.channels["g1"] = []ChannelRecord{
		{ID: "c1", Name: "alpha", Type: 0},
		{ID: "c2", Name: "beta", Type: 0},
		{ID: "c3", Name: "gamma", Type: 0},
	}
	m := NewManager(db, p)
	require.NoError(t, m.Capture("g1"))

	p.channels["g1"] = nil
	p.failOn = "beta"

	assert.True(t, m.Restore("g1"))
	require.Len(t, p.created, 2)
	for _, ch := range p.created {
		assert.NotEqual(t, "beta", ch.Name)
	}
}

func TestCaptureOverwritesPreviousSnapshot(t *testing.T) {
	db := newTestDB(t)
	p := newFakeProvider()
	p.channels["g1"] = []ChannelRecord{{ID: "c1", Name: "old", Type: 0}}
	m := NewManager(db, p)
	require.NoError(t, m.Capture("g1"))

	p.channels["g1"] = []ChannelRecord{{ID: "c2", Name: "new", Type: 0}}
	require.NoError(t, m.Capture("g1"))

	// Only the latest snapshot survives: restoring after a wipe recreates the
	// new channel, not the old one.
	p.channels["g1"] = nil
	assert.True(t, m.Restore("g1"))
	require.Len(t, p.created, 1)
	assert.Equal(t, "new", p.created[0].Name)
}
