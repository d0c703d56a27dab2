package antinuke

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zack-Nika/Francos-Security/internal/database"
	"github.com/Zack-Nika/Francos-Security/internal/trust"
)

type fakePlatform struct {
	entries  map[int]*AuditEntry
	auditErr error
	botID    string
	hasAdmin bool
	ownerID  string
}

func (p *fakePlatform) LatestAuditEntry(guildID string, actionType int) (*AuditEntry, error) {
	if p.auditErr != nil {
		return nil, p.auditErr
	}
	return p.entries[actionType], nil
}

func (p *fakePlatform) BotUserID() string                       { return p.botID }
func (p *fakePlatform) BotHasAdmin(guildID string) (bool, error) { return p.hasAdmin, nil }
func (p *fakePlatform) GuildOwnerID(guildID string) (string, error) {
	return p.ownerID, nil
}

type fakePunisher struct {
	banned []string
	kicked []string
}

func (p *fakePunisher) BanOrKick(guildID, userID, reason string) {
	p.banned = append(p.banned, userID)
}

func (p *fakePunisher) Kick(guildID, userID, reason string) {
	p.kicked = append(p.kicked, userID)
}

type fakeRestorer struct {
	calls int
}

func (r *fakeRestorer) Restore(guildID string) bool {
	r.calls++
	return true
}

func newTestController(t *testing.T) (*Controller, *database.Database, *trust.Whitelist, *fakePlatform, *fakePunisher, *fakeRestorer) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.CloseInstance() })

	wl := trust.NewWhitelist(db)
	platform := &fakePlatform{
		entries: make(map[int]*AuditEntry),
		botID:   "bot",
		ownerID: "owner",
	}
	punisher := &fakePunisher{}
	restorer := &fakeRestorer{}
	c := NewController(db, platform, wl, punisher, restorer)
	return c, db, wl, platform, punisher, restorer
}

func TestChannelDeletePunishesAndRestores(t *testing.T) {
	c, db, _, platform, punisher, restorer := newTestController(t)
	platform.entries[AuditChannelDelete] = &AuditEntry{ExecutorID: "attacker", TargetID: "c1"}

	c.HandleChannelDelete("g1", "c1")

	assert.Equal(t, []string{"attacker"}, punisher.banned)
	assert.Equal(t, 1, restorer.calls)

	attempts, err := db.GetNukeAttempts("g1")
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, "ChannelDelete", attempts[0].AttackType)
	assert.Equal(t, "attacker", attempts[0].AttackerID)
}

func TestChannelDeleteByWhitelistedExecutor(t *testing.T) {
	c, db, wl, platform, punisher, restorer := newTestController(t)
	wl.Add("g1", "mod")
	platform.entries[AuditChannelDelete] = &AuditEntry{ExecutorID: "mod", TargetID: "c1"}

	c.HandleChannelDelete("g1", "c1")

	assert.Empty(t, punisher.banned)
	assert.Zero(t, restorer.calls)

	attempts, err := db.GetNukeAttempts("g1")
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestChannelDeleteByBotItself(t *testing.T) {
	c, _, _, platform, punisher, restorer := newTestController(t)
	platform.entries[AuditChannelDelete] = &AuditEntry{ExecutorID: "bot", TargetID: "c1"}

	c.HandleChannelDelete("g1", "c1")

	assert.Empty(t, punisher.banned)
	assert.Zero(t, restorer.calls)
}

func TestChannelDeleteWithoutAuditEntry(t *testing.T) {
	c, _, _, _, punisher, restorer := newTestController(t)

	c.HandleChannelDelete("g1", "c1")

	assert.Empty(t, punisher.banned)
	assert.Zero(t, restorer.calls)
}

func TestChannelDeleteAuditFetchError(t *testing.T) {
	c, _, _, platform, punisher, restorer := newTestController(t)
	platform.auditErr = errors.New("audit unavailable")

	c.HandleChannelDelete("g1", "c1")

	assert.Empty(t, punisher.banned)
	assert.Zero(t, restorer.calls)
}

func TestGuildUpdateKicksAdminStripper(t *testing.T) {
	c, _, _, platform, punisher, _ := newTestController(t)
	platform.hasAdmin = false
	platform.entries[AuditRoleUpdate] = &AuditEntry{ExecutorID: "attacker"}

	c.HandleGuildUpdate("g1")

	assert.Equal(t, []string{"attacker"}, punisher.kicked)
}

func TestGuildUpdateSparesOwner(t *testing.T) {
	c, _, _, platform, punisher, _ := newTestController(t)
	platform.hasAdmin = false
	platform.entries[AuditRoleUpdate] = &AuditEntry{ExecutorID: "owner"}

	c.HandleGuildUpdate("g1")

	assert.Empty(t, punisher.kicked)
}

func TestGuildUpdateWithAdminIntact(t *testing.T) {
	c, _, _, platform, punisher, _ := newTestController(t)
	platform.hasAdmin = true
	platform.entries[AuditRoleUpdate] = &AuditEntry{ExecutorID: "attacker"}

	c.HandleGuildUpdate("g1")

	assert.Empty(t, punisher.kicked)
}
