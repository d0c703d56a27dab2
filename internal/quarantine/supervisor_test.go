package quarantine

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zack-Nika/Francos-Security/internal/config"
	"github.com/Zack-Nika/Francos-Security/internal/database"
	"github.com/Zack-Nika/Francos-Security/internal/trust"
)

type fakeAssigner struct {
	mu       sync.Mutex
	applied  []string
	removed  []string
}

func (a *fakeAssigner) ApplyQuarantineRole(guildID, userID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.applied = append(a.applied, guildID+":"+userID)
	return nil
}

func (a *fakeAssigner) RemoveQuarantineRole(guildID, userID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.removed = append(a.removed, guildID+":"+userID)
	return nil
}

func (a *fakeAssigner) removedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.removed)
}

func newTestSupervisor(t *testing.T) (*Supervisor, *trust.Ledger, *fakeAssigner) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.CloseInstance() })

	cfg := config.DefaultConfig()
	ledger := trust.NewLedger(db, cfg.Quarantine.DefaultTrust)
	assigner := &fakeAssigner{}
	sup := NewSupervisor(ledger, assigner, &cfg.Quarantine)
	return sup, ledger, assigner
}

func TestLowTrustJoinerQuarantined(t *testing.T) {
	sup, ledger, assigner := newTestSupervisor(t)
	sup.releaseDelay = time.Hour

	ledger.Adjust("g1", "u1", -30) // 50 -> 20, below entry threshold

	oldAccount := time.Now().AddDate(-1, 0, 0)
	assert.True(t, sup.OnMemberJoin("g1", "u1", oldAccount))
	assert.True(t, ledger.Get("g1", "u1").Quarantined)
	assert.Len(t, assigner.applied, 1)
}

func TestYoungAccountQuarantinedDespiteTrust(t *testing.T) {
	sup, ledger, assigner := newTestSupervisor(t)
	sup.releaseDelay = time.Hour

	created := time.Now().Add(-24 * time.Hour)
	assert.True(t, sup.OnMemberJoin("g1", "u1", created))
	assert.True(t, ledger.Get("g1", "u1").Quarantined)
	assert.Len(t, assigner.applied, 1)
}

func TestTrustedOldAccountPassesThrough(t *testing.T) {
	sup, ledger, assigner := newTestSupervisor(t)

	oldAccount := time.Now().AddDate(-1, 0, 0)
	assert.False(t, sup.OnMemberJoin("g1", "u1", oldAccount))
	assert.False(t, ledger.Get("g1", "u1").Quarantined)
	assert.Empty(t, assigner.applied)
}

func TestReleaseAfterTrustRecovers(t *testing.T) {
	sup, ledger, assigner := newTestSupervisor(t)
	sup.releaseDelay = 10 * time.Millisecond

	ledger.Adjust("g1", "u1", -30)
	sup.Quarantine("g1", "u1")

	// Trust climbs past the release threshold before the deadline fires.
	ledger.Adjust("g1", "u1", 25) // 20 -> 45

	require.Eventually(t, func() bool {
		return assigner.removedCount() == 1
	}, time.Second, 5*time.Millisecond)
	assert.False(t, ledger.Get("g1", "u1").Quarantined)
}

func TestLowTrustStaysQuarantinedAtDeadline(t *testing.T) {
	sup, ledger, _ := newTestSupervisor(t)
	sup.releaseDelay = 10 * time.Millisecond

	ledger.Adjust("g1", "u1", -30)
	sup.Quarantine("g1", "u1")

	time.Sleep(50 * time.Millisecond)
	assert.True(t, ledger.Get("g1", "u1").Quarantined)
}

func TestManualReleaseInvalidatesTimer(t *testing.T) {
	sup, ledger, assigner := newTestSupervisor(t)
	sup.releaseDelay = 30 * time.Millisecond

	ledger.Adjust("g1", "u1", -30)
	sup.Quarantine("g1", "u1")
	ledger.Adjust("g1", "u1", 25)

	sup.Release("g1", "u1")
	assert.False(t, ledger.Get("g1", "u1").Quarantined)
	assert.Equal(t, 1, assigner.removedCount())

	// The scheduled check fires against a bumped epoch and must not remove
	// the role a second time.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, assigner.removedCount())
}

func TestRequarantineSupersedesOlderTimer(t *testing.T) {
	sup, ledger, _ := newTestSupervisor(t)
	sup.releaseDelay = 20 * time.Millisecond

	ledger.Adjust("g1", "u1", -30)
	sup.Quarantine("g1", "u1")
	ledger.Adjust("g1", "u1", 25)

	// A second quarantine before the first deadline bumps the epoch; the
	// first timer becomes a no-op and the second one governs release.
	sup.Quarantine("g1", "u1")

	require.Eventually(t, func() bool {
		return !ledger.Get("g1", "u1").Quarantined
	}, time.Second, 5*time.Millisecond)
}
