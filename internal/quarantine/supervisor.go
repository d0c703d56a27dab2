// Package quarantine applies a restricted-capability state to low-trust or
// freshly created accounts and releases it on a timed deadline once trust
// recovers.
package quarantine

import (
	"sync"
	"time"

	"github.com/Zack-Nika/Francos-Security/internal/config"
	"github.com/Zack-Nika/Francos-Security/internal/logging"
	"github.com/Zack-Nika/Francos-Security/internal/trust"
	"github.com/Zack-Nika/Francos-Security/pkg/util"
)

// RoleAssigner applies and removes the quarantine role on the platform. The
// live implementation creates the role lazily and deletes it once the last
// holder is released.
type RoleAssigner interface {
	ApplyQuarantineRole(guildID, userID string) error
	RemoveQuarantineRole(guildID, userID string) error
}

// Supervisor drives the Unknown → Quarantined → Released state machine per
// member. Each quarantine event schedules exactly one release check; manual
// releases bump the member's epoch so a stale timer is a no-op.
type Supervisor struct {
	ledger   *trust.Ledger
	assigner RoleAssigner
	cfg      *config.QuarantineConfig

	releaseDelay time.Duration

	mu     sync.Mutex
	epochs map[string]uint64
}

func NewSupervisor(ledger *trust.Ledger, assigner RoleAssigner, cfg *config.QuarantineConfig) *Supervisor {
	return &Supervisor{
		ledger:       ledger,
		assigner:     assigner,
		cfg:          cfg,
		releaseDelay: cfg.ReleaseDelay(),
		epochs:       make(map[string]uint64),
	}
}

// OnMemberJoin evaluates a new arrival and quarantines it when trust is below
// the entry threshold or the account is younger than the minimum age.
// Returns true when the member was quarantined.
func (s *Supervisor) OnMemberJoin(guildID, userID string, accountCreated time.Time) bool {
	rec := s.ledger.Get(guildID, userID)

	tooNew := false
	if !accountCreated.IsZero() {
		tooNew = time.Since(accountCreated) < s.cfg.MinAccountAge()
	}

	if rec.Trust >= s.cfg.EntryThreshold && !tooNew {
		return false
	}

	s.Quarantine(guildID, userID)
	return true
}

// Quarantine marks the member, applies the role, and schedules the single
// release check.
func (s *Supervisor) Quarantine(guildID, userID string) {
	s.ledger.SetQuarantine(guildID, userID, true)

	if err := s.assigner.ApplyQuarantineRole(guildID, userID); err != nil {
		logging.Warn("[QUARANTINE] Failed to apply role to %s in guild %s: %v", userID, guildID, err)
	}

	key := util.MemberKey(guildID, userID)
	s.mu.Lock()
	s.epochs[key]++
	epoch := s.epochs[key]
	s.mu.Unlock()

	logging.Info("[QUARANTINE] Member %s quarantined in guild %s, release check in %s",
		userID, guildID, s.releaseDelay)

	time.AfterFunc(s.releaseDelay, func() {
		s.releaseCheck(guildID, userID, epoch)
	})
}

// releaseCheck fires at the deadline. Trust at or above the release threshold
// clears the flag; below it the quarantine stays until something else nudges
// trust and a new quarantine event schedules another check.
func (s *Supervisor) releaseCheck(guildID, userID string, epoch uint64) {
	key := util.MemberKey(guildID, userID)
	s.mu.Lock()
	current := s.epochs[key]
	s.mu.Unlock()
	if current != epoch {
		// Superseded by a newer quarantine or a manual release.
		return
	}

	rec := s.ledger.Get(guildID, userID)
	if !rec.Quarantined {
		return
	}
	if rec.Trust < s.cfg.ReleaseThreshold {
		logging.Info("[QUARANTINE] Member %s in guild %s still below release threshold (%.1f < %.1f)",
			userID, guildID, rec.Trust, s.cfg.ReleaseThreshold)
		return
	}

	s.clear(guildID, userID)
}

// Release clears a quarantine immediately, invalidating any pending timer.
func (s *Supervisor) Release(guildID, userID string) {
	key := util.MemberKey(guildID, userID)
	s.mu.Lock()
	s.epochs[key]++
	s.mu.Unlock()

	s.clear(guildID, userID)
}

func (s *Supervisor) clear(guildID, userID string) {
	s.ledger.SetQuarantine(guildID, userID, false)
	if err := s.assigner.RemoveQuarantineRole(guildID, userID); err != nil {
		logging.Warn("[QUARANTINE] Failed to remove role from %s in guild %s: %v", userID, guildID, err)
	}
	logging.Info("[QUARANTINE] Member %s released in guild %s", userID, guildID)
}
