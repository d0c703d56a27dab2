// Package approval gates every handler behind owner approval: the bot acts
// only in guilds the operator has explicitly approved over DM.
package approval

import (
	"sync"

	"github.com/Zack-Nika/Francos-Security/internal/database"
	"github.com/Zack-Nika/Francos-Security/internal/logging"
)

// Set is the in-memory approved-guild set, hydrated from the database at
// startup and written through on every change.
type Set struct {
	db *database.Database

	mu     sync.RWMutex
	guilds map[string]bool
}

func NewSet(db *database.Database) *Set {
	return &Set{
		db:     db,
		guilds: make(map[string]bool),
	}
}

// Hydrate loads the approved set from the database.
func (s *Set) Hydrate() error {
	ids, err := s.db.GetApprovedGuilds()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.guilds[id] = true
	}
	logging.Info("[APPROVAL] Loaded %d approved guilds", len(ids))
	return nil
}

// IsApproved reports whether the bot may act in the guild.
func (s *Set) IsApproved(guildID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guilds[guildID]
}

// Approve adds the guild to the set and persists.
func (s *Set) Approve(guildID string) {
	s.mu.Lock()
	s.guilds[guildID] = true
	s.mu.Unlock()

	if err := s.db.ApproveGuild(guildID); err != nil {
		logging.Warn("[APPROVAL] Failed to persist approval for guild %s: %v", guildID, err)
	}
	logging.Info("[APPROVAL] Guild %s approved", guildID)
}

// Revoke removes the guild from the set and persists.
func (s *Set) Revoke(guildID string) {
	s.mu.Lock()
	delete(s.guilds, guildID)
	s.mu.Unlock()

	if err := s.db.RemoveApprovedGuild(guildID); err != nil {
		logging.Warn("[APPROVAL] Failed to persist revocation for guild %s: %v", guildID, err)
	}
	logging.Info("[APPROVAL] Guild %s revoked", guildID)
}
