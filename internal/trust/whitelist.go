package trust

import (
	"sync"

	"github.com/Zack-Nika/Francos-Security/internal/database"
	"github.com/Zack-Nika/Francos-Security/internal/logging"
)

// Whitelist grants immunity from punitive action and flood classification.
// Backed by the whitelist table, cached in memory, written through on change.
type Whitelist struct {
	db *database.Database

	mu    sync.RWMutex
	users map[string]map[string]bool
}

func NewWhitelist(db *database.Database) *Whitelist {
	return &Whitelist{
		db:    db,
		users: make(map[string]map[string]bool),
	}
}

// Hydrate loads every whitelist entry from the database.
func (w *Whitelist) Hydrate() error {
	all, err := w.db.GetAllWhitelists()
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	total := 0
	for guildID, ids := range all {
		set := make(map[string]bool, len(ids))
		for _, id := range ids {
			set[id] = true
			total++
		}
		w.users[guildID] = set
	}
	logging.Info("[WHITELIST] Loaded %d entries across %d guilds", total, len(all))
	return nil
}

// IsWhitelisted reports whether the user is immune in the guild.
func (w *Whitelist) IsWhitelisted(guildID, userID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.users[guildID][userID]
}

// Add whitelists a user and persists.
func (w *Whitelist) Add(guildID, userID string) {
	w.mu.Lock()
	if w.users[guildID] == nil {
		w.users[guildID] = make(map[string]bool)
	}
	w.users[guildID][userID] = true
	w.mu.Unlock()

	if err := w.db.AddWhitelist(guildID, userID); err != nil {
		logging.Warn("[WHITELIST] Failed to persist add %s/%s: %v", guildID, userID, err)
	}
}

// Remove un-whitelists a user and persists.
func (w *Whitelist) Remove(guildID, userID string) {
	w.mu.Lock()
	delete(w.users[guildID], userID)
	w.mu.Unlock()

	if err := w.db.RemoveWhitelist(guildID, userID); err != nil {
		logging.Warn("[WHITELIST] Failed to persist remove %s/%s: %v", guildID, userID, err)
	}
}

// Guild returns the whitelisted user ids for one guild.
func (w *Whitelist) Guild(guildID string) []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]string, 0, len(w.users[guildID]))
	for id := range w.users[guildID] {
		ids = append(ids, id)
	}
	return ids
}
