// Package snapshot captures and re-creates a guild's channel and role
// skeleton. Restore is best-effort structural re-creation, not a perfect
// undo: a channel deleted for real comes back under a brand-new id.
package snapshot

import (
	"encoding/json"
	"time"

	"github.com/Zack-Nika/Francos-Security/internal/database"
	"github.com/Zack-Nika/Francos-Security/internal/logging"
)

// Discord channel type codes the restore path cares about.
const (
	channelTypeText  = 0
	channelTypeVoice = 2
)

// ChannelRecord is the serialized skeleton of one channel.
type ChannelRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     int    `json:"type"`
	ParentID string `json:"parent_id"`
	Position int    `json:"position"`
}

// RoleRecord is the serialized skeleton of one non-managed role. Roles are
// captured for the record but never re-created by restore.
type RoleRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Position    int    `json:"position"`
	Permissions int64  `json:"permissions"`
}

// Snapshot is the single stored document per guild, overwritten wholesale on
// every capture.
type Snapshot struct {
	GuildID    string          `json:"guild_id"`
	CapturedAt int64           `json:"captured_at"`
	Channels   []ChannelRecord `json:"channels"`
	Roles      []RoleRecord    `json:"roles"`
}

// Provider is the platform capability surface the manager needs. The live
// implementation wraps the Discord session; tests use a fake.
type Provider interface {
	ListChannels(guildID string) ([]ChannelRecord, error)
	// ListRoles returns non-managed roles only.
	ListRoles(guildID string) ([]RoleRecord, error)
	CreateChannel(guildID string, ch ChannelRecord) error
}

type Manager struct {
	db       *database.Database
	provider Provider
}

func NewManager(db *database.Database, provider Provider) *Manager {
	return &Manager{db: db, provider: provider}
}

// Capture enumerates the guild's channels and non-managed roles and
// overwrites the stored snapshot.
func (m *Manager) Capture(guildID string) error {
	channels, err := m.provider.ListChannels(guildID)
	if err != nil {
		return err
	}

	roles, err := m.provider.ListRoles(guildID)
	if err != nil {
		return err
	}

	snap := &Snapshot{
		GuildID:    guildID,
		CapturedAt: time.Now().Unix(),
		Channels:   channels,
		Roles:      roles,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	if err := m.db.SaveGuildBackup(guildID, data); err != nil {
		return err
	}

	logging.Info("[SNAPSHOT] Captured guild %s: %d channels, %d roles", guildID, len(channels), len(roles))
	return nil
}

// Restore re-creates every recorded channel whose id is no longer present.
// Returns false when the guild has no stored snapshot. Additive only: extra
// channels are left alone, roles are not re-created, and individual create
// failures never abort the pass.
func (m *Manager) Restore(guildID string) bool {
	data, err := m.db.GetGuildBackup(guildID)
	if err != nil {
		logging.Warn("[SNAPSHOT] Failed to load backup for guild %s: %v", guildID, err)
		return false
	}
	if data == nil {
		return false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		logging.Warn("[SNAPSHOT] Corrupt backup for guild %s: %v", guildID, err)
		return false
	}

	current, err := m.provider.ListChannels(guildID)
	if err != nil {
		logging.Warn("[SNAPSHOT] Failed to list channels for guild %s: %v", guildID, err)
		return false
	}

	existing := make(map[string]bool, len(current))
	for _, ch := range current {
		existing[ch.ID] = true
	}

	recreated := 0
	for _, ch := range snap.Channels {
		if existing[ch.ID] {
			continue
		}

		// Anything that is not a voice channel comes back as plain text.
		kind := channelTypeText
		if ch.Type == channelTypeVoice {
			kind = channelTypeVoice
		}

		create := ChannelRecord{
			Name:     ch.Name,
			Type:     kind,
			ParentID: ch.ParentID,
			Position: ch.Position,
		}
		if err := m.provider.CreateChannel(guildID, create); err != nil {
			logging.Warn("[SNAPSHOT] Failed to recreate channel %q in guild %s: %v", ch.Name, guildID, err)
			continue
		}
		recreated++
	}

	if recreated > 0 {
		logging.Info("[SNAPSHOT] Restored guild %s: recreated %d channels", guildID, recreated)
	}
	return true
}

// HasBackup reports whether a snapshot exists for the guild.
func (m *Manager) HasBackup(guildID string) bool {
	data, err := m.db.GetGuildBackup(guildID)
	return err == nil && data != nil
}
