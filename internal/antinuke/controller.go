// Package antinuke reacts to destructive administrative actions: it
// attributes the action through the audit log, punishes the executor, logs
// the attempt, and triggers a structural restore. Attribution is a heuristic
// (latest matching audit entry, no causal correlation) and every external
// step is best-effort; one failed sub-step never blocks the rest.
package antinuke

import (
	"github.com/Zack-Nika/Francos-Security/internal/database"
	"github.com/Zack-Nika/Francos-Security/internal/logging"
	"github.com/Zack-Nika/Francos-Security/internal/notifier"
	"github.com/Zack-Nika/Francos-Security/internal/trust"
)

// Discord audit-log action types.
const (
	AuditChannelDelete = 12
	AuditRoleUpdate    = 31
)

// AuditEntry is the single latest audit record for an action type.
type AuditEntry struct {
	ExecutorID    string
	TargetID      string
	ExecutorIsBot bool
}

// Platform is the capability surface the controller consumes from the
// Discord session adapter.
type Platform interface {
	// LatestAuditEntry returns the most recent entry of the given action
	// type, or nil when the audit log has nothing yet.
	LatestAuditEntry(guildID string, actionType int) (*AuditEntry, error)
	BotUserID() string
	BotHasAdmin(guildID string) (bool, error)
	GuildOwnerID(guildID string) (string, error)
}

// Punisher executes punitive action against an attacker.
type Punisher interface {
	// BanOrKick bans when the bot outranks the target, falls back to a kick,
	// and no-ops when neither is possible.
	BanOrKick(guildID, userID, reason string)
	// Kick removes the member when possible.
	Kick(guildID, userID, reason string)
}

// Restorer re-creates missing guild structure from the last snapshot.
type Restorer interface {
	Restore(guildID string) bool
}

type Controller struct {
	db        *database.Database
	platform  Platform
	whitelist *trust.Whitelist
	punisher  Punisher
	restorer  Restorer
}

func NewController(db *database.Database, platform Platform, whitelist *trust.Whitelist, punisher Punisher, restorer Restorer) *Controller {
	return &Controller{
		db:        db,
		platform:  platform,
		whitelist: whitelist,
		punisher:  punisher,
		restorer:  restorer,
	}
}

// HandleChannelDelete runs the detect-and-restore loop for a deleted channel.
func (c *Controller) HandleChannelDelete(guildID, channelID string) {
	entry, err := c.platform.LatestAuditEntry(guildID, AuditChannelDelete)
	if err != nil {
		logging.Warn("[ANTINUKE] Audit fetch failed for guild %s: %v", guildID, err)
		return
	}
	if entry == nil {
		// The audit log may not have indexed the deletion yet.
		logging.Debug("[ANTINUKE] No audit entry for channel delete in guild %s", guildID)
		return
	}

	if entry.ExecutorID == c.platform.BotUserID() {
		return
	}
	if c.whitelist.IsWhitelisted(guildID, entry.ExecutorID) {
		logging.Debug("[ANTINUKE] Whitelisted executor %s deleted channel %s, ignoring", entry.ExecutorID, channelID)
		return
	}

	logging.Warn("[ANTINUKE] Unauthorized channel deletion in guild %s by %s (channel %s)",
		guildID, entry.ExecutorID, channelID)

	c.punisher.BanOrKick(guildID, entry.ExecutorID, "Unauthorized channel deletion")

	if err := c.db.LogNukeAttempt(guildID, "ChannelDelete", entry.ExecutorID); err != nil {
		logging.Warn("[ANTINUKE] Failed to log attempt for guild %s: %v", guildID, err)
	}

	restored := c.restorer.Restore(guildID)
	notifier.NotifyNukeAttempt(guildID, "ChannelDelete", entry.ExecutorID, restored)
}

// HandleGuildUpdate checks whether the bot lost its administrator capability
// and, if so, kicks the likely culprit. Attribution assumes the latest
// role-update audit entry caused the loss, which can be wrong under
// concurrent admin activity.
func (c *Controller) HandleGuildUpdate(guildID string) {
	hasAdmin, err := c.platform.BotHasAdmin(guildID)
	if err != nil {
		logging.Warn("[ANTINUKE] Failed to check own permissions in guild %s: %v", guildID, err)
		return
	}
	if hasAdmin {
		return
	}

	logging.Warn("[ANTINUKE] Lost administrator in guild %s, checking audit log", guildID)

	entry, err := c.platform.LatestAuditEntry(guildID, AuditRoleUpdate)
	if err != nil {
		logging.Warn("[ANTINUKE] Audit fetch failed for guild %s: %v", guildID, err)
		return
	}
	if entry == nil {
		return
	}

	ownerID, err := c.platform.GuildOwnerID(guildID)
	if err != nil {
		logging.Warn("[ANTINUKE] Failed to resolve owner of guild %s: %v", guildID, err)
		return
	}
	if entry.ExecutorID == ownerID || entry.ExecutorID == c.platform.BotUserID() {
		return
	}

	c.punisher.Kick(guildID, entry.ExecutorID, "Tampering with the security bot's role")
}
