package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Zack-Nika/Francos-Security/internal/antinuke"
	"github.com/Zack-Nika/Francos-Security/internal/config"
	"github.com/Zack-Nika/Francos-Security/internal/dispatcher"
	"github.com/Zack-Nika/Francos-Security/internal/logging"
	"github.com/Zack-Nika/Francos-Security/internal/snapshot"
)

// PlatformAdapter implements the audit/permission capability surfaces over
// the live Discord session.
type PlatformAdapter struct {
	session *Session
}

func NewPlatformAdapter(session *Session) *PlatformAdapter {
	return &PlatformAdapter{session: session}
}

func (p *PlatformAdapter) BotUserID() string {
	return p.session.BotID
}

// LatestAuditEntry fetches the platform-reported single latest audit entry of
// the given action type. Returns nil when the log has nothing yet.
func (p *PlatformAdapter) LatestAuditEntry(guildID string, actionType int) (*antinuke.AuditEntry, error) {
	audit, err := p.session.discord.GuildAuditLog(guildID, "", "", actionType, 1)
	if err != nil {
		return nil, err
	}
	if len(audit.AuditLogEntries) == 0 {
		return nil, nil
	}

	entry := audit.AuditLogEntries[0]
	out := &antinuke.AuditEntry{
		ExecutorID: entry.UserID,
		TargetID:   entry.TargetID,
	}
	for _, user := range audit.Users {
		if user.ID == entry.UserID && user.Bot {
			out.ExecutorIsBot = true
			break
		}
	}
	return out, nil
}

// BotHasAdmin reports whether the bot's own membership still carries the
// administrator permission in the guild.
func (p *PlatformAdapter) BotHasAdmin(guildID string) (bool, error) {
	guild, err := p.guild(guildID)
	if err != nil {
		return false, err
	}
	if guild.OwnerID == p.session.BotID {
		return true, nil
	}

	member, err := p.member(guildID, p.session.BotID)
	if err != nil {
		return false, err
	}

	perms := memberPermissions(guild, member)
	return perms&discordgo.PermissionAdministrator != 0, nil
}

func (p *PlatformAdapter) GuildOwnerID(guildID string) (string, error) {
	guild, err := p.guild(guildID)
	if err != nil {
		return "", err
	}
	return guild.OwnerID, nil
}

// MemberIsAdmin reports whether a member holds the administrator permission.
func (p *PlatformAdapter) MemberIsAdmin(guildID, userID string) bool {
	guild, err := p.guild(guildID)
	if err != nil {
		return false
	}
	if guild.OwnerID == userID {
		return true
	}
	member, err := p.member(guildID, userID)
	if err != nil {
		return false
	}
	return memberPermissions(guild, member)&discordgo.PermissionAdministrator != 0
}

func (p *PlatformAdapter) guild(guildID string) (*discordgo.Guild, error) {
	if guild, err := p.session.discord.State.Guild(guildID); err == nil {
		return guild, nil
	}
	return p.session.discord.Guild(guildID)
}

func (p *PlatformAdapter) member(guildID, userID string) (*discordgo.Member, error) {
	if member, err := p.session.discord.State.Member(guildID, userID); err == nil {
		return member, nil
	}
	return p.session.discord.GuildMember(guildID, userID)
}

// memberPermissions folds the guild-level permissions of every role the
// member holds, starting from @everyone.
func memberPermissions(guild *discordgo.Guild, member *discordgo.Member) int64 {
	roles := make(map[string]*discordgo.Role, len(guild.Roles))
	var perms int64
	for _, role := range guild.Roles {
		roles[role.ID] = role
		if role.ID == guild.ID {
			perms |= role.Permissions
		}
	}
	for _, roleID := range member.Roles {
		if role, ok := roles[roleID]; ok {
			perms |= role.Permissions
		}
	}
	return perms
}

// highestRolePosition returns the top role position a member holds; the
// @everyone role sits at position 0.
func highestRolePosition(guild *discordgo.Guild, member *discordgo.Member) int {
	highest := 0
	for _, role := range guild.Roles {
		for _, roleID := range member.Roles {
			if role.ID == roleID && role.Position > highest {
				highest = role.Position
			}
		}
	}
	return highest
}

// ===== Snapshot provider =====

// SnapshotProvider implements snapshot.Provider over the live session.
type SnapshotProvider struct {
	session *Session
}

func NewSnapshotProvider(session *Session) *SnapshotProvider {
	return &SnapshotProvider{session: session}
}

func (sp *SnapshotProvider) ListChannels(guildID string) ([]snapshot.ChannelRecord, error) {
	channels, err := sp.session.discord.GuildChannels(guildID)
	if err != nil {
		return nil, err
	}

	records := make([]snapshot.ChannelRecord, 0, len(channels))
	for _, ch := range channels {
		records = append(records, snapshot.ChannelRecord{
			ID:       ch.ID,
			Name:     ch.Name,
			Type:     int(ch.Type),
			ParentID: ch.ParentID,
			Position: ch.Position,
		})
	}
	return records, nil
}

func (sp *SnapshotProvider) ListRoles(guildID string) ([]snapshot.RoleRecord, error) {
	roles, err := sp.session.discord.GuildRoles(guildID)
	if err != nil {
		return nil, err
	}

	records := make([]snapshot.RoleRecord, 0, len(roles))
	for _, role := range roles {
		if role.Managed {
			continue
		}
		records = append(records, snapshot.RoleRecord{
			ID:          role.ID,
			Name:        role.Name,
			Color:       role.Color,
			Position:    role.Position,
			Permissions: role.Permissions,
		})
	}
	return records, nil
}

func (sp *SnapshotProvider) CreateChannel(guildID string, ch snapshot.ChannelRecord) error {
	_, err := sp.session.discord.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     ch.Name,
		Type:     discordgo.ChannelType(ch.Type),
		ParentID: ch.ParentID,
		Position: ch.Position,
	})
	return err
}

// ===== Quarantine role assigner =====

// QuarantineRoleAssigner manages the quarantine role: created lazily on first
// use, removed from released members, deleted once nobody holds it.
type QuarantineRoleAssigner struct {
	session *Session
	cfg     *config.QuarantineConfig
}

func NewQuarantineRoleAssigner(session *Session, cfg *config.QuarantineConfig) *QuarantineRoleAssigner {
	return &QuarantineRoleAssigner{session: session, cfg: cfg}
}

func (qa *QuarantineRoleAssigner) findRole(guildID string) (*discordgo.Role, error) {
	roles, err := qa.session.discord.GuildRoles(guildID)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if role.Name == qa.cfg.RoleName {
			return role, nil
		}
	}
	return nil, nil
}

func (qa *QuarantineRoleAssigner) ApplyQuarantineRole(guildID, userID string) error {
	role, err := qa.findRole(guildID)
	if err != nil {
		return err
	}

	if role == nil {
		var zero int64
		role, err = qa.session.discord.GuildRoleCreate(guildID, &discordgo.RoleParams{
			Name:        qa.cfg.RoleName,
			Color:       &qa.cfg.RoleColor,
			Permissions: &zero,
		})
		if err != nil {
			return fmt.Errorf("failed to create quarantine role: %w", err)
		}
	}

	return qa.session.discord.GuildMemberRoleAdd(guildID, userID, role.ID)
}

func (qa *QuarantineRoleAssigner) RemoveQuarantineRole(guildID, userID string) error {
	role, err := qa.findRole(guildID)
	if err != nil {
		return err
	}
	if role == nil {
		return nil
	}

	if err := qa.session.discord.GuildMemberRoleRemove(guildID, userID, role.ID); err != nil {
		return err
	}

	if qa.roleHolderCount(guildID, role.ID) == 0 {
		if err := qa.session.discord.GuildRoleDelete(guildID, role.ID); err != nil {
			logging.Debug("[QUARANTINE] Failed to delete empty quarantine role in guild %s: %v", guildID, err)
		}
	}
	return nil
}

// roleHolderCount counts members still holding the role, scanning the first
// page of members. Best-effort: an API failure reports a non-zero count so
// the role is kept.
func (qa *QuarantineRoleAssigner) roleHolderCount(guildID, roleID string) int {
	members, err := qa.session.discord.GuildMembers(guildID, "", 1000)
	if err != nil {
		return 1
	}

	count := 0
	for _, member := range members {
		for _, r := range member.Roles {
			if r == roleID {
				count++
				break
			}
		}
	}
	return count
}

// ===== Punisher =====

// DispatchPunisher decides ban-vs-kick eligibility from role hierarchy and
// hands execution to the dispatcher queue.
type DispatchPunisher struct {
	session  *Session
	platform *PlatformAdapter
	queue    *dispatcher.JobQueue
}

func NewDispatchPunisher(session *Session, platform *PlatformAdapter, queue *dispatcher.JobQueue) *DispatchPunisher {
	return &DispatchPunisher{session: session, platform: platform, queue: queue}
}

// BanOrKick enqueues a ban when the bot outranks the target, a kick when it
// can only kick, and logs a no-op otherwise.
func (dp *DispatchPunisher) BanOrKick(guildID, userID, reason string) {
	if !dp.canModerate(guildID, userID) {
		logging.Warn("[PUNISH] Cannot moderate %s in guild %s (outranked), no action", userID, guildID)
		return
	}

	dp.queue.Enqueue(&dispatcher.Job{
		Type:         dispatcher.JobTypeBan,
		GuildID:      guildID,
		UserID:       userID,
		Reason:       reason,
		FallbackKick: true,
	})
}

// Kick enqueues a kick when the bot outranks the target.
func (dp *DispatchPunisher) Kick(guildID, userID, reason string) {
	if !dp.canModerate(guildID, userID) {
		logging.Warn("[PUNISH] Cannot kick %s in guild %s (outranked), no action", userID, guildID)
		return
	}

	dp.queue.Enqueue(&dispatcher.Job{
		Type:    dispatcher.JobTypeKick,
		GuildID: guildID,
		UserID:  userID,
		Reason:  reason,
	})
}

// canModerate mirrors the platform's hierarchy rule: never the owner, never
// someone whose highest role sits at or above the bot's.
func (dp *DispatchPunisher) canModerate(guildID, userID string) bool {
	guild, err := dp.platform.guild(guildID)
	if err != nil {
		return false
	}
	if userID == guild.OwnerID || userID == dp.session.BotID {
		return false
	}

	target, err := dp.platform.member(guildID, userID)
	if err != nil {
		// Already gone; a ban still lands, so let it through.
		return true
	}

	bot, err := dp.platform.member(guildID, dp.session.BotID)
	if err != nil {
		return false
	}

	return highestRolePosition(guild, bot) > highestRolePosition(guild, target)
}
