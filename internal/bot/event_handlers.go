package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/Zack-Nika/Francos-Security/internal/antinuke"
	"github.com/Zack-Nika/Francos-Security/internal/approval"
	"github.com/Zack-Nika/Francos-Security/internal/classifier"
	"github.com/Zack-Nika/Francos-Security/internal/config"
	"github.com/Zack-Nika/Francos-Security/internal/logging"
	"github.com/Zack-Nika/Francos-Security/internal/quarantine"
	"github.com/Zack-Nika/Francos-Security/internal/trust"
	"github.com/Zack-Nika/Francos-Security/pkg/util"
)

// Handlers bundles the services the event handlers drive. Every handler
// first checks the approval gate; unapproved guilds get no reaction at all.
type Handlers struct {
	Cfg        *config.Config
	Approvals  *approval.Set
	Whitelist  *trust.Whitelist
	Ledger     *trust.Ledger
	Classifier *classifier.Classifier
	Supervisor *quarantine.Supervisor
	Controller *antinuke.Controller
	Platform   *PlatformAdapter
	Punisher   *DispatchPunisher
}

// isExempt reports whether a member bypasses flood classification entirely.
func (h *Handlers) isExempt(guildID, userID string) bool {
	return h.Whitelist.IsWhitelisted(guildID, userID) || h.Platform.MemberIsAdmin(guildID, userID)
}

// SetupEventHandlers wires all gateway events into the protection services.
// Must be called before Connect.
func (s *Session) SetupEventHandlers(h *Handlers) {
	logging.Info("Setting up Discord event handlers...")

	s.discord.AddHandler(func(sess *discordgo.Session, r *discordgo.Ready) {
		logging.Info("Bot ready! Connected as %s, %d guilds", r.User.Username, len(r.Guilds))
	})

	// New guild: ask the operator for approval unless already approved.
	s.discord.AddHandler(func(sess *discordgo.Session, g *discordgo.GuildCreate) {
		logging.Info("Joined/loaded guild: %s (ID: %s)", g.Name, g.ID)
		if !h.Approvals.IsApproved(g.ID) {
			approval.SendPrompt(sess, h.Cfg.Bot.OwnerID, g.Guild)
		}
	})

	// Message flood, mass mentions, trust rewards, quarantine enforcement.
	s.discord.AddHandler(func(sess *discordgo.Session, m *discordgo.MessageCreate) {
		if m.GuildID == "" || m.Author == nil || m.Author.Bot {
			return
		}
		if !h.Approvals.IsApproved(m.GuildID) {
			return
		}

		guildID, userID := m.GuildID, m.Author.ID
		exempt := h.isExempt(guildID, userID)

		if h.Classifier.Classify(guildID, userID, classifier.EventMessage, exempt) {
			h.Punisher.BanOrKick(guildID, userID, "Spam / selfbot suspicion")
			return
		}

		if !exempt && mentionCount(m.Message) > h.Cfg.Detection.MaxMentions {
			sess.ChannelMessageDelete(m.ChannelID, m.ID)
			h.Punisher.BanOrKick(guildID, userID, "Mass mention spam")
			return
		}

		rec := h.Ledger.Get(guildID, userID)
		if rec.Quarantined {
			sess.ChannelMessageDelete(m.ChannelID, m.ID)
			return
		}
		h.Ledger.Adjust(guildID, userID, 1)
	})

	// Reaction flood and the small trust reward for normal reactions.
	s.discord.AddHandler(func(sess *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if r.GuildID == "" || r.UserID == s.BotID {
			return
		}
		if !h.Approvals.IsApproved(r.GuildID) {
			return
		}
		if member, err := h.Platform.member(r.GuildID, r.UserID); err == nil && member.User != nil && member.User.Bot {
			return
		}

		exempt := h.isExempt(r.GuildID, r.UserID)
		if h.Classifier.Classify(r.GuildID, r.UserID, classifier.EventReaction, exempt) {
			h.Punisher.BanOrKick(r.GuildID, r.UserID, "Reaction spam / selfbot suspicion")
			return
		}

		rec := h.Ledger.Get(r.GuildID, r.UserID)
		if !rec.Quarantined {
			h.Ledger.Adjust(r.GuildID, r.UserID, 0.5)
		}
	})

	// Voice-join churn. Only null→non-null transitions count as joins.
	s.discord.AddHandler(func(sess *discordgo.Session, v *discordgo.VoiceStateUpdate) {
		if v.GuildID == "" || v.UserID == s.BotID {
			return
		}
		if !h.Approvals.IsApproved(v.GuildID) {
			return
		}

		joined := v.ChannelID != "" && (v.BeforeUpdate == nil || v.BeforeUpdate.ChannelID == "")
		if !joined {
			return
		}

		exempt := h.isExempt(v.GuildID, v.UserID)
		if h.Classifier.Classify(v.GuildID, v.UserID, classifier.EventVoiceJoin, exempt) {
			h.Punisher.BanOrKick(v.GuildID, v.UserID, "Voice join/leave spam")
			return
		}

		rec := h.Ledger.Get(v.GuildID, v.UserID)
		if !rec.Quarantined {
			h.Ledger.Adjust(v.GuildID, v.UserID, 1)
		}
	})

	// New member: ensure a trust record and run the quarantine policy.
	s.discord.AddHandler(func(sess *discordgo.Session, m *discordgo.GuildMemberAdd) {
		if m.GuildID == "" || m.User == nil {
			return
		}
		if !h.Approvals.IsApproved(m.GuildID) {
			return
		}

		created := util.SnowflakeTime(m.User.ID)
		if h.Supervisor.OnMemberJoin(m.GuildID, m.User.ID, created) {
			logging.Info("[EVENT] New member %s quarantined on arrival in guild %s", m.User.ID, m.GuildID)
		}
	})

	// Channel deletion: the anti-nuke detect-and-restore loop. Runs off the
	// gateway goroutine since it does several REST round-trips.
	s.discord.AddHandler(func(sess *discordgo.Session, c *discordgo.ChannelDelete) {
		if c.GuildID == "" {
			return
		}
		if !h.Approvals.IsApproved(c.GuildID) {
			return
		}
		go h.Controller.HandleChannelDelete(c.GuildID, c.ID)
	})

	// Guild settings changed: check for loss of the bot's admin capability.
	s.discord.AddHandler(func(sess *discordgo.Session, g *discordgo.GuildUpdate) {
		if !h.Approvals.IsApproved(g.ID) {
			return
		}
		go h.Controller.HandleGuildUpdate(g.ID)
	})

	logging.Info("Discord event handlers configured successfully")
}

// mentionCount counts user mentions, role mentions, and an @everyone ping.
func mentionCount(m *discordgo.Message) int {
	count := len(m.Mentions) + len(m.MentionRoles)
	if m.MentionEveryone {
		count++
	}
	return count
}
