// Package notifier delivers fire-and-forget alerts to guild owners. Send
// failures are swallowed; alerting never blocks or fails a protection flow.
package notifier

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Zack-Nika/Francos-Security/internal/logging"
)

var discordSession *discordgo.Session

// SetSession installs the Discord session used for notifications.
func SetSession(session *discordgo.Session) {
	discordSession = session
}

// NotifyPunishment DMs the guild owner that a member was punished.
func NotifyPunishment(guildID, userID, reason string) {
	if discordSession == nil {
		return
	}

	go func() {
		guild, err := discordSession.Guild(guildID)
		if err != nil {
			logging.Debug("[NOTIFIER] Failed to fetch guild %s: %v", guildID, err)
			return
		}

		channel, err := discordSession.UserChannelCreate(guild.OwnerID)
		if err != nil {
			return
		}

		discordSession.ChannelMessageSend(channel.ID, fmt.Sprintf(
			"🚨 [%s] <@%s> was punished. Reason: %s", guild.Name, userID, reason))
	}()
}

// NotifyNukeAttempt DMs the guild owner an embed describing a blocked attack.
func NotifyNukeAttempt(guildID, attackType, attackerID string, restored bool) {
	if discordSession == nil {
		return
	}

	go func() {
		guild, err := discordSession.Guild(guildID)
		if err != nil {
			return
		}

		channel, err := discordSession.UserChannelCreate(guild.OwnerID)
		if err != nil {
			return
		}

		restoreLine := "No backup available to restore."
		if restored {
			restoreLine = "Structure restore triggered from the last backup."
		}

		embed := &discordgo.MessageEmbed{
			Title:       "🛡️ Nuke Attempt Blocked",
			Color:       0xED4245,
			Description: fmt.Sprintf("**Type:** %s\n**Attacker:** <@%s>\n%s", attackType, attackerID, restoreLine),
			Fields: []*discordgo.MessageEmbedField{
				{
					Name:   "🕐 Timestamp",
					Value:  fmt.Sprintf("<t:%d:F>", time.Now().Unix()),
					Inline: false,
				},
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text: "Franco's Security",
			},
		}

		discordSession.ChannelMessageSendEmbed(channel.ID, embed)
	}()
}
