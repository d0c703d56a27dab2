package approval

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Zack-Nika/Francos-Security/internal/logging"
)

const (
	approveButtonPrefix = "approve_guild:"
	rejectButtonPrefix  = "reject_guild:"
)

// SendPrompt DMs the operator an approve/reject prompt for a newly joined
// guild. Failures are logged and swallowed; the guild simply stays
// unapproved until the operator acts.
func SendPrompt(s *discordgo.Session, ownerID string, guild *discordgo.Guild) {
	channel, err := s.UserChannelCreate(ownerID)
	if err != nil {
		logging.Warn("[APPROVAL] Failed to open DM with operator %s: %v", ownerID, err)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "New Server Joined 🌐",
		Description: fmt.Sprintf("**%s**\nMembers: %d\nOwner: <@%s>\n\nApprove or Reject?",
			guild.Name, guild.MemberCount, guild.OwnerID),
		Color: 0x00FF99,
	}

	_, err = s.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Approve ✅",
						Style:    discordgo.SuccessButton,
						CustomID: approveButtonPrefix + guild.ID,
					},
					discordgo.Button{
						Label:    "Reject ❌",
						Style:    discordgo.DangerButton,
						CustomID: rejectButtonPrefix + guild.ID,
					},
				},
			},
		},
	})
	if err != nil {
		logging.Warn("[APPROVAL] Failed to send approval prompt for guild %s: %v", guild.ID, err)
	}
}

// IsPromptButton reports whether a component interaction belongs to the
// approval flow.
func IsPromptButton(customID string) bool {
	return strings.HasPrefix(customID, approveButtonPrefix) || strings.HasPrefix(customID, rejectButtonPrefix)
}

// HandleButton resolves an approve/reject button press. Only the configured
// operator may press them.
func (set *Set) HandleButton(s *discordgo.Session, i *discordgo.InteractionCreate, ownerID string) {
	var presser string
	if i.User != nil {
		presser = i.User.ID
	} else if i.Member != nil && i.Member.User != nil {
		presser = i.Member.User.ID
	}
	if presser != ownerID {
		respond(s, i, "Only the bot operator can do that.")
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, approveButtonPrefix):
		guildID := strings.TrimPrefix(customID, approveButtonPrefix)
		set.Approve(guildID)
		respond(s, i, fmt.Sprintf("✅ Approved guild `%s`", guildID))

	case strings.HasPrefix(customID, rejectButtonPrefix):
		guildID := strings.TrimPrefix(customID, rejectButtonPrefix)
		respond(s, i, fmt.Sprintf("❌ Rejected. Leaving guild `%s`...", guildID))
		if err := s.GuildLeave(guildID); err != nil {
			logging.Warn("[APPROVAL] Failed to leave rejected guild %s: %v", guildID, err)
		}
	}
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
