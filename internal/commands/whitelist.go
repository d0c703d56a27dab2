package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// handleWhitelistAdd handles /whitelist <user>.
func (h *Handler) handleWhitelistAdd(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !h.requireAdmin(s, i) {
		return nil
	}

	user := commandUser(i, s)
	if user == nil {
		return fmt.Errorf("no user given")
	}

	h.deps.Whitelist.Add(i.GuildID, user.ID)
	respondEphemeral(s, i, fmt.Sprintf("<@%s> added to whitelist.", user.ID))
	return nil
}

// handleWhitelistRemove handles /unwhitelist <user>.
func (h *Handler) handleWhitelistRemove(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !h.requireAdmin(s, i) {
		return nil
	}

	user := commandUser(i, s)
	if user == nil {
		return fmt.Errorf("no user given")
	}

	h.deps.Whitelist.Remove(i.GuildID, user.ID)
	respondEphemeral(s, i, fmt.Sprintf("<@%s> removed from whitelist.", user.ID))
	return nil
}
