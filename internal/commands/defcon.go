package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// handleDefcon handles /defcon <level>. The level is stored and announced;
// no enforcement hangs off it yet.
func (h *Handler) handleDefcon(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !h.requireAdmin(s, i) {
		return nil
	}

	var level string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "level" {
			level = opt.StringValue()
		}
	}

	switch level {
	case "low", "med", "high":
	default:
		return fmt.Errorf("invalid level: %s", level)
	}

	if err := h.deps.DB.SetDefconLevel(i.GuildID, level); err != nil {
		return err
	}

	var announcement string
	switch level {
	case "low":
		announcement = "Defcon set to LOW: normal ops."
	case "med":
		announcement = "Defcon set to MED: restricting invites."
	case "high":
		announcement = "Defcon set to HIGH: locking channels for non-whitelist."
	}

	respondEphemeral(s, i, announcement)
	return nil
}
