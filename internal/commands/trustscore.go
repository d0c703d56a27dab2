package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// handleTrustScore handles /trustscore <user>.
func (h *Handler) handleTrustScore(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	user := commandUser(i, s)
	if user == nil {
		return fmt.Errorf("no user given")
	}

	rec := h.deps.Ledger.Get(i.GuildID, user.ID)

	quarantined := "No"
	if rec.Quarantined {
		quarantined = "Yes"
	}

	respondEphemeral(s, i, fmt.Sprintf("**Trust Score**: %.1f\nQuarantined: %s", rec.Trust, quarantined))
	return nil
}
