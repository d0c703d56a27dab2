package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// handleNukeAttempts handles /nukeattempts.
func (h *Handler) handleNukeAttempts(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	attempts, err := h.deps.DB.GetNukeAttempts(i.GuildID)
	if err != nil {
		return err
	}

	if len(attempts) == 0 {
		respondEphemeral(s, i, "No recorded nuke attempts.")
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**Nuke Attempts Blocked**: %d\n", len(attempts))
	for idx, a := range attempts {
		when := time.Unix(a.Timestamp, 0).UTC().Format("2006-01-02 15:04:05 UTC")
		fmt.Fprintf(&sb, "\n%d) Type: %s\nAttacker: <@%s> - Time: %s\n", idx+1, a.AttackType, a.AttackerID, when)
	}

	respondEphemeral(s, i, sb.String())
	return nil
}
