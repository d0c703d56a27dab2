package commands

import (
	"github.com/bwmarrin/discordgo"
)

// handleBackupNow handles /backupnow.
func (h *Handler) handleBackupNow(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !h.requireAdmin(s, i) {
		return nil
	}

	if err := h.deps.Snapshots.Capture(i.GuildID); err != nil {
		return err
	}

	respondEphemeral(s, i, "✅ Backup done.")
	return nil
}

// handleRestore handles /restore. Restore does REST round-trips per missing
// channel, so the reply is deferred.
func (h *Handler) handleRestore(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !h.requireAdmin(s, i) {
		return nil
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		return err
	}

	content := "✅ Restore completed."
	if !h.deps.Snapshots.Restore(i.GuildID) {
		content = "❌ No backup found."
	}

	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return err
}
