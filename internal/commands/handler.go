package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Zack-Nika/Francos-Security/internal/approval"
	"github.com/Zack-Nika/Francos-Security/internal/bot"
	"github.com/Zack-Nika/Francos-Security/internal/config"
	"github.com/Zack-Nika/Francos-Security/internal/database"
	"github.com/Zack-Nika/Francos-Security/internal/logging"
	"github.com/Zack-Nika/Francos-Security/internal/snapshot"
	"github.com/Zack-Nika/Francos-Security/internal/trust"
)

// Deps are the services the command handlers operate on.
type Deps struct {
	Cfg       *config.Config
	DB        *database.Database
	Approvals *approval.Set
	Whitelist *trust.Whitelist
	Ledger    *trust.Ledger
	Snapshots *snapshot.Manager
	Platform  *bot.PlatformAdapter
}

// Handler routes all interactions: slash commands and approval buttons.
type Handler struct {
	session *bot.Session
	deps    *Deps
}

var globalHandler *Handler

// Initialize registers the commands and installs the interaction handler.
func Initialize(session *bot.Session, deps *Deps) error {
	globalHandler = &Handler{session: session, deps: deps}

	session.AddHandler(globalHandler.handleInteraction)

	if err := session.RegisterCommands(GetAllCommands()); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	logging.Info("Command handler initialized")
	return nil
}

func (h *Handler) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h.handleCommand(s, i)
	case discordgo.InteractionMessageComponent:
		h.handleComponent(s, i)
	}
}

func (h *Handler) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	// Every command is rejected until the guild is approved.
	if i.GuildID == "" || !h.deps.Approvals.IsApproved(i.GuildID) {
		respondEphemeral(s, i, "❌ This server is not approved for Franco.")
		return
	}

	data := i.ApplicationCommandData()

	var err error
	switch data.Name {
	case "whitelist":
		err = h.handleWhitelistAdd(s, i)
	case "unwhitelist":
		err = h.handleWhitelistRemove(s, i)
	case "backupnow":
		err = h.handleBackupNow(s, i)
	case "restore":
		err = h.handleRestore(s, i)
	case "trustscore":
		err = h.handleTrustScore(s, i)
	case "nukeattempts":
		err = h.handleNukeAttempts(s, i)
	case "defcon":
		err = h.handleDefcon(s, i)
	case "status":
		err = h.handleStatus(s, i)
	default:
		err = fmt.Errorf("unknown command: %s", data.Name)
	}

	if err != nil {
		logging.Error("Command error [%s]: %v", data.Name, err)
		respondEphemeral(s, i, fmt.Sprintf("❌ Error: %s", err.Error()))
	}
}

func (h *Handler) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if approval.IsPromptButton(customID) {
		h.deps.Approvals.HandleButton(s, i, h.deps.Cfg.Bot.OwnerID)
		return
	}
	logging.Warn("Unknown component interaction: %s", customID)
}

// requireAdmin aborts mutating commands for non-administrators.
func (h *Handler) requireAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	var userID string
	if i.Member != nil && i.Member.User != nil {
		userID = i.Member.User.ID
	}
	if userID == "" || !h.deps.Platform.MemberIsAdmin(i.GuildID, userID) {
		respondEphemeral(s, i, "❌ You need Administrator permission to do that.")
		return false
	}
	return true
}

func commandUser(i *discordgo.InteractionCreate, s *discordgo.Session) *discordgo.User {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Type == discordgo.ApplicationCommandOptionUser {
			return opt.UserValue(s)
		}
	}
	return nil
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
