package commands

import "github.com/bwmarrin/discordgo"

// GetAllCommands returns the slash command definitions.
func GetAllCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "whitelist",
			Description: "Add a user to the whitelist",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "User to whitelist",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
			},
		},
		{
			Name:        "unwhitelist",
			Description: "Remove a user from the whitelist",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "User to remove from the whitelist",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
			},
		},
		{
			Name:        "backupnow",
			Description: "Back up the server structure now",
		},
		{
			Name:        "restore",
			Description: "Restore missing channels from the last backup",
		},
		{
			Name:        "trustscore",
			Description: "Check a user's trust score",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "User to check",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
			},
		},
		{
			Name:        "nukeattempts",
			Description: "Show blocked nuke attempts",
		},
		{
			Name:        "defcon",
			Description: "Set defcon level (low/med/high)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "level",
					Description: "Choose a level",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "low", Value: "low"},
						{Name: "med", Value: "med"},
						{Name: "high", Value: "high"},
					},
				},
			},
		},
		{
			Name:        "status",
			Description: "Show bot and system status",
		},
	}
}
