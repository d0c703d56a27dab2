package commands

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/Zack-Nika/Francos-Security/internal/database"
)

// handleStatus handles /status: bot health plus host system stats.
func (h *Handler) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	dbState := "❌ Disconnected"
	if database.IsConnected() {
		dbState = "✅ Connected"
	}

	backupState := "None"
	if h.deps.Snapshots.HasBackup(i.GuildID) {
		backupState = "✅ Present"
	}

	defcon := h.deps.DB.GetDefconLevel(i.GuildID)

	cpuUsage := "n/a"
	if percents, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(percents) > 0 {
		cpuUsage = fmt.Sprintf("%.1f%%", percents[0])
	}

	memUsage := "n/a"
	if vm, err := mem.VirtualMemory(); err == nil {
		memUsage = fmt.Sprintf("%.1f%% of %.1f GB", vm.UsedPercent, float64(vm.Total)/(1<<30))
	}

	uptime := "n/a"
	if up, err := host.Uptime(); err == nil {
		uptime = (time.Duration(up) * time.Second).String()
	}

	embed := &discordgo.MessageEmbed{
		Title: "🔱 Franco's Security — Status",
		Color: 0x00FF99,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Database", Value: dbState, Inline: true},
			{Name: "Backup", Value: backupState, Inline: true},
			{Name: "Defcon", Value: defcon, Inline: true},
			{Name: "CPU", Value: cpuUsage, Inline: true},
			{Name: "Memory", Value: memUsage, Inline: true},
			{Name: "Host Uptime", Value: uptime, Inline: true},
			{Name: "Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
		},
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}
