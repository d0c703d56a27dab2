package config

import "time"

type Config struct {
	Bot        BotConfig        `json:"bot"`
	Storage    StorageConfig    `json:"storage"`
	Detection  DetectionConfig  `json:"detection"`
	Quarantine QuarantineConfig `json:"quarantine"`
	Network    NetworkConfig    `json:"network"`
}

type BotConfig struct {
	Token    string `json:"token"`
	ClientID string `json:"client_id"`
	// OwnerID is the operator who approves or rejects new guilds over DM.
	OwnerID string `json:"owner_id"`
}

type StorageConfig struct {
	DatabasePath string `json:"database_path"`
	LogFile      string `json:"log_file"`
}

type DetectionConfig struct {
	// MessageBurstCount messages with gaps under MessageBurstGapMS flag a flood.
	MessageBurstCount  int `json:"message_burst_count"`
	MessageBurstGapMS  int `json:"message_burst_gap_ms"`
	ReactionFloodCount int `json:"reaction_flood_count"`
	VoiceJoinFlood     int `json:"voice_join_flood"`
	MaxMentions        int `json:"max_mentions"`
}

type QuarantineConfig struct {
	DefaultTrust     float64 `json:"default_trust"`
	EntryThreshold   float64 `json:"entry_threshold"`
	ReleaseThreshold float64 `json:"release_threshold"`
	MinAccountDays   int     `json:"min_account_days"`
	ReleaseDelayMins int     `json:"release_delay_mins"`
	RoleName         string  `json:"role_name"`
	RoleColor        int     `json:"role_color"`
}

type NetworkConfig struct {
	HTTPPoolSize int    `json:"http_pool_size"`
	WorkerCount  int    `json:"worker_count"`
	APIBaseURL   string `json:"api_base_url"`
}

func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			DatabasePath: "franco.db",
			LogFile:      "franco.log",
		},
		Detection: DetectionConfig{
			MessageBurstCount:  5,
			MessageBurstGapMS:  3000,
			ReactionFloodCount: 20,
			VoiceJoinFlood:     3,
			MaxMentions:        5,
		},
		Quarantine: QuarantineConfig{
			DefaultTrust:     50,
			EntryThreshold:   30,
			ReleaseThreshold: 40,
			MinAccountDays:   3,
			ReleaseDelayMins: 20,
			RoleName:         "🔒 Quarantined",
			RoleColor:        0x808080,
		},
		Network: NetworkConfig{
			HTTPPoolSize: 4,
			WorkerCount:  2,
			APIBaseURL:   "https://discord.com/api/v10",
		},
	}
}

// ReleaseDelay returns the quarantine release delay as a duration.
func (q *QuarantineConfig) ReleaseDelay() time.Duration {
	return time.Duration(q.ReleaseDelayMins) * time.Minute
}

// MinAccountAge returns the minimum account age as a duration.
func (q *QuarantineConfig) MinAccountAge() time.Duration {
	return time.Duration(q.MinAccountDays) * 24 * time.Hour
}

// MessageBurstGap returns the message burst gap as a duration.
func (d *DetectionConfig) MessageBurstGap() time.Duration {
	return time.Duration(d.MessageBurstGapMS) * time.Millisecond
}
