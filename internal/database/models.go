package database

// TrustRecord is the persisted trust state for one member of one guild.
type TrustRecord struct {
	GuildID     string
	UserID      string
	Trust       float64
	Quarantined bool
	UpdatedAt   int64
}

// NukeAttempt is one append-only entry in a guild's attack log.
type NukeAttempt struct {
	ID         int64
	GuildID    string
	AttackType string
	AttackerID string
	Timestamp  int64
}

// GuildSettings holds operator-adjustable per-guild settings.
type GuildSettings struct {
	GuildID     string
	DefconLevel string
	UpdatedAt   int64
}
