package database

import (
	"database/sql"
	"time"
)

// ===== Approved guilds =====

// ApproveGuild records a guild as approved for protection.
func (d *Database) ApproveGuild(guildID string) error {
	_, err := d.db.Exec(
		`INSERT OR IGNORE INTO approved_guilds (guild_id, approved_at) VALUES (?, ?)`,
		guildID, time.Now().Unix(),
	)
	return err
}

// RemoveApprovedGuild drops a guild from the approved set.
func (d *Database) RemoveApprovedGuild(guildID string) error {
	_, err := d.db.Exec(`DELETE FROM approved_guilds WHERE guild_id = ?`, guildID)
	return err
}

// IsGuildApproved checks whether a guild is in the approved set.
func (d *Database) IsGuildApproved(guildID string) bool {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM approved_guilds WHERE guild_id = ?`, guildID,
	).Scan(&count)
	return err == nil && count > 0
}

// GetApprovedGuilds returns every approved guild id.
func (d *Database) GetApprovedGuilds() ([]string, error) {
	rows, err := d.db.Query(`SELECT guild_id FROM approved_guilds`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ===== Whitelist =====

// AddWhitelist adds a user to a guild's whitelist.
func (d *Database) AddWhitelist(guildID, userID string) error {
	_, err := d.db.Exec(
		`INSERT OR IGNORE INTO whitelist (guild_id, user_id, created_at) VALUES (?, ?, ?)`,
		guildID, userID, time.Now().Unix(),
	)
	return err
}

// RemoveWhitelist removes a user from a guild's whitelist.
func (d *Database) RemoveWhitelist(guildID, userID string) error {
	_, err := d.db.Exec(
		`DELETE FROM whitelist WHERE guild_id = ? AND user_id = ?`,
		guildID, userID,
	)
	return err
}

// IsWhitelisted checks whether a user is whitelisted in a guild.
func (d *Database) IsWhitelisted(guildID, userID string) bool {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM whitelist WHERE guild_id = ? AND user_id = ?`,
		guildID, userID,
	).Scan(&count)
	return err == nil && count > 0
}

// GetWhitelist returns all whitelisted user ids for a guild.
func (d *Database) GetWhitelist(guildID string) ([]string, error) {
	rows, err := d.db.Query(
		`SELECT user_id FROM whitelist WHERE guild_id = ?`, guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetAllWhitelists returns the full whitelist map across guilds, used to
// hydrate the in-memory cache at startup.
func (d *Database) GetAllWhitelists() (map[string][]string, error) {
	rows, err := d.db.Query(`SELECT guild_id, user_id FROM whitelist`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var guildID, userID string
		if err := rows.Scan(&guildID, &userID); err != nil {
			return nil, err
		}
		out[guildID] = append(out[guildID], userID)
	}
	return out, rows.Err()
}

// ===== Trust records =====

// GetTrustRecord fetches one trust record, or nil when none exists.
func (d *Database) GetTrustRecord(guildID, userID string) (*TrustRecord, error) {
	var rec TrustRecord
	var quarantined int
	err := d.db.QueryRow(
		`SELECT guild_id, user_id, trust, quarantined, updated_at
		 FROM trust_records WHERE guild_id = ? AND user_id = ?`,
		guildID, userID,
	).Scan(&rec.GuildID, &rec.UserID, &rec.Trust, &quarantined, &rec.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.Quarantined = quarantined != 0
	return &rec, nil
}

// UpsertTrustRecord writes a trust record through to disk.
func (d *Database) UpsertTrustRecord(rec *TrustRecord) error {
	quarantined := 0
	if rec.Quarantined {
		quarantined = 1
	}
	rec.UpdatedAt = time.Now().Unix()

	_, err := d.db.Exec(
		`INSERT OR REPLACE INTO trust_records (guild_id, user_id, trust, quarantined, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.GuildID, rec.UserID, rec.Trust, quarantined, rec.UpdatedAt,
	)
	return err
}

// GetGuildTrustRecords returns all trust records for a guild.
func (d *Database) GetGuildTrustRecords(guildID string) ([]*TrustRecord, error) {
	rows, err := d.db.Query(
		`SELECT guild_id, user_id, trust, quarantined, updated_at
		 FROM trust_records WHERE guild_id = ?`,
		guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*TrustRecord
	for rows.Next() {
		var rec TrustRecord
		var quarantined int
		if err := rows.Scan(&rec.GuildID, &rec.UserID, &rec.Trust, &quarantined, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.Quarantined = quarantined != 0
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// ===== Nuke attempts =====

// LogNukeAttempt appends an entry to a guild's attack log.
func (d *Database) LogNukeAttempt(guildID, attackType, attackerID string) error {
	_, err := d.db.Exec(
		`INSERT INTO nuke_attempts (guild_id, attack_type, attacker_id, timestamp)
		 VALUES (?, ?, ?, ?)`,
		guildID, attackType, attackerID, time.Now().Unix(),
	)
	return err
}

// GetNukeAttempts returns a guild's attack log, oldest first.
func (d *Database) GetNukeAttempts(guildID string) ([]*NukeAttempt, error) {
	rows, err := d.db.Query(
		`SELECT id, guild_id, attack_type, attacker_id, timestamp
		 FROM nuke_attempts WHERE guild_id = ? ORDER BY id`,
		guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []*NukeAttempt
	for rows.Next() {
		var a NukeAttempt
		if err := rows.Scan(&a.ID, &a.GuildID, &a.AttackType, &a.AttackerID, &a.Timestamp); err != nil {
			return nil, err
		}
		attempts = append(attempts, &a)
	}
	return attempts, rows.Err()
}

// ===== Guild backups =====

// SaveGuildBackup overwrites the single stored snapshot for a guild.
func (d *Database) SaveGuildBackup(guildID string, data []byte) error {
	_, err := d.db.Exec(
		`INSERT OR REPLACE INTO guild_backups (guild_id, data, captured_at) VALUES (?, ?, ?)`,
		guildID, string(data), time.Now().Unix(),
	)
	return err
}

// GetGuildBackup returns the stored snapshot document, or nil when none exists.
func (d *Database) GetGuildBackup(guildID string) ([]byte, error) {
	var data string
	err := d.db.QueryRow(
		`SELECT data FROM guild_backups WHERE guild_id = ?`, guildID,
	).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

// ===== Guild settings =====

// SetDefconLevel stores the announced defcon level for a guild.
func (d *Database) SetDefconLevel(guildID, level string) error {
	_, err := d.db.Exec(
		`INSERT OR REPLACE INTO guild_settings (guild_id, defcon_level, updated_at)
		 VALUES (?, ?, ?)`,
		guildID, level, time.Now().Unix(),
	)
	return err
}

// GetDefconLevel returns a guild's defcon level, defaulting to "low".
func (d *Database) GetDefconLevel(guildID string) string {
	var level string
	err := d.db.QueryRow(
		`SELECT defcon_level FROM guild_settings WHERE guild_id = ?`, guildID,
	).Scan(&level)
	if err != nil {
		return "low"
	}
	return level
}
