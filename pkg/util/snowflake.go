package util

import (
	"strconv"
	"time"
)

// Discord epoch: first second of 2015, in milliseconds.
const discordEpochMS = 1420070400000

// SnowflakeTime extracts the creation time embedded in a Discord snowflake ID.
// Returns the zero time if the ID is not a valid snowflake.
func SnowflakeTime(id string) time.Time {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return time.Time{}
	}
	ms := int64(n>>22) + discordEpochMS
	return time.UnixMilli(ms)
}

// AccountAge returns how long ago the account behind the snowflake was created.
func AccountAge(id string, now time.Time) time.Duration {
	created := SnowflakeTime(id)
	if created.IsZero() {
		return 0
	}
	return now.Sub(created)
}
