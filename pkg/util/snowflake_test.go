package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnowflakeTime(t *testing.T) {
	// Snowflake 175928847299117063 encodes 2016-04-30 11:18:25.796 UTC.
	got := SnowflakeTime("175928847299117063")
	want := time.Date(2016, 4, 30, 11, 18, 25, 796*int(time.Millisecond), time.UTC)
	assert.True(t, got.Equal(want), "got %s, want %s", got.UTC(), want)
}

func TestSnowflakeTimeInvalid(t *testing.T) {
	assert.True(t, SnowflakeTime("not-a-number").IsZero())
	assert.True(t, SnowflakeTime("").IsZero())
}

func TestAccountAge(t *testing.T) {
	id := "175928847299117063"
	created := SnowflakeTime(id)
	now := created.Add(72 * time.Hour)
	assert.Equal(t, 72*time.Hour, AccountAge(id, now))
	assert.Equal(t, time.Duration(0), AccountAge("garbage", now))
}

func TestMemberKey(t *testing.T) {
	assert.Equal(t, "g1:u1", MemberKey("g1", "u1"))
	assert.NotEqual(t, MemberKey("g1", "u2"), MemberKey("g1", "u1"))
}
