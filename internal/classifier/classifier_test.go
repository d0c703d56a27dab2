package classifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Zack-Nika/Francos-Security/internal/config"
)

func newTestClassifier() (*Classifier, *time.Time) {
	cfg := config.DefaultConfig()
	c := New(&cfg.Detection)
	now := time.Now()
	c.now = func() time.Time { return now }
	return c, &now
}

func TestExemptionInvariant(t *testing.T) {
	c, _ := newTestClassifier()

	// Exempt members are never flagged, whatever the volume.
	for i := 0; i < 100; i++ {
		assert.False(t, c.Classify("g1", "admin", EventMessage, true))
		assert.False(t, c.Classify("g1", "admin", EventReaction, true))
		assert.False(t, c.Classify("g1", "admin", EventVoiceJoin, true))
	}

	// And exemption must not have accumulated window state: a burst after
	// losing exemption starts from zero.
	assert.False(t, c.Classify("g1", "admin", EventMessage, false))
}

func TestMessageBurstFlagsOnSixth(t *testing.T) {
	c, now := newTestClassifier()

	for i := 0; i < 5; i++ {
		*now = now.Add(100 * time.Millisecond)
		assert.False(t, c.Classify("g1", "u1", EventMessage, false), "message %d", i+1)
	}

	*now = now.Add(100 * time.Millisecond)
	assert.True(t, c.Classify("g1", "u1", EventMessage, false), "sixth rapid message must flag")

	// Every subsequent rapid message stays flagged.
	for i := 0; i < 3; i++ {
		*now = now.Add(100 * time.Millisecond)
		assert.True(t, c.Classify("g1", "u1", EventMessage, false))
	}
}

func TestSlowMessagesDoNotFlagUntilRapidPair(t *testing.T) {
	c, now := newTestClassifier()

	// Ten slow messages: count passes the burst limit but gaps stay wide.
	for i := 0; i < 10; i++ {
		*now = now.Add(10 * time.Second)
		assert.False(t, c.Classify("g1", "u1", EventMessage, false))
	}

	// The count never resets, so the first rapid follow-up flags.
	*now = now.Add(500 * time.Millisecond)
	assert.True(t, c.Classify("g1", "u1", EventMessage, false))
}

func TestReactionFlood(t *testing.T) {
	c, _ := newTestClassifier()

	for i := 0; i < 20; i++ {
		assert.False(t, c.Classify("g1", "u1", EventReaction, false), "reaction %d", i+1)
	}
	assert.True(t, c.Classify("g1", "u1", EventReaction, false), "21st reaction must flag")
}

func TestVoiceJoinFlood(t *testing.T) {
	c, _ := newTestClassifier()

	for i := 0; i < 3; i++ {
		assert.False(t, c.Classify("g1", "u1", EventVoiceJoin, false), "join %d", i+1)
	}
	assert.True(t, c.Classify("g1", "u1", EventVoiceJoin, false), "4th join must flag")
}

func TestWindowsArePerMember(t *testing.T) {
	c, _ := newTestClassifier()

	for i := 0; i < 25; i++ {
		c.Classify("g1", "u1", EventReaction, false)
	}
	assert.True(t, c.Classify("g1", "u1", EventReaction, false))
	assert.False(t, c.Classify("g1", "u2", EventReaction, false))
	assert.False(t, c.Classify("g2", "u1", EventReaction, false))
}

func TestResetDropsWindow(t *testing.T) {
	c, _ := newTestClassifier()

	for i := 0; i < 25; i++ {
		c.Classify("g1", "u1", EventReaction, false)
	}
	assert.True(t, c.Classify("g1", "u1", EventReaction, false))

	c.Reset("g1", "u1")
	assert.False(t, c.Classify("g1", "u1", EventReaction, false))
}
