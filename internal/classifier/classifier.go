// Package classifier flags flood-style abuse (message bursts, reaction
// floods, voice-join churn) from per-member counters held in memory only.
// State rebuilds from zero on restart; flood signals are short-horizon.
package classifier

import (
	"sync"
	"time"

	"github.com/Zack-Nika/Francos-Security/internal/config"
	"github.com/Zack-Nika/Francos-Security/pkg/util"
)

// EventKind selects which counter a qualifying event feeds.
type EventKind uint8

const (
	EventMessage EventKind = iota
	EventReaction
	EventVoiceJoin
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventReaction:
		return "reaction"
	case EventVoiceJoin:
		return "voice_join"
	default:
		return "unknown"
	}
}

type window struct {
	lastMessage   time.Time
	messageCount  int
	reactionCount int
	voiceJoins    int
}

// Classifier decides whether a member's event stream looks like a flood.
// Flagging carries no side effect; the caller decides what to do about it.
type Classifier struct {
	cfg *config.DetectionConfig

	mu      sync.Mutex
	windows map[string]*window

	now func() time.Time
}

func New(cfg *config.DetectionConfig) *Classifier {
	return &Classifier{
		cfg:     cfg,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Classify records one event and reports whether the member is flagged.
// Exempt members (administrators, whitelisted users) are never flagged and
// never accumulate window state.
func (c *Classifier) Classify(guildID, userID string, kind EventKind, exempt bool) bool {
	if exempt {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := util.MemberKey(guildID, userID)
	w, ok := c.windows[key]
	now := c.now()
	if !ok {
		w = &window{lastMessage: now}
		c.windows[key] = w
	}

	switch kind {
	case EventMessage:
		gap := now.Sub(w.lastMessage)
		w.messageCount++
		w.lastMessage = now
		// The count is cumulative for the life of the window entry, so once a
		// member passes the burst count any later rapid pair flags too. This
		// matches the behavior the trust thresholds were tuned against.
		return w.messageCount > c.cfg.MessageBurstCount && gap < c.cfg.MessageBurstGap()
	case EventReaction:
		w.reactionCount++
		return w.reactionCount > c.cfg.ReactionFloodCount
	case EventVoiceJoin:
		w.voiceJoins++
		return w.voiceJoins > c.cfg.VoiceJoinFlood
	default:
		return false
	}
}

// Reset drops a member's window, used when a punished member leaves.
func (c *Classifier) Reset(guildID, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.windows, util.MemberKey(guildID, userID))
}
