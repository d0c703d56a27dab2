// Package trust owns the per-(guild,user) trust score and quarantine flag.
// All other components read and mutate trust only through the Ledger, which
// serializes mutations per member and writes every change through to the
// database immediately.
package trust

import (
	"hash/fnv"
	"sync"

	"github.com/Zack-Nika/Francos-Security/internal/database"
	"github.com/Zack-Nika/Francos-Security/internal/logging"
	"github.com/Zack-Nika/Francos-Security/pkg/util"
)

const lockStripes = 64

// Record is the caller-visible copy of one member's trust state.
type Record struct {
	GuildID     string
	UserID      string
	Trust       float64
	Quarantined bool
}

// Ledger is the single owner of trust state. A striped mutex table keyed by
// (guild,user) makes concurrent adjustments for the same member lossless.
type Ledger struct {
	db           *database.Database
	defaultTrust float64

	mu    sync.RWMutex
	cache map[string]*database.TrustRecord

	stripes [lockStripes]sync.Mutex
}

func NewLedger(db *database.Database, defaultTrust float64) *Ledger {
	return &Ledger{
		db:           db,
		defaultTrust: defaultTrust,
		cache:        make(map[string]*database.TrustRecord),
	}
}

func (l *Ledger) stripe(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &l.stripes[h.Sum32()%lockStripes]
}

// Get returns the member's trust record, creating one with the default trust
// on first observation. The creation is persisted immediately.
func (l *Ledger) Get(guildID, userID string) Record {
	key := util.MemberKey(guildID, userID)
	lock := l.stripe(key)
	lock.Lock()
	defer lock.Unlock()

	rec := l.load(key, guildID, userID)
	return Record{
		GuildID:     rec.GuildID,
		UserID:      rec.UserID,
		Trust:       rec.Trust,
		Quarantined: rec.Quarantined,
	}
}

// Adjust adds delta to the member's trust, clamps to [0,100], persists, and
// returns the new value. Always succeeds; persistence failures are logged.
func (l *Ledger) Adjust(guildID, userID string, delta float64) float64 {
	key := util.MemberKey(guildID, userID)
	lock := l.stripe(key)
	lock.Lock()
	defer lock.Unlock()

	rec := l.load(key, guildID, userID)
	rec.Trust = clamp(rec.Trust + delta)
	l.persist(rec)
	return rec.Trust
}

// SetQuarantine sets the member's quarantine flag and persists.
func (l *Ledger) SetQuarantine(guildID, userID string, quarantined bool) {
	key := util.MemberKey(guildID, userID)
	lock := l.stripe(key)
	lock.Lock()
	defer lock.Unlock()

	rec := l.load(key, guildID, userID)
	rec.Quarantined = quarantined
	l.persist(rec)
}

// load returns the cached record for key, falling back to the database and
// finally to a freshly created default. Callers hold the stripe lock.
func (l *Ledger) load(key, guildID, userID string) *database.TrustRecord {
	l.mu.RLock()
	rec, ok := l.cache[key]
	l.mu.RUnlock()
	if ok {
		return rec
	}

	if l.db != nil {
		stored, err := l.db.GetTrustRecord(guildID, userID)
		if err != nil {
			logging.Warn("[TRUST] Failed to read record %s/%s: %v", guildID, userID, err)
		}
		if stored != nil {
			l.mu.Lock()
			l.cache[key] = stored
			l.mu.Unlock()
			return stored
		}
	}

	rec = &database.TrustRecord{
		GuildID: guildID,
		UserID:  userID,
		Trust:   l.defaultTrust,
	}
	l.mu.Lock()
	l.cache[key] = rec
	l.mu.Unlock()
	l.persist(rec)
	return rec
}

func (l *Ledger) persist(rec *database.TrustRecord) {
	if l.db == nil {
		return
	}
	if err := l.db.UpsertTrustRecord(rec); err != nil {
		logging.Warn("[TRUST] Failed to persist record %s/%s: %v", rec.GuildID, rec.UserID, err)
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
