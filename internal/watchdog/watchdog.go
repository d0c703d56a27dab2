// Package watchdog tracks heartbeats from long-running components and logs
// when one goes quiet past its threshold.
package watchdog

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Zack-Nika/Francos-Security/internal/logging"
)

type componentHealth struct {
	name          string
	lastHeartbeat int64
	healthy       uint32
	threshold     time.Duration
}

type Watchdog struct {
	mu            sync.RWMutex
	components    map[string]*componentHealth
	checkInterval time.Duration
	running       uint32
	done          chan struct{}
}

func New(checkInterval time.Duration) *Watchdog {
	return &Watchdog{
		components:    make(map[string]*componentHealth),
		checkInterval: checkInterval,
		done:          make(chan struct{}),
	}
}

// Register adds a component. A component that stays silent longer than its
// threshold is reported unhealthy until the next heartbeat.
func (w *Watchdog) Register(name string, threshold time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.components[name] = &componentHealth{
		name:          name,
		lastHeartbeat: time.Now().UnixNano(),
		healthy:       1,
		threshold:     threshold,
	}
}

// Heartbeat records liveness for a component.
func (w *Watchdog) Heartbeat(name string) {
	w.mu.RLock()
	comp := w.components[name]
	w.mu.RUnlock()
	if comp != nil {
		atomic.StoreInt64(&comp.lastHeartbeat, time.Now().UnixNano())
		atomic.StoreUint32(&comp.healthy, 1)
	}
}

func (w *Watchdog) Start() {
	if !atomic.CompareAndSwapUint32(&w.running, 0, 1) {
		return
	}
	go w.monitorLoop()
}

func (w *Watchdog) Stop() {
	if atomic.CompareAndSwapUint32(&w.running, 1, 0) {
		close(w.done)
	}
}

func (w *Watchdog) monitorLoop() {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.checkAll()
		}
	}
}

func (w *Watchdog) checkAll() {
	now := time.Now().UnixNano()

	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, comp := range w.components {
		last := atomic.LoadInt64(&comp.lastHeartbeat)
		silent := time.Duration(now - last)
		if silent > comp.threshold {
			if atomic.CompareAndSwapUint32(&comp.healthy, 1, 0) {
				logging.Warn("[WATCHDOG] Component %s silent for %s (threshold %s)",
					comp.name, silent.Round(time.Second), comp.threshold)
			}
		}
	}
}

// Healthy reports whether a component is currently healthy.
func (w *Watchdog) Healthy(name string) bool {
	w.mu.RLock()
	comp := w.components[name]
	w.mu.RUnlock()
	return comp != nil && atomic.LoadUint32(&comp.healthy) == 1
}
