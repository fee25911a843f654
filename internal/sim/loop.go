package sim

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"lost-and-hound/server/internal/world"
)

// LoopConfig tunes the fixed-timestep driver.
type LoopConfig struct {
	// TickPeriod is the target interval between simulation steps. Zero
	// or negative disables the background runner: the world then only
	// advances through explicit Tick calls (the manual test mode).
	TickPeriod time.Duration
	// CatchupMaxTicks caps how much wall-clock time a single delayed
	// step may absorb, in multiples of TickPeriod.
	CatchupMaxTicks int
	// Clock provides wall time for the runner. Nil means time.Now.
	Clock func() time.Time
}

// LoopHooks observe the loop without holding its lock.
type LoopHooks struct {
	// AfterTick receives a state snapshot taken right after each step.
	AfterTick func(world.Snapshot)
}

// Loop serializes all access to a World. The engine itself assumes a
// single logical actor; every operation below takes the loop's lock,
// so HTTP handlers and the background runner can share one instance.
type Loop struct {
	mu     sync.Mutex
	world  *world.World
	config LoopConfig
	hooks  LoopHooks
	logger *zap.Logger
}

// NewLoop wraps a world with the serialization lock and runner.
func NewLoop(w *world.World, cfg LoopConfig, hooks LoopHooks, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CatchupMaxTicks <= 0 {
		cfg.CatchupMaxTicks = 4
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Loop{world: w, config: cfg, hooks: hooks, logger: logger}
}

// Manual reports whether the loop runs in manual-tick mode.
func (l *Loop) Manual() bool {
	return l.config.TickPeriod <= 0
}

// Run drives the fixed-timestep loop until the stop channel closes.
// In manual mode it returns immediately.
func (l *Loop) Run(stop <-chan struct{}) {
	if l.Manual() {
		return
	}

	ticker := time.NewTicker(l.config.TickPeriod)
	defer ticker.Stop()

	maxDelta := l.config.TickPeriod * time.Duration(l.config.CatchupMaxTicks)
	last := l.config.Clock()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			now := l.config.Clock()
			delta := now.Sub(last)
			last = now
			if delta <= 0 {
				delta = l.config.TickPeriod
			} else if delta > maxDelta {
				l.logger.Warn("tick fell behind, clamping delta",
					zap.Duration("delta", delta),
					zap.Duration("max", maxDelta),
				)
				delta = maxDelta
			}
			l.Tick(delta)
		}
	}
}

// Tick advances the simulation by delta and publishes the resulting
// snapshot to the after-tick hook.
func (l *Loop) Tick(delta time.Duration) {
	l.mu.Lock()
	l.world.Tick(delta)
	var snap world.Snapshot
	if l.hooks.AfterTick != nil {
		snap = l.world.Snapshot()
	}
	l.mu.Unlock()

	if l.hooks.AfterTick != nil {
		l.hooks.AfterTick(snap)
	}
}

// JoinGame delegates to the world under the loop's lock.
func (l *Loop) JoinGame(name, mapID string) (world.JoinResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.world.JoinGame(name, mapID)
}

// SetPlayerAction delegates to the world under the loop's lock.
func (l *Loop) SetPlayerAction(playerID int, move string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.world.SetPlayerAction(playerID, move)
}

// FindPlayerByToken resolves a session token under the loop's lock.
// The returned copy is safe to use after the lock is released.
func (l *Loop) FindPlayerByToken(token string) (world.Player, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	player, ok := l.world.FindPlayerByToken(token)
	if !ok {
		return world.Player{}, false
	}
	return *player, true
}

// GetPlayers delegates to the world under the loop's lock.
func (l *Loop) GetPlayers(token string) []world.Player {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.world.GetPlayers(token)
}

// GetGameState delegates to the world under the loop's lock.
func (l *Loop) GetGameState(token string) []world.Player {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.world.GetGameState(token)
}

// Snapshot copies the world state under the loop's lock.
func (l *Loop) Snapshot() world.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.world.Snapshot()
}

// Maps returns the immutable map set. Map configuration never mutates
// after load, so no lock is needed for the returned descriptors.
func (l *Loop) Maps() []*world.Map {
	return l.world.Maps()
}

// FindMap resolves a map id.
func (l *Loop) FindMap(mapID string) (*world.Map, bool) {
	return l.world.FindMap(mapID)
}
