package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/minglemoody/funnel-tracker/internal/logger"
)

// flushTimeout bounds each background flush write.
const flushTimeout = 5 * time.Second

// TimeSpentWriter is the single write the time tracker performs.
type TimeSpentWriter interface {
	UpdateTimeSpent(ctx context.Context, sessionID string, seconds int) error
}

type sessionTiming struct {
	start    time.Time
	lastSeen time.Time
}

// TimeTracker owns all time-spent state for live sessions. Elapsed time
// is always computed from the fixed session-start reference, never by
// summing deltas, so repeated flushes cannot compound drift and the
// persisted value only grows. A failed write is logged and skipped; the
// next tick retries independently.
type TimeTracker struct {
	store    TimeSpentWriter
	log      logger.Logger
	clock    func() time.Time
	interval time.Duration
	idleTTL  time.Duration

	mu       sync.Mutex
	sessions map[string]sessionTiming

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewTimeTracker creates a TimeTracker flushing every interval and
// evicting sessions unseen for idleTTL. clock may be nil for real time.
func NewTimeTracker(
	store TimeSpentWriter,
	interval, idleTTL time.Duration,
	log logger.Logger,
	clock func() time.Time,
) *TimeTracker {
	if clock == nil {
		clock = time.Now
	}

	return &TimeTracker{
		store:    store,
		log:      log,
		clock:    clock,
		interval: interval,
		idleTTL:  idleTTL,
		sessions: make(map[string]sessionTiming),
		done:     make(chan struct{}),
	}
}

// Observe registers a session on its first page view and refreshes its
// activity marker on every subsequent one. The start reference is set
// exactly once per session.
func (t *TimeTracker) Observe(sessionID string) {
	now := t.clock()

	t.mu.Lock()
	defer t.mu.Unlock()

	timing, ok := t.sessions[sessionID]
	if !ok {
		timing.start = now
	}
	timing.lastSeen = now
	t.sessions[sessionID] = timing
}

// Elapsed returns the seconds since the session's start reference, or
// zero for a session the tracker has never observed.
func (t *TimeTracker) Elapsed(sessionID string) int {
	t.mu.Lock()
	timing, ok := t.sessions[sessionID]
	t.mu.Unlock()

	if !ok {
		return 0
	}
	return int(t.clock().Sub(timing.start).Seconds())
}

// Flush writes the session's elapsed time now. Unknown sessions are a
// no-op.
func (t *TimeTracker) Flush(ctx context.Context, sessionID string) {
	t.mu.Lock()
	timing, ok := t.sessions[sessionID]
	if ok {
		timing.lastSeen = t.clock()
		t.sessions[sessionID] = timing
	}
	t.mu.Unlock()

	if !ok {
		return
	}

	t.write(ctx, sessionID, timing.start)
}

// Start launches the background flush loop. Calling Start more than once
// never spawns a second loop.
func (t *TimeTracker) Start() {
	t.startOnce.Do(func() {
		t.wg.Add(1)
		go t.flushLoop()
	})
}

// Stop terminates the loop after one final flush of every live session.
// Safe to call any number of times, from any goroutine.
func (t *TimeTracker) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
		t.wg.Wait()
		t.flushAll()
	})
}

func (t *TimeTracker) flushLoop() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.flushAll()
			t.evictIdle()
		case <-t.done:
			return
		}
	}
}

func (t *TimeTracker) flushAll() {
	t.mu.Lock()
	snapshot := make(map[string]time.Time, len(t.sessions))
	for id, timing := range t.sessions {
		snapshot[id] = timing.start
	}
	t.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	for id, start := range snapshot {
		t.write(ctx, id, start)
	}
}

// evictIdle drops sessions whose tab is long gone so the in-memory set
// stays bounded. Their final flush already happened in flushAll.
func (t *TimeTracker) evictIdle() {
	now := t.clock()

	t.mu.Lock()
	defer t.mu.Unlock()

	for id, timing := range t.sessions {
		if now.Sub(timing.lastSeen) > t.idleTTL {
			delete(t.sessions, id)
		}
	}
}

func (t *TimeTracker) write(ctx context.Context, sessionID string, start time.Time) {
	seconds := int(t.clock().Sub(start).Seconds())
	if seconds < 0 {
		seconds = 0
	}

	if err := t.store.UpdateTimeSpent(ctx, sessionID, seconds); err != nil {
		t.log.Warn("Failed to flush time spent",
			logger.String("session_id", sessionID),
			logger.Int("seconds", seconds),
			logger.Error(err),
		)
	}
}
