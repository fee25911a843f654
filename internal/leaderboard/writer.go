package leaderboard

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// retirement is one queued write.
type retirement struct {
	name     string
	score    int
	playTime time.Duration
}

// Writer decouples the tick loop from leaderboard persistence. Enqueue
// never blocks the caller; a full queue drops the record with a warning
// instead of stalling the simulation.
type Writer struct {
	store  *Store
	logger *zap.Logger

	queue chan retirement
	wg    sync.WaitGroup

	closeOnce sync.Once
}

// NewWriter starts the background worker. queueSize bounds how many
// pending retirements may be buffered.
func NewWriter(store *Store, queueSize int, logger *zap.Logger) *Writer {
	if queueSize <= 0 {
		queueSize = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Writer{
		store:  store,
		logger: logger,
		queue:  make(chan retirement, queueSize),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

// Enqueue schedules one retirement record for persistence.
func (w *Writer) Enqueue(name string, score int, playTime time.Duration) {
	select {
	case w.queue <- retirement{name: name, score: score, playTime: playTime}:
	default:
		w.logger.Warn("leaderboard queue full, dropping record",
			zap.String("name", name),
			zap.Int("score", score))
	}
}

// Close drains the queue and stops the worker.
func (w *Writer) Close() {
	w.closeOnce.Do(func() {
		close(w.queue)
	})
	w.wg.Wait()
}

func (w *Writer) run() {
	defer w.wg.Done()
	for r := range w.queue {
		if err := w.store.AddRetiredPlayer(r.name, r.score, r.playTime); err != nil {
			w.logger.Error("persist retired player",
				zap.String("name", r.name),
				zap.Int("score", r.score),
				zap.Error(err))
		}
	}
}
