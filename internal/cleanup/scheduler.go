// Package cleanup deletes temporary artifacts after a fixed delay.
package cleanup

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs deferred best-effort file deletions. Deletion failures
// are logged and swallowed; they run after the response has been sent
// and must never surface to a caller.
type Scheduler struct {
	logger *zap.Logger

	mu     sync.Mutex
	nextID int
	timers map[int]*time.Timer
}

// NewScheduler creates a cleanup scheduler.
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		logger: logger,
		timers: make(map[int]*time.Timer),
	}
}

// Schedule registers a detached task that removes paths after delay.
// It never blocks the caller.
func (s *Scheduler) Schedule(delay time.Duration, paths ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	s.timers[id] = time.AfterFunc(delay, func() {
		s.remove(paths)

		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
	})

	s.logger.Debug("Cleanup scheduled",
		zap.Duration("delay", delay),
		zap.Strings("paths", paths))
}

// Stop cancels all outstanding cleanup timers. Artifacts whose timers
// had not fired are left on disk.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}

	s.logger.Info("Cleanup scheduler stopped")
}

func (s *Scheduler) remove(paths []string) {
	for _, path := range paths {
		err := os.Remove(path)
		switch {
		case err == nil:
			s.logger.Debug("Removed temporary artifact", zap.String("path", path))
		case os.IsNotExist(err):
			// Already gone, nothing to do.
		default:
			s.logger.Warn("Failed to remove temporary artifact",
				zap.String("path", path),
				zap.Error(err))
		}
	}
}
