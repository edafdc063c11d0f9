package portfolio

import (
	"context"
	"sync"
	"time"
)

// Scheduler rescores a fixed watchlist through the collector on every tick.
type Scheduler struct {
	runner    *Runner
	watchlist []string
	interval  time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewScheduler(r *Runner, watchlist []string, interval time.Duration) *Scheduler {
	return &Scheduler{
		runner:    r,
		watchlist: watchlist,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start launches the refresh loop. It returns false, without starting
// anything, when there is nothing to refresh or no collector to refresh from.
func (s *Scheduler) Start(ctx context.Context) bool {
	if s.interval <= 0 || len(s.watchlist) == 0 || s.runner.collector == nil {
		return false
	}
	s.wg.Add(1)
	go s.refreshLoop(ctx)
	return true
}

func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

func (s *Scheduler) refreshLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *Scheduler) refresh(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	report, err := s.runner.ScoreTickers(runCtx, s.watchlist)
	if err != nil {
		s.runner.logger.Error("scheduled refresh failed", "error", err)
		return
	}
	if report.Failed > 0 {
		s.runner.logger.Warn("scheduled refresh left gaps", "run_id", report.RunID, "failed", report.Failed)
	}
}
