package preview

import (
	"fmt"
	"log/slog"

	"github.com/go-co-op/gocron/v2"
)

// refresher triggers periodic rebuilds so remote documents are re-fetched.
type refresher struct {
	scheduler gocron.Scheduler
}

func (r *refresher) Stop() error {
	slog.Info("Stopping refresh scheduler")
	return r.scheduler.Shutdown()
}

// startRefresh schedules rebuilds every serve.refresh_interval. It returns nil
// when the interval is not positive.
func (s *Server) startRefresh() (*refresher, error) {
	interval := s.builder.Config().Serve.RefreshInterval
	if interval <= 0 {
		return nil, nil
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.requestRebuild),
		gocron.WithName("remote-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to create refresh job: %w", err)
	}

	sched.Start()
	slog.Info("Scheduled remote refresh", slog.Duration("interval", interval))
	return &refresher{scheduler: sched}, nil
}

// requestRebuild queues a rebuild without debouncing; a pending request absorbs it.
func (s *Server) requestRebuild() {
	select {
	case s.rebuildReq <- struct{}{}:
	default:
	}
}
