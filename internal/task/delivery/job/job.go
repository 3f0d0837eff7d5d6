package job

import (
	"context"
	"time"

	pkgLog "time-tracking-bot/pkg/log"
)

// Run sweeps after FirstDelay and then every Interval until ctx is done.
func (j *AutoCloser) Run(ctx context.Context) error {
	j.l.Infof(ctx, "job.AutoCloser.Run: started, interval=%s", j.cfg.Interval)

	select {
	case <-ctx.Done():
		return nil
	case <-time.After(j.cfg.FirstDelay):
	}
	j.RunOnce(ctx)

	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.l.Info(ctx, "job.AutoCloser.Run: stopped")
			return nil
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep and notifies the owners of closed tasks.
// It returns the number of tasks closed.
func (j *AutoCloser) RunOnce(ctx context.Context) int {
	ctx = pkgLog.WithTraceID(ctx, "")

	out, err := j.uc.AutoCloseSweep(ctx, j.now())
	if err != nil {
		j.l.Errorf(ctx, "job.AutoCloser.RunOnce: sweep failed: %v", err)
		return 0
	}
	if out.Failed > 0 {
		j.l.Warnf(ctx, "job.AutoCloser.RunOnce: %d users failed", out.Failed)
	}
	if len(out.Closed) > 0 {
		j.l.Infof(ctx, "job.AutoCloser.RunOnce: closed %d tasks", len(out.Closed))
	}

	if j.notifier == nil {
		return len(out.Closed)
	}
	for _, closed := range out.Closed {
		if err := j.notifier.NotifyAutoClosed(ctx, closed); err != nil {
			j.l.Warnf(ctx, "job.AutoCloser.RunOnce: notify user %d: %v", closed.User.ID, err)
		}
	}
	return len(out.Closed)
}
