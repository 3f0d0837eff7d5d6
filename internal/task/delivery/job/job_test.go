package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"time-tracking-bot/internal/model"
	"time-tracking-bot/internal/task"
	pkgLog "time-tracking-bot/pkg/log"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

// mockUseCase implements only AutoCloseSweep; other methods panic via the nil embed.
type mockUseCase struct {
	task.UseCase

	mu    sync.Mutex
	calls []time.Time
	out   task.SweepOutput
	err   error
}

func (m *mockUseCase) AutoCloseSweep(ctx context.Context, now time.Time) (task.SweepOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, now)
	if pkgLog.TraceID(ctx) == "" {
		return task.SweepOutput{}, errors.New("missing trace id")
	}
	return m.out, m.err
}

func (m *mockUseCase) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockNotifier struct {
	mu    sync.Mutex
	users []int64
	err   error
}

func (m *mockNotifier) NotifyAutoClosed(ctx context.Context, closed task.AutoClosed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, closed.User.ID)
	return m.err
}

func TestRunOnce(t *testing.T) {
	now := time.Date(2024, 3, 1, 15, 1, 0, 0, time.UTC)
	closed := []task.AutoClosed{
		{User: model.User{ID: 1}, Closed: task.ClosedTask{Task: model.Task{ID: 10, Label: "PROJ-1"}}},
		{User: model.User{ID: 2}, Closed: task.ClosedTask{Task: model.Task{ID: 11, Label: "docs"}}},
	}

	tests := []struct {
		name      string
		out       task.SweepOutput
		err       error
		notifyErr error
		notifier  bool
		wantCount int
		wantUsers []int64
	}{
		{name: "notifies every closed task", out: task.SweepOutput{Closed: closed}, notifier: true, wantCount: 2, wantUsers: []int64{1, 2}},
		{name: "notify failure does not stop the loop", out: task.SweepOutput{Closed: closed, Failed: 1}, notifier: true, notifyErr: errors.New("telegram down"), wantCount: 2, wantUsers: []int64{1, 2}},
		{name: "sweep failure", err: task.ErrStorageFailure, notifier: true, wantCount: 0},
		{name: "nothing to close", notifier: true, wantCount: 0},
		{name: "without notifier", out: task.SweepOutput{Closed: closed}, wantCount: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{out: tt.out, err: tt.err}
			n := &mockNotifier{err: tt.notifyErr}

			var j *AutoCloser
			if tt.notifier {
				j = New(&mockLogger{}, uc, n, Config{})
			} else {
				j = New(&mockLogger{}, uc, nil, Config{})
			}
			j.now = func() time.Time { return now }

			if got := j.RunOnce(context.Background()); got != tt.wantCount {
				t.Fatalf("RunOnce() = %d, want %d", got, tt.wantCount)
			}
			if len(uc.calls) != 1 || !uc.calls[0].Equal(now) {
				t.Fatalf("AutoCloseSweep calls = %v, want one at %v", uc.calls, now)
			}
			if len(n.users) != len(tt.wantUsers) {
				t.Fatalf("notified %v, want %v", n.users, tt.wantUsers)
			}
			for i := range tt.wantUsers {
				if n.users[i] != tt.wantUsers[i] {
					t.Errorf("notified[%d] = %d, want %d", i, n.users[i], tt.wantUsers[i])
				}
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	j := New(&mockLogger{}, &mockUseCase{}, nil, Config{})
	if j.cfg.Interval != 5*time.Minute {
		t.Errorf("Interval = %s, want 5m", j.cfg.Interval)
	}
	if j.cfg.FirstDelay != time.Minute {
		t.Errorf("FirstDelay = %s, want 1m", j.cfg.FirstDelay)
	}
}

func TestRun(t *testing.T) {
	uc := &mockUseCase{}
	j := New(&mockLogger{}, uc, nil, Config{Interval: 10 * time.Millisecond, FirstDelay: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for uc.callCount() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	if uc.callCount() < 3 {
		t.Fatalf("sweeps = %d, want at least 3", uc.callCount())
	}
}

func TestRunCancelledBeforeFirstSweep(t *testing.T) {
	uc := &mockUseCase{}
	j := New(&mockLogger{}, uc, nil, Config{FirstDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := j.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if uc.callCount() != 0 {
		t.Fatalf("sweeps = %d, want 0", uc.callCount())
	}
}
