package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"time-tracking-bot/internal/model"
	"time-tracking-bot/internal/task"
	"time-tracking-bot/pkg/datemath"
)

func TestStartRest(t *testing.T) {
	ctx := context.Background()

	t.Run("Closes active task", func(t *testing.T) {
		f := newFixture("UTC")
		f.now = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		f.uc.TrackMessage(ctx, testScope, task.TrackInput{Text: "A"})

		f.now = f.now.Add(30 * time.Minute)
		out, err := f.uc.StartRest(ctx, testScope, task.RestInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Previous == nil || out.Previous.Duration != 30*time.Minute {
			t.Errorf("unexpected previous: %+v", out.Previous)
		}
		if !out.Task.IsRest || out.Task.Label != model.RestLabel || !out.Task.StartTime.Equal(f.now) {
			t.Errorf("unexpected rest task: %+v", out.Task)
		}
		if f.repo.activeCount(testScope.UserID) != 1 {
			t.Error("rest task is the only active task")
		}
	})

	t.Run("Without active task", func(t *testing.T) {
		f := newFixture("UTC")
		f.now = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		at := f.now.Add(-time.Minute)

		out, err := f.uc.StartRest(ctx, testScope, task.RestInput{At: at})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Previous != nil || !out.Task.StartTime.Equal(at) {
			t.Errorf("unexpected output: %+v", out)
		}
	})

	t.Run("Storage failure", func(t *testing.T) {
		f := newFixture("UTC")
		f.repo.failOn["GetUser"] = true
		if _, err := f.uc.StartRest(ctx, testScope, task.RestInput{}); !errors.Is(err, task.ErrStorageFailure) {
			t.Errorf("expected ErrStorageFailure, got %v", err)
		}
	})
}

func TestCloseActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture("UTC")
	f.now = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	out, err := f.uc.CloseActive(ctx, testScope, task.CloseInput{})
	if err != nil || out.Closed != nil {
		t.Fatalf("nothing to close: %+v, %v", out, err)
	}

	started, _ := f.uc.TrackMessage(ctx, testScope, task.TrackInput{Text: "A"})
	out, err = f.uc.CloseActive(ctx, testScope, task.CloseInput{At: f.now.Add(-time.Hour)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Closed == nil || !out.Closed.Task.EndTime.Equal(started.Task.StartTime) {
		t.Errorf("close before start must clamp to start: %+v", out.Closed)
	}
	if f.repo.activeCount(testScope.UserID) != 0 {
		t.Error("no task may stay active")
	}
}

func TestAutoCloseSweep(t *testing.T) {
	ctx := context.Background()
	f := newFixture("UTC")
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	regular := model.Scope{UserID: 1}
	lateStarter := model.Scope{UserID: 2}
	longDay := model.Scope{UserID: 3}

	f.now = day.Add(17 * time.Hour)
	f.uc.TrackMessage(ctx, regular, task.TrackInput{Text: "Report"})
	f.now = day.Add(20 * time.Hour)
	f.uc.TrackMessage(ctx, lateStarter, task.TrackInput{Text: "Hotfix"})
	f.uc.SetWorkday(ctx, longDay, task.SetWorkdayInput{Start: "12:00", End: "22:00"})
	f.now = day.Add(10 * time.Hour)
	f.uc.TrackMessage(ctx, longDay, task.TrackInput{Text: "Shift"})

	out, err := f.uc.AutoCloseSweep(ctx, day.Add(20*time.Hour+30*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Closed) != 2 || out.Failed != 0 {
		t.Fatalf("unexpected sweep result: %+v", out)
	}

	want := map[int64]time.Time{
		1: day.Add(18 * time.Hour),
		2: day.Add(23*time.Hour + 59*time.Minute),
	}
	for _, c := range out.Closed {
		if !c.Closed.Task.EndTime.Equal(want[c.User.ID]) {
			t.Errorf("user %d closed at %v, want %v", c.User.ID, c.Closed.Task.EndTime, want[c.User.ID])
		}
	}
	if f.repo.activeCount(longDay.UserID) != 1 {
		t.Error("task inside the workday must stay open")
	}
	if len(f.cal.events) != 2 {
		t.Errorf("auto-closed tasks must be mirrored, got %d events", len(f.cal.events))
	}

	t.Run("Per-user failures are counted", func(t *testing.T) {
		f.repo.failOn["GetActiveTask"] = true
		defer func() { f.repo.failOn["GetActiveTask"] = false }()

		out, err := f.uc.AutoCloseSweep(ctx, day.Add(23*time.Hour))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Failed != 1 || len(out.Closed) != 0 {
			t.Errorf("unexpected result: %+v", out)
		}
	})

	t.Run("List failure", func(t *testing.T) {
		f.repo.failOn["ListUsersWithActiveTask"] = true
		defer func() { f.repo.failOn["ListUsersWithActiveTask"] = false }()

		if _, err := f.uc.AutoCloseSweep(ctx, day); !errors.Is(err, task.ErrStorageFailure) {
			t.Errorf("expected ErrStorageFailure, got %v", err)
		}
	})
}

func TestUserSettings(t *testing.T) {
	ctx := context.Background()
	f := newFixture("Europe/Moscow")

	u, err := f.uc.RegisterUser(ctx, testScope)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Timezone != "Europe/Moscow" || u.WorkdayStart != datemath.MustTimeOfDay(9, 0) || u.WorkdayEnd != datemath.MustTimeOfDay(18, 0) {
		t.Errorf("unexpected defaults: %+v", u)
	}

	for _, tz := range []string{"Mars/Base", "", "Local"} {
		if _, err := f.uc.SetTimezone(ctx, testScope, task.SetTimezoneInput{Timezone: tz}); !errors.Is(err, task.ErrInvalidTimeZone) {
			t.Errorf("SetTimezone(%q) error = %v", tz, err)
		}
	}
	if f.repo.users[testScope.UserID].Timezone != "Europe/Moscow" {
		t.Error("rejected zone must keep the prior value")
	}

	u, err = f.uc.SetTimezone(ctx, testScope, task.SetTimezoneInput{Timezone: " Asia/Tokyo "})
	if err != nil || u.Timezone != "Asia/Tokyo" {
		t.Fatalf("SetTimezone() = %+v, %v", u, err)
	}

	tests := []struct {
		name       string
		start, end string
		wantErr    error
	}{
		{name: "Valid", start: "10:00", end: "19:30"},
		{name: "Hour out of range", start: "24:00", end: "19:00", wantErr: task.ErrInvalidTimeOfDay},
		{name: "Minute out of range", start: "10:00", end: "19:60", wantErr: task.ErrInvalidTimeOfDay},
		{name: "Garbage", start: "ten", end: "19:00", wantErr: task.ErrInvalidTimeOfDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := f.uc.SetWorkday(ctx, testScope, task.SetWorkdayInput{Start: tt.start, End: tt.end})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && (u.WorkdayStart.String() != tt.start || u.WorkdayEnd.String() != tt.end) {
				t.Errorf("unexpected workday: %+v", u)
			}
		})
	}
}
