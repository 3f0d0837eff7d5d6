package telegram_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"time-tracking-bot/internal/model"
	"time-tracking-bot/internal/task"
	"time-tracking-bot/internal/task/delivery/telegram"
	pkgTelegram "time-tracking-bot/pkg/telegram"
)

type mockPoller struct {
	mu      sync.Mutex
	batches [][]pkgTelegram.Update
	offsets []int64
	calls   int
}

func (p *mockPoller) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]pkgTelegram.Update, error) {
	p.mu.Lock()
	p.offsets = append(p.offsets, offset)
	p.calls++
	call := p.calls
	var batch []pkgTelegram.Update
	if len(p.batches) > 0 {
		batch, p.batches = p.batches[0], p.batches[1:]
	}
	p.mu.Unlock()

	if call == 2 {
		return nil, errors.New("temporary network error")
	}
	if batch == nil {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return batch, nil
}

func textUpdate(id int64, text string) pkgTelegram.Update {
	return pkgTelegram.Update{
		UpdateID: id,
		Message: &pkgTelegram.Message{
			MessageID: id,
			From:      &pkgTelegram.User{ID: 7},
			Chat:      &pkgTelegram.Chat{ID: 7, Type: "private"},
			Text:      text,
		},
	}
}

func TestPoll(t *testing.T) {
	bot := newMockBot()
	uc := &mockTaskUseCase{trackOut: task.TrackOutput{Task: model.Task{ID: 1, Label: "A"}, User: moscowUser}}
	poller := &mockPoller{batches: [][]pkgTelegram.Update{
		{textUpdate(5, "A"), {UpdateID: 6}},
		nil, // failing call
		{textUpdate(7, "/help")},
	}}

	h := telegram.New(&mockLogger{}, uc, bot, poller, nil, telegram.Config{PollTimeout: time.Second, RetryDelay: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Poll(ctx) }()

	bot.next(t)

	// The third batch is fetched after the retry delay.
	reply := bot.next(t)
	if reply.text == "" {
		t.Fatal("expected help reply")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Poll() returned %v", err)
	}

	poller.mu.Lock()
	defer poller.mu.Unlock()
	if poller.offsets[0] != 0 || poller.offsets[1] != 7 || poller.offsets[2] != 7 || poller.offsets[3] != 8 {
		t.Errorf("unexpected offsets: %v", poller.offsets)
	}
}

func TestPollWithoutPoller(t *testing.T) {
	h := telegram.New(&mockLogger{}, &mockTaskUseCase{}, newMockBot(), nil, nil, telegram.Config{})
	if err := h.Poll(context.Background()); err == nil {
		t.Fatal("expected error when polling is not configured")
	}
}
