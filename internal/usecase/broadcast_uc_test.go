package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"telegram-file-relay/internal/domain/model"
	"telegram-file-relay/internal/infra/worker"
)

func TestBroadcastUC_CountsSuccessesOnly(t *testing.T) {
	ctx := context.Background()
	repo := newMemFileRepo()

	// Three distinct owners, one of them with two files.
	for i, ownerID := range []int64{101, 102, 102, 103} {
		rec, err := model.NewFileRecord(idFor(i), "handle", model.KindDocument, "", ownerID)
		if err != nil {
			t.Fatalf("NewFileRecord failed: %v", err)
		}
		if err := repo.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	// Owner 102 has blocked the bot.
	bot := &mockBot{
		SendMessageFunc: func(ctx context.Context, chatID int64, text string) error {
			if chatID == 102 {
				return errors.New("forbidden: bot was blocked by the user")
			}
			return nil
		},
	}

	pool := worker.NewPool(2, newTestLogger())
	pool.Start(ctx)
	defer pool.Stop()

	uc := NewBroadcastUseCase(repo, bot, pool, newTestLogger())

	count, err := uc.BroadcastMessage(ctx, "Scheduled maintenance tonight")
	if err != nil {
		t.Fatalf("BroadcastMessage returned an error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 successful sends (102 blocked), got %d", count)
	}
}

func TestBroadcastUC_NoOwners(t *testing.T) {
	ctx := context.Background()
	pool := worker.NewPool(1, newTestLogger())
	pool.Start(ctx)
	defer pool.Stop()

	uc := NewBroadcastUseCase(newMemFileRepo(), &mockBot{}, pool, newTestLogger())

	count, err := uc.BroadcastMessage(ctx, "hello?")
	if err != nil {
		t.Fatalf("BroadcastMessage returned an error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 sends with no owners, got %d", count)
	}
}

func TestBroadcastUC_FinishesWhenPoolStopsEarly(t *testing.T) {
	ctx := context.Background()
	repo := newMemFileRepo()
	for i, ownerID := range []int64{301, 302} {
		rec, err := model.NewFileRecord(idFor(i), "handle", model.KindDocument, "", ownerID)
		if err != nil {
			t.Fatalf("NewFileRecord failed: %v", err)
		}
		if err := repo.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	// The pool is never started, so the queued sends can only execute when
	// Stop drains them; the broadcast must not hang waiting for workers that
	// will never pick them up.
	pool := worker.NewPool(1, newTestLogger())
	bot := &mockBot{}
	uc := NewBroadcastUseCase(repo, bot, pool, newTestLogger())

	done := make(chan int, 1)
	go func() {
		n, err := uc.BroadcastMessage(ctx, "maintenance tonight")
		if err != nil {
			t.Errorf("BroadcastMessage returned an error: %v", err)
		}
		done <- n
	}()

	time.Sleep(300 * time.Millisecond) // both sends are queued by now
	pool.Stop()

	select {
	case n := <-done:
		if n != 2 {
			t.Errorf("expected 2 sends after the pool drained, got %d", n)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("broadcast hung after the pool stopped")
	}
}

func TestBroadcastUC_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := newMemFileRepo()
	for i := 0; i < 5; i++ {
		rec, err := model.NewFileRecord(idFor(i), "handle", model.KindDocument, "", int64(200+i))
		if err != nil {
			t.Fatalf("NewFileRecord failed: %v", err)
		}
		if err := repo.Insert(context.Background(), rec); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	pool := worker.NewPool(1, newTestLogger())
	pool.Start(context.Background())
	defer pool.Stop()

	cancel() // cancel before the first throttle tick fires

	uc := NewBroadcastUseCase(repo, &mockBot{}, pool, newTestLogger())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := uc.BroadcastMessage(ctx, "never delivered"); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast did not stop after cancellation")
	}
}
