package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"telegram-file-relay/internal/domain/ports/adapter"
	"telegram-file-relay/internal/domain/ports/repository"
	"telegram-file-relay/internal/infra/metrics"
	"telegram-file-relay/internal/infra/worker"

	"github.com/rs/zerolog"
)

type BroadcastUseCase interface {
	BroadcastMessage(ctx context.Context, message string) (int, error)
}

type broadcastUC struct {
	files      repository.FileRecordRepository
	bot        adapter.TelegramBotAdapter
	workerPool *worker.Pool
	log        *zerolog.Logger
}

func NewBroadcastUseCase(
	files repository.FileRecordRepository,
	bot adapter.TelegramBotAdapter,
	pool *worker.Pool,
	logger *zerolog.Logger,
) BroadcastUseCase {
	return &broadcastUC{
		files:      files,
		bot:        bot,
		workerPool: pool,
		log:        logger,
	}
}

// BroadcastMessage sends the text to every user who has ever uploaded a file
// and returns how many sends succeeded. Per-recipient failures (blocked bot,
// dead chat) are logged and skipped; the admin only cares about the count.
func (uc *broadcastUC) BroadcastMessage(ctx context.Context, message string) (int, error) {
	owners, err := uc.files.DistinctOwners(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("failed to fetch owners for broadcast")
		return 0, err
	}
	uc.log.Info().Int("owner_count", len(owners)).Msg("starting broadcast")

	// Throttle to respect Telegram's API limits (approx. 30 messages/sec)
	throttle := time.NewTicker(time.Second / 25)
	defer throttle.Stop()

	var sent atomic.Int64
	var wg sync.WaitGroup

	for _, ownerID := range owners {
		if ctx.Err() != nil {
			return int(sent.Load()), ctx.Err()
		}
		select {
		case <-ctx.Done():
			return int(sent.Load()), ctx.Err()
		case <-throttle.C:
		}

		wg.Add(1)
		task := uc.sendTask(ownerID, message, &sent, &wg)
		if err := uc.workerPool.Submit(task); err != nil {
			// Queue saturated: send inline rather than dropping the recipient.
			uc.log.Warn().Err(err).Int64("tg_id", ownerID).Msg("worker pool full, sending inline")
			_ = task(ctx)
		}
	}

	// Queued sends may only complete once the pool's Stop drains them, so
	// the wait has to stay interruptible.
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return int(sent.Load()), ctx.Err()
	}

	uc.log.Info().Int64("sent", sent.Load()).Int("owner_count", len(owners)).Msg("broadcast finished")
	return int(sent.Load()), nil
}

func (uc *broadcastUC) sendTask(ownerID int64, message string, sent *atomic.Int64, wg *sync.WaitGroup) worker.Task {
	return func(ctx context.Context) error {
		defer wg.Done()
		if err := uc.bot.SendMessage(ctx, ownerID, message); err != nil {
			metrics.IncBroadcastMessage("failed")
			uc.log.Warn().Err(err).Int64("tg_id", ownerID).Msg("broadcast send failed")
			return nil // best effort: never escalate per-recipient failures
		}
		metrics.IncBroadcastMessage("sent")
		sent.Add(1)
		return nil
	}
}
