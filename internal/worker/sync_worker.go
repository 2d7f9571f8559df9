package worker

import (
	"context"
	"time"

	"busynessBuster/internal/logger"
	"busynessBuster/internal/models/event"
	"busynessBuster/internal/models/user"

	"go.uber.org/zap"
)

type UserLister interface {
	ListUsers(ctx context.Context) ([]*user.User, error)
}

type EventSyncer interface {
	SyncToday(ctx context.Context, userID int64) ([]*event.Event, error)
}

// SyncWorker периодически подтягивает календарь для всех пользователей,
// чтобы разбор дня не упирался в устаревшие события.
type SyncWorker struct {
	users    UserLister
	events   EventSyncer
	interval time.Duration
	timeout  time.Duration
}

func NewSyncWorker(users UserLister, events EventSyncer, interval, timeout time.Duration) *SyncWorker {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SyncWorker{
		users:    users,
		events:   events,
		interval: interval,
		timeout:  timeout,
	}
}

func (w *SyncWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновая синхронизация календаря", zap.Time("started_at", time.Now()))
			w.SyncAll(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая синхронизация останавливается")
			return
		}
	}
}

// SyncAll проходит по всем пользователям; ошибка одного не прерывает
// остальных.
func (w *SyncWorker) SyncAll(ctx context.Context) {
	start := time.Now()

	users, err := w.users.ListUsers(ctx)
	if err != nil {
		logger.Warn("Worker: ошибка получения пользователей", zap.Error(err))
		return
	}

	synced := 0
	for _, u := range users {
		if ctx.Err() != nil {
			return
		}

		userCtx, cancel := context.WithTimeout(ctx, w.timeout)
		events, err := w.events.SyncToday(userCtx, u.ID)
		cancel()
		if err != nil {
			logger.Warn("Worker: Ошибка синхронизации пользователя",
				zap.Int64("user_id", u.ID),
				zap.Error(err))
			continue
		}

		synced++
		logger.Info("Worker: Пользователь синхронизирован",
			zap.Int64("user_id", u.ID),
			zap.Int("events", len(events)))
	}

	logger.Info("Worker: Завершение синхронизации",
		zap.Duration("ms", time.Since(start)),
		zap.Int("users", len(users)),
		zap.Int("synced", synced),
	)
}
