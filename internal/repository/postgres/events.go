package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"busynessBuster/internal/logger"
	"busynessBuster/internal/models/event"
	repo "busynessBuster/internal/repository"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

func (s *Storage) GetEventByID(ctx context.Context, userID, id int64) (*event.Event, error) {
	start := time.Now()

	query := `SELECT id, user_id, google_id, summary, start_time, end_time
				FROM events
				WHERE id = $1 AND user_id = $2`

	e := &event.Event{}
	err := s.pool.QueryRow(ctx, query, id, userID).Scan(
		&e.ID,
		&e.UserID,
		&e.GoogleID,
		&e.Summary,
		&e.StartTime,
		&e.EndTime,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить событие", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение события: %w", err)
	}

	s.warnIfSlow(start, time.Millisecond*100)
	return e, nil
}

// UpsertEvents пишет всю пачку в одной транзакции. Ключ upsert —
// (user_id, google_id): два пользователя с одинаковым google_id
// получают каждый свою строку.
func (s *Storage) UpsertEvents(ctx context.Context, userID int64, raws []event.Raw) error {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось открыть транзакцию", err)
		return fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO events (user_id, google_id, summary, start_time, end_time)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (user_id, google_id)
				DO UPDATE SET summary = EXCLUDED.summary,
					start_time = EXCLUDED.start_time,
					end_time = EXCLUDED.end_time`

	for _, raw := range raws {
		_, err := tx.Exec(ctx, query, userID, raw.GoogleID, raw.Summary, raw.Start, raw.End)
		if err != nil {
			logger.Error("Repository: Ошибка upsert события, откат всей пачки", err,
				zap.String("google_id", raw.GoogleID))
			return fmt.Errorf("upsert события %s: %w", raw.GoogleID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось закоммитить upsert событий", err)
		return fmt.Errorf("commit upsert событий: %w", err)
	}

	logger.Info("Repository: События синхронизированы",
		zap.Int("count", len(raws)),
		zap.Duration("ms", time.Since(start)))
	return nil
}

func (s *Storage) GetEventsBetween(ctx context.Context, userID int64, from, to time.Time) ([]*event.Event, error) {
	start := time.Now()

	query := `SELECT id, user_id, google_id, summary, start_time, end_time
				FROM events
				WHERE user_id = $1
					AND start_time >= $2
					AND start_time < $3
				ORDER BY start_time`

	rows, err := s.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		logger.Error("Repository: Не удалось получить события", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение событий: %w", err)
	}
	defer rows.Close()

	events := []*event.Event{}
	for rows.Next() {
		e := &event.Event{}
		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.GoogleID,
			&e.Summary,
			&e.StartTime,
			&e.EndTime,
		)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования события", err)
			return nil, fmt.Errorf("сканирование события: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	s.warnIfSlow(start, time.Millisecond*100)
	return events, nil
}
