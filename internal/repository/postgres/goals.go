package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"busynessBuster/internal/logger"
	"busynessBuster/internal/models/goal"
	repo "busynessBuster/internal/repository"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

func (s *Storage) CreateGoal(ctx context.Context, g *goal.Goal) error {
	start := time.Now()

	query := `INSERT INTO goals (user_id, goal, priority, accomplished, forecast)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id`

	err := s.pool.QueryRow(ctx, query,
		g.UserID,
		g.Goal,
		g.Priority,
		g.Accomplished,
		g.Forecast,
	).Scan(&g.ID)

	if err != nil {
		logger.Error("Repository: Не удалось добавить цель", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление цели: %w", err)
	}

	s.warnIfSlow(start, time.Millisecond*50)
	return nil
}

func (s *Storage) GetGoalByID(ctx context.Context, userID, id int64) (*goal.Goal, error) {
	start := time.Now()

	query := `SELECT id, user_id, goal, priority, accomplished, forecast
				FROM goals
				WHERE id = $1 AND user_id = $2`

	g := &goal.Goal{}
	err := s.pool.QueryRow(ctx, query, id, userID).Scan(
		&g.ID,
		&g.UserID,
		&g.Goal,
		&g.Priority,
		&g.Accomplished,
		&g.Forecast,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить цель", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение цели: %w", err)
	}

	s.warnIfSlow(start, time.Millisecond*100)
	return g, nil
}

func (s *Storage) UpdateGoal(ctx context.Context, g *goal.Goal) error {
	start := time.Now()

	query := `UPDATE goals
			SET goal = $1,
				priority = $2,
				accomplished = $3,
				forecast = $4
			WHERE id = $5 AND user_id = $6`

	tag, err := s.pool.Exec(ctx, query,
		g.Goal,
		g.Priority,
		g.Accomplished,
		g.Forecast,
		g.ID,
		g.UserID,
	)

	if err != nil {
		logger.Error("Repository: Не удалось обновить цель", err)
		return fmt.Errorf("обновление цели: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	s.warnIfSlow(start, time.Millisecond*100)
	return nil
}

// Ссылки из задач обнуляются самой базой: FK goal_id объявлен
// ON DELETE SET NULL.
func (s *Storage) DeleteGoal(ctx context.Context, userID, id int64) error {
	start := time.Now()

	query := `DELETE FROM goals
				WHERE id = $1 AND user_id = $2`

	tag, err := s.pool.Exec(ctx, query, id, userID)
	if err != nil {
		logger.Error("Repository: Не удалось удалить цель", err)
		return fmt.Errorf("удаление цели: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	s.warnIfSlow(start, time.Millisecond*100)
	return nil
}

func (s *Storage) GetActiveGoals(ctx context.Context, userID int64) ([]*goal.Goal, error) {
	start := time.Now()

	query := `SELECT id, user_id, goal, priority, accomplished, forecast
				FROM goals
				WHERE user_id = $1 AND accomplished = FALSE
				ORDER BY id`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		logger.Error("Repository: Не удалось получить цели", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение целей: %w", err)
	}
	defer rows.Close()

	goals := []*goal.Goal{}
	for rows.Next() {
		g := &goal.Goal{}
		err := rows.Scan(
			&g.ID,
			&g.UserID,
			&g.Goal,
			&g.Priority,
			&g.Accomplished,
			&g.Forecast,
		)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования цели", err)
			return nil, fmt.Errorf("сканирование цели: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	s.warnIfSlow(start, time.Millisecond*100)
	return goals, nil
}
