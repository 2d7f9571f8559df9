package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"busynessBuster/internal/logger"
	"busynessBuster/internal/models/task"
	repo "busynessBuster/internal/repository"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

func (s *Storage) CreateTask(ctx context.Context, t *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks (user_id, title, due_date, priority, completed, goal_id)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id`

	err := s.pool.QueryRow(ctx, query,
		t.UserID,
		t.Title,
		t.DueDate,
		t.Priority,
		t.Completed,
		t.GoalID,
	).Scan(&t.ID)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	s.warnIfSlow(start, time.Millisecond*50)
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, userID, id int64) (*task.Task, error) {
	start := time.Now()

	query := `SELECT id, user_id, title, due_date, priority, completed, goal_id
				FROM tasks
				WHERE id = $1 AND user_id = $2`

	t := &task.Task{}
	err := s.pool.QueryRow(ctx, query, id, userID).Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.DueDate,
		&t.Priority,
		&t.Completed,
		&t.GoalID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	s.warnIfSlow(start, time.Millisecond*100)
	return t, nil
}

func (s *Storage) UpdateTask(ctx context.Context, t *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET title = $1,
				due_date = $2,
				priority = $3,
				completed = $4,
				goal_id = $5
			WHERE id = $6 AND user_id = $7`

	tag, err := s.pool.Exec(ctx, query,
		t.Title,
		t.DueDate,
		t.Priority,
		t.Completed,
		t.GoalID,
		t.ID,
		t.UserID,
	)

	if err != nil {
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	s.warnIfSlow(start, time.Millisecond*100)
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, userID, id int64) error {
	start := time.Now()

	query := `DELETE FROM tasks
				WHERE id = $1 AND user_id = $2`

	tag, err := s.pool.Exec(ctx, query, id, userID)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err)
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	s.warnIfSlow(start, time.Millisecond*100)
	return nil
}

func (s *Storage) GetActiveTasks(ctx context.Context, userID int64) ([]*task.Task, error) {
	query := `SELECT id, user_id, title, due_date, priority, completed, goal_id
				FROM tasks
				WHERE user_id = $1 AND completed = FALSE
				ORDER BY id`

	return s.queryTasks(ctx, query, userID)
}

// Порядок: приоритет по убыванию, при равенстве — порядок вставки.
func (s *Storage) GetTopTasksByPriority(ctx context.Context, userID int64, limit int) ([]*task.Task, error) {
	query := `SELECT id, user_id, title, due_date, priority, completed, goal_id
				FROM tasks
				WHERE user_id = $1
				ORDER BY priority DESC, id ASC
				LIMIT $2`

	return s.queryTasks(ctx, query, userID, limit)
}

func (s *Storage) queryTasks(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	start := time.Now()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t := &task.Task{}
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Title,
			&t.DueDate,
			&t.Priority,
			&t.Completed,
			&t.GoalID,
		)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	s.warnIfSlow(start, time.Millisecond*100)
	return tasks, nil
}
