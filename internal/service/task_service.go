package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"busynessBuster/internal/logger"
	"busynessBuster/internal/models/task"
	repo "busynessBuster/internal/repository"
	"busynessBuster/internal/repository/inter"

	"go.uber.org/zap"
)

// Проверки бизнес-инвариантов живут здесь, до обращения к хранилищу;
// CHECK-ограничения в базе — второй рубеж.

type TaskService struct {
	tasks inter.TaskRepository
	goals inter.GoalRepository
}

func NewTaskService(tasks inter.TaskRepository, goals inter.GoalRepository) TaskService {
	return TaskService{
		tasks: tasks,
		goals: goals,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, userID int64, title string, dueDate *time.Time, priority int, completed bool, goalID *int64) (*task.Task, error) {
	t := &task.Task{
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		DueDate:   dueDate,
		Priority:  priority,
		Completed: completed,
		GoalID:    goalID,
	}

	if err := s.validate(ctx, t); err != nil {
		return nil, err
	}

	if err := s.tasks.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}
	return t, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, userID, id int64) (*task.Task, error) {
	t, err := s.tasks.GetTaskByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound("задача", id)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

// UpdateTask применяет только переданные поля (nil-опции отбрасываются)
// и перепроверяет инварианты целиком.
func (s *TaskService) UpdateTask(ctx context.Context, userID, id int64, options ...task.TaskOption) (*task.Task, error) {
	t, err := s.tasks.GetTaskByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound("задача", id)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}

	if err := s.validate(ctx, t); err != nil {
		return nil, err
	}

	if err := s.tasks.UpdateTask(ctx, t); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound("задача", id)
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, id int64) error {
	err := s.tasks.DeleteTask(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return NewNotFound("задача", id)
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}

func (s *TaskService) GetActiveTasks(ctx context.Context, userID int64) ([]*task.Task, error) {
	tasks, err := s.tasks.GetActiveTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) validate(ctx context.Context, t *task.Task) error {
	if t.Title == "" {
		return NewValidationError("title", "название не может быть пустым")
	}
	if t.Priority < task.MinPriority || t.Priority > task.MaxPriority {
		return NewValidationError("priority", "приоритет должен быть в диапазоне 0..10")
	}

	// привязка к цели допустима только к живой цели того же пользователя
	if t.GoalID != nil {
		_, err := s.goals.GetGoalByID(ctx, t.UserID, *t.GoalID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewValidationError("goal_id", "цель не существует")
			}
			return fmt.Errorf("проверка цели: %w", err)
		}
	}
	return nil
}
