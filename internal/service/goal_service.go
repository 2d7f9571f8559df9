package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"busynessBuster/internal/logger"
	"busynessBuster/internal/models/goal"
	repo "busynessBuster/internal/repository"
	"busynessBuster/internal/repository/inter"

	"go.uber.org/zap"
)

type GoalService struct {
	goals inter.GoalRepository
}

func NewGoalService(goals inter.GoalRepository) GoalService {
	return GoalService{
		goals: goals,
	}
}

func (s *GoalService) CreateGoal(ctx context.Context, userID int64, title string, priority int, accomplished bool, forecast *goal.Forecast) (*goal.Goal, error) {
	g := &goal.Goal{
		UserID:       userID,
		Goal:         strings.TrimSpace(title),
		Priority:     priority,
		Accomplished: accomplished,
		Forecast:     forecast,
	}

	if err := validateGoal(g); err != nil {
		return nil, err
	}

	if err := s.goals.CreateGoal(ctx, g); err != nil {
		return nil, fmt.Errorf("создание цели: %w", err)
	}
	return g, nil
}

func (s *GoalService) GetGoalByID(ctx context.Context, userID, id int64) (*goal.Goal, error) {
	g, err := s.goals.GetGoalByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Цель не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound("цель", id)
		}
		return nil, fmt.Errorf("получение цели: %w", err)
	}
	return g, nil
}

func (s *GoalService) UpdateGoal(ctx context.Context, userID, id int64, options ...goal.GoalOption) (*goal.Goal, error) {
	g, err := s.goals.GetGoalByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Цель не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound("цель", id)
		}
		return nil, fmt.Errorf("получение цели: %w", err)
	}

	for _, opt := range options {
		if opt != nil {
			opt(g)
		}
	}

	if err := validateGoal(g); err != nil {
		return nil, err
	}

	if err := s.goals.UpdateGoal(ctx, g); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound("цель", id)
		}
		return nil, fmt.Errorf("обновление цели: %w", err)
	}
	return g, nil
}

// DeleteGoal удаляет цель; ссылки из задач обнуляются хранилищем
// (ON DELETE SET NULL), задачи при этом не трогаются.
func (s *GoalService) DeleteGoal(ctx context.Context, userID, id int64) error {
	err := s.goals.DeleteGoal(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Цель не найдена", zap.Int64("target_id", id))
			return NewNotFound("цель", id)
		}
		return fmt.Errorf("удаление цели: %w", err)
	}
	return nil
}

func (s *GoalService) GetActiveGoals(ctx context.Context, userID int64) ([]*goal.Goal, error) {
	goals, err := s.goals.GetActiveGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("получение целей: %w", err)
	}
	return goals, nil
}

func validateGoal(g *goal.Goal) error {
	if g.Goal == "" {
		return NewValidationError("goal", "название не может быть пустым")
	}
	if g.Priority < goal.MinPriority || g.Priority > goal.MaxPriority {
		return NewValidationError("priority", "приоритет должен быть в диапазоне 0..10")
	}
	if g.Forecast != nil && !g.Forecast.Valid() {
		return NewValidationError("forecast", "допустимы значения Short, Medium, Long")
	}
	return nil
}
