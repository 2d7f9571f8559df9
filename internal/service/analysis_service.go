package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"busynessBuster/internal/logger"
	"busynessBuster/internal/repository/inter"

	"go.uber.org/zap"
)

// Generator — внешний коллаборатор текстовой генерации. Получает готовый
// промпт, возвращает прозу как есть.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type AnalysisService struct {
	goals     inter.GoalRepository
	tasks     inter.TaskRepository
	events    inter.EventRepository
	generator Generator
	loc       *time.Location
}

const topTasksLimit = 10

const analysisPrompt = `Незакрытые цели:
%s

Главные задачи недели (до 10, по приоритету):
%s

Запланированная на сегодня работа:
%s

Проанализируй, соответствует ли сегодняшняя работа моим задачам и целям.
Отметь всё, что похоже на имитацию занятости, а не на движение к целям.
Закончи одним предложением с вердиктом: хорош ли сегодняшний план, и если
нет — что поменять, чтобы он реально приближал меня к целям.`

func NewAnalysisService(goals inter.GoalRepository, tasks inter.TaskRepository, events inter.EventRepository, generator Generator, loc *time.Location) AnalysisService {
	return AnalysisService{
		goals:     goals,
		tasks:     tasks,
		events:    events,
		generator: generator,
		loc:       loc,
	}
}

// Analyze собирает три выборки, сериализует их в промпт и отдаёт
// генератору. Пустые выборки — это пустые секции, а не ошибка.
func (s *AnalysisService) Analyze(ctx context.Context, userID int64) (string, error) {
	goals, err := s.goals.GetActiveGoals(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("получение целей: %w", err)
	}

	tasks, err := s.tasks.GetTopTasksByPriority(ctx, userID, topTasksLimit)
	if err != nil {
		return "", fmt.Errorf("получение задач: %w", err)
	}

	from, to := TodayWindow(s.loc)
	events, err := s.events.GetEventsBetween(ctx, userID, from, to)
	if err != nil {
		return "", fmt.Errorf("получение событий: %w", err)
	}

	prompt, err := buildPrompt(goals, tasks, events)
	if err != nil {
		return "", fmt.Errorf("сборка промпта: %w", err)
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		logger.Error("Service: Генерация анализа не удалась", err, zap.Int64("user_id", userID))
		return "", NewBusinessError(CodeAnalysisUnavailable, "Анализ временно недоступен")
	}

	logger.Info("Service: Анализ получен",
		zap.Int64("user_id", userID),
		zap.Int("goals", len(goals)),
		zap.Int("tasks", len(tasks)),
		zap.Int("events", len(events)))
	return text, nil
}

func buildPrompt(goals, tasks, events any) (string, error) {
	sections := make([]string, 0, 3)
	for _, block := range []any{goals, tasks, events} {
		data, err := json.MarshalIndent(block, "", "  ")
		if err != nil {
			return "", fmt.Errorf("сериализация секции: %w", err)
		}
		sections = append(sections, string(data))
	}
	return fmt.Sprintf(analysisPrompt, sections[0], sections[1], sections[2]), nil
}
