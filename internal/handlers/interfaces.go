package handlers

import (
	"context"
	"time"

	"busynessBuster/internal/models/event"
	"busynessBuster/internal/models/goal"
	"busynessBuster/internal/models/task"
	"busynessBuster/internal/service"
)

// Интерфейсы сервисов, которые потребляют хендлеры. Мокаются в тестах.

type AuthService interface {
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, userID int64, title string, dueDate *time.Time, priority int, completed bool, goalID *int64) (*task.Task, error)
	GetTaskByID(ctx context.Context, userID, id int64) (*task.Task, error)
	UpdateTask(ctx context.Context, userID, id int64, options ...task.TaskOption) (*task.Task, error)
	DeleteTask(ctx context.Context, userID, id int64) error
	GetActiveTasks(ctx context.Context, userID int64) ([]*task.Task, error)
}

type GoalService interface {
	CreateGoal(ctx context.Context, userID int64, title string, priority int, accomplished bool, forecast *goal.Forecast) (*goal.Goal, error)
	GetGoalByID(ctx context.Context, userID, id int64) (*goal.Goal, error)
	UpdateGoal(ctx context.Context, userID, id int64, options ...goal.GoalOption) (*goal.Goal, error)
	DeleteGoal(ctx context.Context, userID, id int64) error
	GetActiveGoals(ctx context.Context, userID int64) ([]*goal.Goal, error)
}

type EventService interface {
	SyncToday(ctx context.Context, userID int64) ([]*event.Event, error)
	GetEventByID(ctx context.Context, userID, id int64) (*event.Event, error)
}

type AnalysisService interface {
	Analyze(ctx context.Context, userID int64) (string, error)
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
