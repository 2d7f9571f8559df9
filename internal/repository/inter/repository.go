package inter

import (
	"context"
	"time"

	"busynessBuster/internal/models/event"
	"busynessBuster/internal/models/goal"
	"busynessBuster/internal/models/task"
	"busynessBuster/internal/models/user"
)

// Все методы чтения и записи принимают userID и работают только со
// строками этого пользователя. Чужая строка эквивалентна отсутствующей.
// Один тип хранилища реализует все интерфейсы сразу, поэтому имена
// методов несут имя сущности.

type UserRepository interface {
	CreateUser(ctx context.Context, u *user.User) error
	GetUserByID(ctx context.Context, id int64) (*user.User, error)
	GetUserByUsername(ctx context.Context, username string) (*user.User, error)
	ListUsers(ctx context.Context) ([]*user.User, error)
}

type TaskRepository interface {
	CreateTask(ctx context.Context, t *task.Task) error
	GetTaskByID(ctx context.Context, userID, id int64) (*task.Task, error)
	UpdateTask(ctx context.Context, t *task.Task) error
	DeleteTask(ctx context.Context, userID, id int64) error
	GetActiveTasks(ctx context.Context, userID int64) ([]*task.Task, error)
	GetTopTasksByPriority(ctx context.Context, userID int64, limit int) ([]*task.Task, error)
}

type GoalRepository interface {
	CreateGoal(ctx context.Context, g *goal.Goal) error
	GetGoalByID(ctx context.Context, userID, id int64) (*goal.Goal, error)
	UpdateGoal(ctx context.Context, g *goal.Goal) error
	// DeleteGoal обнуляет goal_id у задач, ссылавшихся на цель.
	DeleteGoal(ctx context.Context, userID, id int64) error
	GetActiveGoals(ctx context.Context, userID int64) ([]*goal.Goal, error)
}

type EventRepository interface {
	GetEventByID(ctx context.Context, userID, id int64) (*event.Event, error)
	// UpsertEvents применяет всю пачку в одной транзакции: либо все
	// события записаны, либо ни одного.
	UpsertEvents(ctx context.Context, userID int64, raws []event.Raw) error
	GetEventsBetween(ctx context.Context, userID int64, from, to time.Time) ([]*event.Event, error)
}
