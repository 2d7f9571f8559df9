package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"busynessBuster/internal/models/event"
	"busynessBuster/internal/models/goal"
	"busynessBuster/internal/models/task"
	"busynessBuster/internal/models/user"
	repo "busynessBuster/internal/repository"
	"busynessBuster/internal/repository/inter"
	"busynessBuster/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Моки репозиториев

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]*user.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) CreateTask(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) GetTaskByID(ctx context.Context, userID, id int64) (*task.Task, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) UpdateTask(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) DeleteTask(ctx context.Context, userID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockTaskRepository) GetActiveTasks(ctx context.Context, userID int64) ([]*task.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) GetTopTasksByPriority(ctx context.Context, userID int64, limit int) ([]*task.Task, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

type MockGoalRepository struct {
	mock.Mock
}

func (m *MockGoalRepository) CreateGoal(ctx context.Context, g *goal.Goal) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGoalRepository) GetGoalByID(ctx context.Context, userID, id int64) (*goal.Goal, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*goal.Goal), args.Error(1)
}

func (m *MockGoalRepository) UpdateGoal(ctx context.Context, g *goal.Goal) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGoalRepository) DeleteGoal(ctx context.Context, userID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockGoalRepository) GetActiveGoals(ctx context.Context, userID int64) ([]*goal.Goal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*goal.Goal), args.Error(1)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) GetEventByID(ctx context.Context, userID, id int64) (*event.Event, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) UpsertEvents(ctx context.Context, userID int64, raws []event.Raw) error {
	args := m.Called(ctx, userID, raws)
	return args.Error(0)
}

func (m *MockEventRepository) GetEventsBetween(ctx context.Context, userID int64, from, to time.Time) ([]*event.Event, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

var _ inter.UserRepository = (*MockUserRepository)(nil)
var _ inter.TaskRepository = (*MockTaskRepository)(nil)
var _ inter.GoalRepository = (*MockGoalRepository)(nil)
var _ inter.EventRepository = (*MockEventRepository)(nil)

func assertBusinessCode(t *testing.T, err error, code string) {
	t.Helper()
	var businessErr *service.BusinessError
	require.ErrorAs(t, err, &businessErr)
	assert.Equal(t, code, businessErr.Code)
}

// TestTaskService_CreateTask тестирует создание задачи и валидацию
func TestTaskService_CreateTask(t *testing.T) {
	ctx := context.Background()
	goalID := int64(7)

	tests := []struct {
		name      string
		title     string
		priority  int
		goalID    *int64
		setupMock func(*MockTaskRepository, *MockGoalRepository)
		wantCode  string
	}{
		{
			name:     "success - minimal task",
			title:    "Подготовить отчёт",
			priority: 0,
			setupMock: func(tasks *MockTaskRepository, goals *MockGoalRepository) {
				tasks.On("CreateTask", mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:     "success - max priority",
			title:    "Срочное",
			priority: 10,
			setupMock: func(tasks *MockTaskRepository, goals *MockGoalRepository) {
				tasks.On("CreateTask", mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:      "error - empty title",
			title:     "   ",
			priority:  5,
			setupMock: func(tasks *MockTaskRepository, goals *MockGoalRepository) {},
			wantCode:  service.CodeValidation,
		},
		{
			name:      "error - priority below range",
			title:     "Задача",
			priority:  -1,
			setupMock: func(tasks *MockTaskRepository, goals *MockGoalRepository) {},
			wantCode:  service.CodeValidation,
		},
		{
			name:      "error - priority above range",
			title:     "Задача",
			priority:  11,
			setupMock: func(tasks *MockTaskRepository, goals *MockGoalRepository) {},
			wantCode:  service.CodeValidation,
		},
		{
			name:     "error - goal does not exist",
			title:    "Задача с целью",
			priority: 3,
			goalID:   &goalID,
			setupMock: func(tasks *MockTaskRepository, goals *MockGoalRepository) {
				goals.On("GetGoalByID", mock.Anything, int64(1), goalID).Return(nil, repo.ErrNotFound)
			},
			wantCode: service.CodeValidation,
		},
		{
			name:     "success - goal exists",
			title:    "Задача с целью",
			priority: 3,
			goalID:   &goalID,
			setupMock: func(tasks *MockTaskRepository, goals *MockGoalRepository) {
				goals.On("GetGoalByID", mock.Anything, int64(1), goalID).
					Return(&goal.Goal{ID: goalID, UserID: 1, Goal: "Цель"}, nil)
				tasks.On("CreateTask", mock.Anything, mock.Anything).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTasks := new(MockTaskRepository)
			mockGoals := new(MockGoalRepository)
			tt.setupMock(mockTasks, mockGoals)

			svc := service.NewTaskService(mockTasks, mockGoals)
			created, err := svc.CreateTask(ctx, 1, tt.title, nil, tt.priority, false, tt.goalID)

			if tt.wantCode != "" {
				assertBusinessCode(t, err, tt.wantCode)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(1), created.UserID)
			}

			mockTasks.AssertExpectations(t)
			mockGoals.AssertExpectations(t)
		})
	}
}

// TestTaskService_UpdateTask проверяет частичное обновление: не переданные
// поля не меняются
func TestTaskService_UpdateTask(t *testing.T) {
	ctx := context.Background()
	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("partial update keeps other fields", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockGoals := new(MockGoalRepository)

		stored := &task.Task{ID: 5, UserID: 1, Title: "Старое название", DueDate: &due, Priority: 4}
		mockTasks.On("GetTaskByID", mock.Anything, int64(1), int64(5)).Return(stored, nil)
		mockTasks.On("UpdateTask", mock.Anything, mock.MatchedBy(func(updated *task.Task) bool {
			return updated.Completed &&
				updated.Title == "Старое название" &&
				updated.Priority == 4 &&
				updated.DueDate != nil
		})).Return(nil)

		svc := service.NewTaskService(mockTasks, mockGoals)
		completed := true
		updated, err := svc.UpdateTask(ctx, 1, 5, task.WithCompleted(&completed))

		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Equal(t, "Старое название", updated.Title)
		mockTasks.AssertExpectations(t)
	})

	t.Run("unlink goal with zero", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockGoals := new(MockGoalRepository)

		linked := int64(7)
		stored := &task.Task{ID: 5, UserID: 1, Title: "Задача", Priority: 4, GoalID: &linked}
		mockTasks.On("GetTaskByID", mock.Anything, int64(1), int64(5)).Return(stored, nil)
		mockTasks.On("UpdateTask", mock.Anything, mock.MatchedBy(func(updated *task.Task) bool {
			return updated.GoalID == nil
		})).Return(nil)

		svc := service.NewTaskService(mockTasks, mockGoals)
		zero := int64(0)
		updated, err := svc.UpdateTask(ctx, 1, 5, task.WithGoalID(&zero))

		require.NoError(t, err)
		assert.Nil(t, updated.GoalID)
		mockTasks.AssertExpectations(t)
	})

	t.Run("invalid priority after update", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockGoals := new(MockGoalRepository)

		stored := &task.Task{ID: 5, UserID: 1, Title: "Задача", Priority: 4}
		mockTasks.On("GetTaskByID", mock.Anything, int64(1), int64(5)).Return(stored, nil)

		svc := service.NewTaskService(mockTasks, mockGoals)
		bad := 42
		_, err := svc.UpdateTask(ctx, 1, 5, task.WithPriority(&bad))

		assertBusinessCode(t, err, service.CodeValidation)
		mockTasks.AssertExpectations(t)
	})

	t.Run("task of another user looks missing", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockGoals := new(MockGoalRepository)

		mockTasks.On("GetTaskByID", mock.Anything, int64(2), int64(5)).Return(nil, repo.ErrNotFound)

		svc := service.NewTaskService(mockTasks, mockGoals)
		completed := true
		_, err := svc.UpdateTask(ctx, 2, 5, task.WithCompleted(&completed))

		assertBusinessCode(t, err, service.CodeNotFound)
		mockTasks.AssertExpectations(t)
	})
}

func TestTaskService_GetTaskByID(t *testing.T) {
	ctx := context.Background()

	t.Run("not found maps to business error", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockTasks.On("GetTaskByID", mock.Anything, int64(1), int64(99)).Return(nil, repo.ErrNotFound)

		svc := service.NewTaskService(mockTasks, new(MockGoalRepository))
		_, err := svc.GetTaskByID(ctx, 1, 99)

		assertBusinessCode(t, err, service.CodeNotFound)
	})

	t.Run("storage failure is not a business error", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockTasks.On("GetTaskByID", mock.Anything, int64(1), int64(99)).
			Return(nil, errors.New("connection reset"))

		svc := service.NewTaskService(mockTasks, new(MockGoalRepository))
		_, err := svc.GetTaskByID(ctx, 1, 99)

		require.Error(t, err)
		var businessErr *service.BusinessError
		assert.False(t, errors.As(err, &businessErr))
	})
}

// TestGoalService_CreateGoal тестирует валидацию целей
func TestGoalService_CreateGoal(t *testing.T) {
	ctx := context.Background()
	short := goal.ForecastShort
	bogus := goal.Forecast("Someday")

	tests := []struct {
		name      string
		title     string
		priority  int
		forecast  *goal.Forecast
		setupMock func(*MockGoalRepository)
		wantCode  string
	}{
		{
			name:     "success - with forecast",
			title:    "Выучить испанский",
			priority: 8,
			forecast: &short,
			setupMock: func(goals *MockGoalRepository) {
				goals.On("CreateGoal", mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:      "error - empty title",
			title:     "",
			priority:  5,
			setupMock: func(goals *MockGoalRepository) {},
			wantCode:  service.CodeValidation,
		},
		{
			name:      "error - unknown forecast",
			title:     "Цель",
			priority:  5,
			forecast:  &bogus,
			setupMock: func(goals *MockGoalRepository) {},
			wantCode:  service.CodeValidation,
		},
		{
			name:      "error - priority out of range",
			title:     "Цель",
			priority:  11,
			setupMock: func(goals *MockGoalRepository) {},
			wantCode:  service.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockGoals := new(MockGoalRepository)
			tt.setupMock(mockGoals)

			svc := service.NewGoalService(mockGoals)
			_, err := svc.CreateGoal(ctx, 1, tt.title, tt.priority, false, tt.forecast)

			if tt.wantCode != "" {
				assertBusinessCode(t, err, tt.wantCode)
			} else {
				require.NoError(t, err)
			}
			mockGoals.AssertExpectations(t)
		})
	}
}

func TestGoalService_DeleteGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockGoals := new(MockGoalRepository)
		mockGoals.On("DeleteGoal", mock.Anything, int64(1), int64(3)).Return(nil)

		svc := service.NewGoalService(mockGoals)
		require.NoError(t, svc.DeleteGoal(ctx, 1, 3))
		mockGoals.AssertExpectations(t)
	})

	t.Run("goal of another user looks missing", func(t *testing.T) {
		mockGoals := new(MockGoalRepository)
		mockGoals.On("DeleteGoal", mock.Anything, int64(2), int64(3)).Return(repo.ErrNotFound)

		svc := service.NewGoalService(mockGoals)
		err := svc.DeleteGoal(ctx, 2, 3)

		assertBusinessCode(t, err, service.CodeNotFound)
		mockGoals.AssertExpectations(t)
	})
}
