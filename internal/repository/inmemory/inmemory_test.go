package inmemory_test

import (
	"context"
	"testing"
	"time"

	"busynessBuster/internal/models/event"
	"busynessBuster/internal/models/goal"
	"busynessBuster/internal/models/task"
	"busynessBuster/internal/models/user"
	repo "busynessBuster/internal/repository"
	"busynessBuster/internal/repository/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_Users(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()

	u := &user.User{Username: "owner", PasswordHash: "hash"}
	require.NoError(t, storage.CreateUser(ctx, u))
	assert.NotZero(t, u.ID)

	byID, err := storage.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner", byID.Username)

	byName, err := storage.GetUserByUsername(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = storage.GetUserByUsername(ctx, "stranger")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	all, err := storage.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStorage_TaskCRUD(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()

	created := &task.Task{UserID: 1, Title: "Задача", Priority: 5}
	require.NoError(t, storage.CreateTask(ctx, created))

	got, err := storage.GetTaskByID(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Задача", got.Title)

	// чужой userID эквивалентен отсутствию
	_, err = storage.GetTaskByID(ctx, 2, created.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	got.Completed = true
	require.NoError(t, storage.UpdateTask(ctx, got))

	updated, err := storage.GetTaskByID(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	err = storage.DeleteTask(ctx, 2, created.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, storage.DeleteTask(ctx, 1, created.ID))
	_, err = storage.GetTaskByID(ctx, 1, created.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestStorage_GetActiveTasks(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()

	open := &task.Task{UserID: 1, Title: "Открытая", Priority: 1}
	done := &task.Task{UserID: 1, Title: "Закрытая", Completed: true}
	foreign := &task.Task{UserID: 2, Title: "Чужая"}
	require.NoError(t, storage.CreateTask(ctx, open))
	require.NoError(t, storage.CreateTask(ctx, done))
	require.NoError(t, storage.CreateTask(ctx, foreign))

	active, err := storage.GetActiveTasks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Открытая", active[0].Title)
}

func TestStorage_GetTopTasksByPriority(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()

	for _, tc := range []struct {
		title    string
		priority int
	}{
		{"низкий", 1},
		{"высокий", 9},
		{"средний-первый", 5},
		{"средний-второй", 5},
	} {
		require.NoError(t, storage.CreateTask(ctx, &task.Task{
			UserID: 1, Title: tc.title, Priority: tc.priority,
		}))
	}

	top, err := storage.GetTopTasksByPriority(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "высокий", top[0].Title)
	// при равном приоритете сохраняется порядок вставки
	assert.Equal(t, "средний-первый", top[1].Title)
	assert.Equal(t, "средний-второй", top[2].Title)
}

func TestStorage_DeleteGoalUnlinksTasks(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()

	g := &goal.Goal{UserID: 1, Goal: "Цель", Priority: 5}
	require.NoError(t, storage.CreateGoal(ctx, g))

	linked := &task.Task{UserID: 1, Title: "Привязанная", GoalID: &g.ID}
	require.NoError(t, storage.CreateTask(ctx, linked))

	require.NoError(t, storage.DeleteGoal(ctx, 1, g.ID))

	got, err := storage.GetTaskByID(ctx, 1, linked.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GoalID)
}

func TestStorage_GetActiveGoals(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()

	require.NoError(t, storage.CreateGoal(ctx, &goal.Goal{UserID: 1, Goal: "Открытая"}))
	require.NoError(t, storage.CreateGoal(ctx, &goal.Goal{UserID: 1, Goal: "Достигнутая", Accomplished: true}))
	require.NoError(t, storage.CreateGoal(ctx, &goal.Goal{UserID: 2, Goal: "Чужая"}))

	active, err := storage.GetActiveGoals(ctx, 1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Открытая", active[0].Goal)
}

func TestStorage_UpsertEvents(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()

	first := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	raws := []event.Raw{
		{GoogleID: "g-1", Summary: "Стендап", Start: &first},
		{GoogleID: "g-2", Summary: "Обзор"},
	}
	require.NoError(t, storage.UpsertEvents(ctx, 1, raws))

	// повторный upsert того же google_id обновляет, а не дублирует
	moved := first.Add(2 * time.Hour)
	require.NoError(t, storage.UpsertEvents(ctx, 1, []event.Raw{
		{GoogleID: "g-1", Summary: "Стендап (перенос)", Start: &moved},
	}))

	from := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	events, err := storage.GetEventsBetween(ctx, 1, from, to)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Стендап (перенос)", events[0].Summary)
	assert.Equal(t, moved, *events[0].StartTime)

	// тот же google_id у другого пользователя — отдельная строка
	require.NoError(t, storage.UpsertEvents(ctx, 2, []event.Raw{
		{GoogleID: "g-1", Summary: "Чужой стендап", Start: &first},
	}))

	ours, err := storage.GetEventsBetween(ctx, 1, from, to)
	require.NoError(t, err)
	assert.Len(t, ours, 1)

	theirs, err := storage.GetEventsBetween(ctx, 2, from, to)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "Чужой стендап", theirs[0].Summary)
}

func TestStorage_GetEventsBetweenWindow(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()

	from := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	atStart := from
	beforeWindow := from.Add(-time.Minute)
	atEnd := to

	require.NoError(t, storage.UpsertEvents(ctx, 1, []event.Raw{
		{GoogleID: "in", Summary: "Внутри окна", Start: &atStart},
		{GoogleID: "before", Summary: "Вчера", Start: &beforeWindow},
		{GoogleID: "at-end", Summary: "Завтрашняя полночь", Start: &atEnd},
		{GoogleID: "no-start", Summary: "Без времени"},
	}))

	events, err := storage.GetEventsBetween(ctx, 1, from, to)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Внутри окна", events[0].Summary)
}
