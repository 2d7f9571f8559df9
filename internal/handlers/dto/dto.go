package dto

import (
	"time"

	"busynessBuster/internal/models/event"
	"busynessBuster/internal/models/goal"
	"busynessBuster/internal/models/task"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
}

// В запросах на создание необязательные поля — указатели: отсутствие
// поля даёт значение по умолчанию. В PATCH-запросах указатели означают
// «поле не передано — не трогать».

type CreateTaskRequest struct {
	Title     string     `json:"title"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Priority  *int       `json:"priority,omitempty"`
	Completed *bool      `json:"completed,omitempty"`
	GoalID    *int64     `json:"goal_id,omitempty"`
}

type UpdateTaskRequest struct {
	Title     *string    `json:"title,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Priority  *int       `json:"priority,omitempty"`
	Completed *bool      `json:"completed,omitempty"`
	// goal_id = 0 — явная отвязка задачи от цели
	GoalID *int64 `json:"goal_id,omitempty"`
}

type CreateGoalRequest struct {
	Goal         string         `json:"goal"`
	Priority     *int           `json:"priority,omitempty"`
	Accomplished *bool          `json:"accomplished,omitempty"`
	Forecast     *goal.Forecast `json:"forecast,omitempty"`
}

type UpdateGoalRequest struct {
	Goal         *string        `json:"goal,omitempty"`
	Priority     *int           `json:"priority,omitempty"`
	Accomplished *bool          `json:"accomplished,omitempty"`
	Forecast     *goal.Forecast `json:"forecast,omitempty"`
}

type TaskResponse struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Priority  int        `json:"priority"`
	Completed bool       `json:"completed"`
	GoalID    *int64     `json:"goal_id,omitempty"`
}

type GoalResponse struct {
	ID           int64          `json:"id"`
	Goal         string         `json:"goal"`
	Priority     int            `json:"priority"`
	Accomplished bool           `json:"accomplished"`
	Forecast     *goal.Forecast `json:"forecast,omitempty"`
}

type EventResponse struct {
	ID        int64      `json:"id"`
	GoogleID  string     `json:"google_id"`
	Summary   string     `json:"summary"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

type AnalysisResponse struct {
	Analysis string `json:"analysis"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		Title:     t.Title,
		DueDate:   t.DueDate,
		Priority:  t.Priority,
		Completed: t.Completed,
		GoalID:    t.GoalID,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

func FromGoal(g *goal.Goal) GoalResponse {
	return GoalResponse{
		ID:           g.ID,
		Goal:         g.Goal,
		Priority:     g.Priority,
		Accomplished: g.Accomplished,
		Forecast:     g.Forecast,
	}
}

func FromGoalList(goals []*goal.Goal) []GoalResponse {
	result := make([]GoalResponse, len(goals))
	for i, g := range goals {
		result[i] = FromGoal(g)
	}
	return result
}

func FromEvent(e *event.Event) EventResponse {
	return EventResponse{
		ID:        e.ID,
		GoogleID:  e.GoogleID,
		Summary:   e.Summary,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
	}
}

func FromEventList(events []*event.Event) []EventResponse {
	result := make([]EventResponse, len(events))
	for i, e := range events {
		result[i] = FromEvent(e)
	}
	return result
}
