package task

import "time"

// TaskOption — функция частичного обновления: применяет одно поле из
// PATCH-запроса. nil-опция означает, что поле в запросе не передано
// и трогать его нельзя.
type TaskOption func(*Task)

func WithTitle(title *string) TaskOption {
	if title == nil {
		return nil
	}
	return func(t *Task) {
		t.Title = *title
	}
}

func WithDueDate(dueDate *time.Time) TaskOption {
	if dueDate == nil {
		return nil
	}
	return func(t *Task) {
		t.DueDate = dueDate
	}
}

func WithPriority(priority *int) TaskOption {
	if priority == nil {
		return nil
	}
	return func(t *Task) {
		t.Priority = *priority
	}
}

func WithCompleted(completed *bool) TaskOption {
	if completed == nil {
		return nil
	}
	return func(t *Task) {
		t.Completed = *completed
	}
}

// WithGoalID привязывает задачу к цели. Нулевой id — явная отвязка:
// серийные идентификаторы начинаются с единицы, поэтому 0 свободен
// под это значение.
func WithGoalID(goalID *int64) TaskOption {
	if goalID == nil {
		return nil
	}
	return func(t *Task) {
		if *goalID == 0 {
			t.GoalID = nil
			return
		}
		t.GoalID = goalID
	}
}
