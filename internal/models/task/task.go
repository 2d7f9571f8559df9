package task

import "time"

const MinPriority = 0
const MaxPriority = 10

type Task struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"-" db:"user_id"`
	Title     string     `json:"title" db:"title"`
	DueDate   *time.Time `json:"due_date,omitempty" db:"due_date"`
	Priority  int        `json:"priority" db:"priority"`
	Completed bool       `json:"completed" db:"completed"`
	GoalID    *int64     `json:"goal_id,omitempty" db:"goal_id"`
}
