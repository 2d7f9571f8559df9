package event

import "time"

// Event — запись календаря, сохранённая локально. Пишется только через
// синхронизацию: ключ (user_id, google_id) определяет upsert.
type Event struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"-" db:"user_id"`
	GoogleID  string     `json:"google_id" db:"google_id"`
	Summary   string     `json:"summary" db:"summary"`
	StartTime *time.Time `json:"start_time,omitempty" db:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty" db:"end_time"`
}

// Raw — событие в том виде, в каком его отдал внешний календарь,
// до привязки к пользователю.
type Raw struct {
	GoogleID string
	Summary  string
	Start    *time.Time
	End      *time.Time
}
