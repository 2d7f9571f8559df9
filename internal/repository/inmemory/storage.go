package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"busynessBuster/internal/models/event"
	"busynessBuster/internal/models/goal"
	"busynessBuster/internal/models/task"
	"busynessBuster/internal/models/user"
	repo "busynessBuster/internal/repository"
)

type eventKey struct {
	userID   int64
	googleID string
}

// Storage — то же хранилище, что и postgres, но на картах. Используется
// в юнит-тестах и при repository.type = inmemory.
type Storage struct {
	mtx    sync.RWMutex
	nextID int64

	users  map[int64]*user.User
	tasks  map[int64]*task.Task
	goals  map[int64]*goal.Goal
	events map[int64]*event.Event

	// порядок вставки, чтобы выборки были стабильны
	taskIDs  []int64
	goalIDs  []int64
	eventIDs []int64

	eventKeys map[eventKey]int64
}

func New() *Storage {
	return &Storage{
		users:     make(map[int64]*user.User),
		tasks:     make(map[int64]*task.Task),
		goals:     make(map[int64]*goal.Goal),
		events:    make(map[int64]*event.Event),
		eventKeys: make(map[eventKey]int64),
	}
}

func (s *Storage) Close() {}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *Storage) nextSerial() int64 {
	s.nextID++
	return s.nextID
}

// --- users ---

func (s *Storage) CreateUser(ctx context.Context, u *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	u.ID = s.nextSerial()
	copied := *u
	s.users[u.ID] = &copied
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id int64) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *Storage) ListUsers(ctx context.Context) ([]*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	users := []*user.User{}
	for _, u := range s.users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// --- tasks ---

func (s *Storage) CreateTask(ctx context.Context, t *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t.ID = s.nextSerial()
	copied := *t
	s.tasks[t.ID] = &copied
	s.taskIDs = append(s.taskIDs, t.ID)
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, userID, id int64) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repo.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *Storage) UpdateTask(ctx context.Context, t *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.tasks[t.ID]
	if !ok || existing.UserID != t.UserID {
		return repo.ErrNotFound
	}
	copied := *t
	s.tasks[t.ID] = &copied
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, userID, id int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return repo.ErrNotFound
	}
	delete(s.tasks, id)
	s.taskIDs = removeID(s.taskIDs, id)
	return nil
}

func (s *Storage) GetActiveTasks(ctx context.Context, userID int64) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tasks := []*task.Task{}
	for _, id := range s.taskIDs {
		t := s.tasks[id]
		if t.UserID != userID || t.Completed {
			continue
		}
		copied := *t
		tasks = append(tasks, &copied)
	}
	return tasks, nil
}

func (s *Storage) GetTopTasksByPriority(ctx context.Context, userID int64, limit int) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tasks := []*task.Task{}
	for _, id := range s.taskIDs {
		t := s.tasks[id]
		if t.UserID != userID {
			continue
		}
		copied := *t
		tasks = append(tasks, &copied)
	}

	// приоритет по убыванию, при равенстве — порядок вставки
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority > tasks[j].Priority
	})

	if len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

// --- goals ---

func (s *Storage) CreateGoal(ctx context.Context, g *goal.Goal) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	g.ID = s.nextSerial()
	copied := *g
	s.goals[g.ID] = &copied
	s.goalIDs = append(s.goalIDs, g.ID)
	return nil
}

func (s *Storage) GetGoalByID(ctx context.Context, userID, id int64) (*goal.Goal, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return nil, repo.ErrNotFound
	}
	copied := *g
	return &copied, nil
}

func (s *Storage) UpdateGoal(ctx context.Context, g *goal.Goal) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.goals[g.ID]
	if !ok || existing.UserID != g.UserID {
		return repo.ErrNotFound
	}
	copied := *g
	s.goals[g.ID] = &copied
	return nil
}

// DeleteGoal повторяет поведение FK ON DELETE SET NULL: ссылки из задач
// обнуляются в том же вызове.
func (s *Storage) DeleteGoal(ctx context.Context, userID, id int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return repo.ErrNotFound
	}
	delete(s.goals, id)
	s.goalIDs = removeID(s.goalIDs, id)

	for _, t := range s.tasks {
		if t.GoalID != nil && *t.GoalID == id {
			t.GoalID = nil
		}
	}
	return nil
}

func (s *Storage) GetActiveGoals(ctx context.Context, userID int64) ([]*goal.Goal, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	goals := []*goal.Goal{}
	for _, id := range s.goalIDs {
		g := s.goals[id]
		if g.UserID != userID || g.Accomplished {
			continue
		}
		copied := *g
		goals = append(goals, &copied)
	}
	return goals, nil
}

// --- events ---

func (s *Storage) GetEventByID(ctx context.Context, userID, id int64) (*event.Event, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	e, ok := s.events[id]
	if !ok || e.UserID != userID {
		return nil, repo.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (s *Storage) UpsertEvents(ctx context.Context, userID int64, raws []event.Raw) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, raw := range raws {
		key := eventKey{userID: userID, googleID: raw.GoogleID}
		if id, ok := s.eventKeys[key]; ok {
			existing := s.events[id]
			existing.Summary = raw.Summary
			existing.StartTime = raw.Start
			existing.EndTime = raw.End
			continue
		}

		e := &event.Event{
			ID:        s.nextSerial(),
			UserID:    userID,
			GoogleID:  raw.GoogleID,
			Summary:   raw.Summary,
			StartTime: raw.Start,
			EndTime:   raw.End,
		}
		s.events[e.ID] = e
		s.eventIDs = append(s.eventIDs, e.ID)
		s.eventKeys[key] = e.ID
	}
	return nil
}

func (s *Storage) GetEventsBetween(ctx context.Context, userID int64, from, to time.Time) ([]*event.Event, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	events := []*event.Event{}
	for _, id := range s.eventIDs {
		e := s.events[id]
		if e.UserID != userID || e.StartTime == nil {
			continue
		}
		if e.StartTime.Before(from) || !e.StartTime.Before(to) {
			continue
		}
		copied := *e
		events = append(events, &copied)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(*events[j].StartTime)
	})
	return events, nil
}

func removeID(ids []int64, id int64) []int64 {
	for ind, val := range ids {
		if val == id {
			return append(ids[:ind], ids[ind+1:]...)
		}
	}
	return ids
}
