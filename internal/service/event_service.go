package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"busynessBuster/internal/clients/gcal"
	"busynessBuster/internal/logger"
	"busynessBuster/internal/models/event"
	repo "busynessBuster/internal/repository"
	"busynessBuster/internal/repository/inter"

	"go.uber.org/zap"
)

// Calendar — внешний коллаборатор: отдаёт сырые события за «сегодня»
// в опорном часовом поясе.
type Calendar interface {
	FetchToday(ctx context.Context) ([]event.Raw, error)
}

type EventService struct {
	events   inter.EventRepository
	calendar Calendar
	loc      *time.Location
}

func NewEventService(events inter.EventRepository, calendar Calendar, loc *time.Location) EventService {
	return EventService{
		events:   events,
		calendar: calendar,
		loc:      loc,
	}
}

// TodayWindow — границы «сегодня» в опорном поясе: локальная полночь
// включительно, следующая полночь исключительно.
func TodayWindow(loc *time.Location) (time.Time, time.Time) {
	now := time.Now().In(loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return from, from.Add(24 * time.Hour)
}

// SyncToday забирает события за сегодня и применяет их одной пачкой:
// upsert по ключу (google_id, пользователь), частичной записи не бывает.
func (s *EventService) SyncToday(ctx context.Context, userID int64) ([]*event.Event, error) {
	raws, err := s.calendar.FetchToday(ctx)
	if err != nil {
		switch {
		case errors.Is(err, gcal.ErrReauthRequired):
			logger.Warn("Service: Календарь требует повторной авторизации", zap.Error(err))
			return nil, NewBusinessError(CodeUpstreamAuthExpired,
				"Авторизация в календаре истекла, требуется повторный вход")
		case errors.Is(err, gcal.ErrUnavailable):
			logger.Error("Service: Календарь недоступен", err)
			return nil, NewBusinessError(CodeUpstream, "Календарь недоступен")
		default:
			logger.Error("Service: Ошибка календаря", err)
			return nil, NewBusinessError(CodeUpstream, "Ошибка внешнего календаря")
		}
	}

	if err := s.events.UpsertEvents(ctx, userID, raws); err != nil {
		return nil, fmt.Errorf("сохранение событий: %w", err)
	}

	from, to := TodayWindow(s.loc)
	stored, err := s.events.GetEventsBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("получение событий за сегодня: %w", err)
	}

	logger.Info("Service: Синхронизация завершена",
		zap.Int64("user_id", userID),
		zap.Int("fetched", len(raws)),
		zap.Int("stored_today", len(stored)))
	return stored, nil
}

func (s *EventService) GetEventByID(ctx context.Context, userID, id int64) (*event.Event, error) {
	e, err := s.events.GetEventByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Событие не найдено", zap.Int64("target_id", id))
			return nil, NewNotFound("событие", id)
		}
		return nil, fmt.Errorf("получение события: %w", err)
	}
	return e, nil
}
