package handlers

import (
	"context"
	"net/http"
	"time"

	"busynessBuster/internal/handlers/dto"
	"busynessBuster/internal/logger"

	"go.uber.org/zap"
)

type EventHandler struct {
	EventService EventService
	SyncTimeout  time.Duration
}

func NewEventHandler(eventService EventService, syncTimeout time.Duration) EventHandler {
	return EventHandler{
		EventService: eventService,
		SyncTimeout:  syncTimeout,
	}
}

// SyncEvents тянет события за сегодня из календаря и возвращает итог дня.
// Поход во внешний API ограничен своим таймаутом.
func (h *EventHandler) SyncEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	u, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.SyncTimeout)
	defer cancel()

	events, err := h.EventService.SyncToday(ctx, u.ID)
	if err != nil {
		respondServiceError(w, err, "sync_events")
		return
	}

	logger.Info("HTTP_OUT: События синхронизированы",
		zap.Int64("user_id", u.ID),
		zap.Int("count", len(events)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithModel(w, http.StatusOK, dto.FromEventList(events))
}

func (h *EventHandler) GetEventByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	u, ok := requireUser(w, r)
	if !ok {
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверный id")
		return
	}

	e, err := h.EventService.GetEventByID(r.Context(), u.ID, id)
	if err != nil {
		respondServiceError(w, err, "get_event")
		return
	}

	logger.Info("HTTP_OUT: Событие получено",
		zap.Int64("event_id", e.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithModel(w, http.StatusOK, dto.FromEvent(e))
}
