package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"busynessBuster/internal/handlers/dto"
	"busynessBuster/internal/logger"
	"busynessBuster/internal/models/goal"

	"go.uber.org/zap"
)

type GoalHandler struct {
	GoalService GoalService
}

func NewGoalHandler(goalService GoalService) GoalHandler {
	return GoalHandler{
		GoalService: goalService,
	}
}

func (h *GoalHandler) PostGoal(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	u, ok := requireUser(w, r)
	if !ok {
		return
	}

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	priority := 0
	if request.Priority != nil {
		priority = *request.Priority
	}
	accomplished := false
	if request.Accomplished != nil {
		accomplished = *request.Accomplished
	}

	created, err := h.GoalService.CreateGoal(r.Context(), u.ID, request.Goal, priority, accomplished, request.Forecast)
	if err != nil {
		respondServiceError(w, err, "create_goal")
		return
	}

	logger.Info("HTTP_OUT: Цель создана",
		zap.Int64("goal_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithModel(w, http.StatusCreated, dto.FromGoal(created))
}

func (h *GoalHandler) GetGoalByID(w http.ResponseWriter, r *http.Request) {
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

	g, err := h.GoalService.GetGoalByID(r.Context(), u.ID, id)
	if err != nil {
		respondServiceError(w, err, "get_goal")
		return
	}

	logger.Info("HTTP_OUT: Цель получена",
		zap.Int64("goal_id", g.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithModel(w, http.StatusOK, dto.FromGoal(g))
}

func (h *GoalHandler) PatchGoal(w http.ResponseWriter, r *http.Request) {
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

	var request dto.UpdateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	updated, err := h.GoalService.UpdateGoal(r.Context(), u.ID, id,
		goal.WithGoal(request.Goal),
		goal.WithPriority(request.Priority),
		goal.WithAccomplished(request.Accomplished),
		goal.WithForecast(request.Forecast),
	)
	if err != nil {
		respondServiceError(w, err, "update_goal")
		return
	}

	logger.Info("HTTP_OUT: Цель обновлена",
		zap.Int64("goal_id", updated.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithModel(w, http.StatusOK, dto.FromGoal(updated))
}

// DeleteGoal снимает цель; задачи, ссылавшиеся на неё, остаются без цели.
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
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

	if err := h.GoalService.DeleteGoal(r.Context(), u.ID, id); err != nil {
		respondServiceError(w, err, "delete_goal")
		return
	}

	logger.Info("HTTP_OUT: Цель удалена",
		zap.Int64("goal_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	responseNoContent(w)
}

func (h *GoalHandler) GetActiveGoals(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	u, ok := requireUser(w, r)
	if !ok {
		return
	}

	goals, err := h.GoalService.GetActiveGoals(r.Context(), u.ID)
	if err != nil {
		respondServiceError(w, err, "list_goals")
		return
	}

	logger.Info("HTTP_OUT: Цели получены",
		zap.Int("count", len(goals)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithModel(w, http.StatusOK, dto.FromGoalList(goals))
}
