package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"busynessBuster/internal/handlers/dto"
	"busynessBuster/internal/logger"
	"busynessBuster/internal/middleware"
	"busynessBuster/internal/models/task"
	"busynessBuster/internal/models/user"

	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

// requireUser достаёт пользователя, положенного воротами доступа.
// Отсутствие — ошибка сборки маршрутов, а не клиента.
func requireUser(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	u, ok := middleware.CurrentUser(r.Context())
	if !ok {
		logger.Error("HTTP: Хендлер вызван без аутентификации", nil,
			zap.String("path", r.URL.Path))
		responseWithError(w, http.StatusUnauthorized, "требуется аутентификация")
		return nil, false
	}
	return u, true
}

func (h *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
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

	var request dto.CreateTaskRequest
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
	completed := false
	if request.Completed != nil {
		completed = *request.Completed
	}

	created, err := h.TaskService.CreateTask(r.Context(), u.ID, request.Title, request.DueDate, priority, completed, request.GoalID)
	if err != nil {
		respondServiceError(w, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithModel(w, http.StatusCreated, dto.FromTask(created))
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
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

	t, err := h.TaskService.GetTaskByID(r.Context(), u.ID, id)
	if err != nil {
		respondServiceError(w, err, "get_task")
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.Int64("task_id", t.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithModel(w, http.StatusOK, dto.FromTask(t))
}

// PatchTask применяет только присланные поля; остальное не трогается.
func (h *TaskHandler) PatchTask(w http.ResponseWriter, r *http.Request) {
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

	var request dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	updated, err := h.TaskService.UpdateTask(r.Context(), u.ID, id,
		task.WithTitle(request.Title),
		task.WithDueDate(request.DueDate),
		task.WithPriority(request.Priority),
		task.WithCompleted(request.Completed),
		task.WithGoalID(request.GoalID),
	)
	if err != nil {
		respondServiceError(w, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int64("task_id", updated.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithModel(w, http.StatusOK, dto.FromTask(updated))
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
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

	if err := h.TaskService.DeleteTask(r.Context(), u.ID, id); err != nil {
		respondServiceError(w, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	responseNoContent(w)
}

func (h *TaskHandler) GetActiveTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	u, ok := requireUser(w, r)
	if !ok {
		return
	}

	tasks, err := h.TaskService.GetActiveTasks(r.Context(), u.ID)
	if err != nil {
		respondServiceError(w, err, "list_tasks")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithModel(w, http.StatusOK, dto.FromTaskList(tasks))
}
