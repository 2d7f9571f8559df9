package handlers

import (
	"net/http"

	"busynessBuster/internal/logger"
)

type HealthHandler struct {
	Checker HealthChecker
}

func NewHealthHandler(checker HealthChecker) HealthHandler {
	return HealthHandler{Checker: checker}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Checker.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Хранилище недоступно", err)
		responseWithJSON(w, http.StatusServiceUnavailable, toPayload("status", "unavailable"))
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}
