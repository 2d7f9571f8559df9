package handlers

import (
	"errors"
	"net/http"

	"busynessBuster/internal/logger"
	"busynessBuster/internal/service"

	"go.uber.org/zap"
)

// handleBusinessError переводит бизнес-ошибку в HTTP-ответ. Возвращает
// false, если ошибка не бизнесовая — тогда это 500 без деталей наружу.
func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
	)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeAuth, service.CodeUpstreamAuthExpired:
		return http.StatusUnauthorized
	case service.CodeUpstream, service.CodeAnalysisUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError — общий хвост всех хендлеров: бизнес-ошибка
// уходит со своим статусом, остальное — 500 с короткой фразой.
func respondServiceError(w http.ResponseWriter, err error, operation string) {
	if handleBusinessError(w, err) {
		return
	}

	logger.Error("HTTP: Ошибка Service", err, zap.String("operation", operation))
	responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
}
