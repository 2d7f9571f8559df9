package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"busynessBuster/internal/handlers/dto"
	"busynessBuster/internal/logger"

	"go.uber.org/zap"
)

type AuthHandler struct {
	AuthService AuthService
}

func NewAuthHandler(authService AuthService) AuthHandler {
	return AuthHandler{
		AuthService: authService,
	}
}

// Login — единственный незащищённый POST. Причина отказа наружу не
// раскрывается.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if request.Username == "" || request.Password == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("error", "empty_credentials"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "логин и пароль не могут быть пустыми")
		return
	}

	result, err := h.AuthService.Login(r.Context(), request.Username, request.Password)
	if err != nil {
		respondServiceError(w, err, "login")
		return
	}

	logger.Info("HTTP_OUT: Вход выполнен",
		zap.Int64("user_id", result.UserID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithModel(w, http.StatusOK, dto.LoginResponse{
		AccessToken: result.AccessToken,
		UserID:      result.UserID,
		Username:    result.Username,
	})
}
