package handlers

import (
	"context"
	"net/http"
	"time"

	"busynessBuster/internal/handlers/dto"
	"busynessBuster/internal/logger"

	"go.uber.org/zap"
)

type AnalysisHandler struct {
	AnalysisService AnalysisService
	Timeout         time.Duration
}

func NewAnalysisHandler(analysisService AnalysisService, timeout time.Duration) AnalysisHandler {
	return AnalysisHandler{
		AnalysisService: analysisService,
		Timeout:         timeout,
	}
}

// GetAnalysis собирает цели, задачи и события дня и отдаёт текст разбора.
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	u, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	analysis, err := h.AnalysisService.Analyze(ctx, u.ID)
	if err != nil {
		respondServiceError(w, err, "analysis")
		return
	}

	logger.Info("HTTP_OUT: Анализ получен",
		zap.Int64("user_id", u.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithModel(w, http.StatusOK, dto.AnalysisResponse{Analysis: analysis})
}
