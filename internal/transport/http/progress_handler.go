package http

import (
	"net/http"

	"go.uber.org/zap"

	"cybersense-learning-service/internal/app"
)

// ProgressHandler exposes the caller's own progress records.
type ProgressHandler struct {
	quizzes *app.QuizService
	log     *zap.Logger
}

func NewProgressHandler(quizzes *app.QuizService, log *zap.Logger) *ProgressHandler {
	return &ProgressHandler{quizzes: quizzes, log: log}
}

func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.quizzes.ListProgress(r.Context(), accessFrom(r).UserID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
