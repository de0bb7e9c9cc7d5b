package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cybersense-learning-service/internal/app"
	"cybersense-learning-service/internal/domain"
)

// ContentHandler exposes the module/quiz/question tree. Reads are open
// to any signed-in caller; mutations go through the service's role gate.
type ContentHandler struct {
	content *app.ContentService
	log     *zap.Logger
}

func NewContentHandler(content *app.ContentService, log *zap.Logger) *ContentHandler {
	return &ContentHandler{content: content, log: log}
}

func (h *ContentHandler) ListModules(w http.ResponseWriter, r *http.Request) {
	modules, err := h.content.ListModules(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, modules)
}

func (h *ContentHandler) GetModule(w http.ResponseWriter, r *http.Request) {
	module, err := h.content.GetModule(r.Context(), chi.URLParam(r, "moduleID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, module)
}

func (h *ContentHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	var in domain.Module
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	module, err := h.content.CreateModule(r.Context(), accessFrom(r), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, module)
}

func (h *ContentHandler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	var in domain.Module
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	in.ID = chi.URLParam(r, "moduleID")
	if err := h.content.UpdateModule(r.Context(), accessFrom(r), in); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (h *ContentHandler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	if err := h.content.DeleteModule(r.Context(), accessFrom(r), chi.URLParam(r, "moduleID")); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *ContentHandler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.content.ListQuizzes(r.Context(), chi.URLParam(r, "moduleID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *ContentHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.content.GetQuiz(r.Context(), chi.URLParam(r, "moduleID"), chi.URLParam(r, "quizID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *ContentHandler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var in domain.Quiz
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	in.ModuleID = chi.URLParam(r, "moduleID")
	quiz, err := h.content.CreateQuiz(r.Context(), accessFrom(r), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (h *ContentHandler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	var in domain.Quiz
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	in.ModuleID = chi.URLParam(r, "moduleID")
	in.ID = chi.URLParam(r, "quizID")
	if err := h.content.UpdateQuiz(r.Context(), accessFrom(r), in); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (h *ContentHandler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.content.DeleteQuiz(r.Context(), accessFrom(r), chi.URLParam(r, "moduleID"), chi.URLParam(r, "quizID")); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *ContentHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.content.ListQuestions(r.Context(), accessFrom(r), chi.URLParam(r, "moduleID"), chi.URLParam(r, "quizID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *ContentHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var in domain.Question
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	question, err := h.content.CreateQuestion(r.Context(), accessFrom(r), chi.URLParam(r, "moduleID"), chi.URLParam(r, "quizID"), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

func (h *ContentHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var in domain.Question
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	in.ID = chi.URLParam(r, "questionID")
	if err := h.content.UpdateQuestion(r.Context(), accessFrom(r), chi.URLParam(r, "moduleID"), chi.URLParam(r, "quizID"), in); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (h *ContentHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.content.DeleteQuestion(r.Context(), accessFrom(r), chi.URLParam(r, "moduleID"), chi.URLParam(r, "quizID"), chi.URLParam(r, "questionID")); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
