package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cybersense-learning-service/internal/app"
)

// ForumHandler exposes posts and comments.
type ForumHandler struct {
	forum *app.ForumService
	log   *zap.Logger
}

func NewForumHandler(forum *app.ForumService, log *zap.Logger) *ForumHandler {
	return &ForumHandler{forum: forum, log: log}
}

func (h *ForumHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.forum.ListPosts(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *ForumHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var in postRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	post, err := h.forum.CreatePost(r.Context(), accessFrom(r), in.Title, in.Content)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *ForumHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var in postRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	post, err := h.forum.UpdatePost(r.Context(), accessFrom(r), chi.URLParam(r, "postID"), in.Title, in.Content)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *ForumHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.forum.DeletePost(r.Context(), accessFrom(r), chi.URLParam(r, "postID")); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *ForumHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.forum.ListComments(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *ForumHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var in commentRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	comment, err := h.forum.AddComment(r.Context(), accessFrom(r), chi.URLParam(r, "postID"), in.Text)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}
