package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"cybersense-learning-service/internal/app"
	"cybersense-learning-service/internal/domain"
)

// WSHandler drives a quiz attempt over a websocket. The client starts an
// attempt via query parameters, then steers it with select/next/previous
// messages; the handler answers with the current question view and, at
// the end, the scored result.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewWSHandler(service *app.QuizService, log *zap.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	QuestionID string `json:"questionId"`
	Option     string `json:"option"`
}

type outboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs the attempt loop. The scope
// comes from query parameters: moduleId+quizId for a single quiz, or
// difficulty alone for a cross-module practice pool.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	access := accessFrom(r)
	if access.UserID == "" {
		http.Error(w, "missing caller identity", http.StatusUnauthorized)
		return
	}

	scope := domain.QuizScope{
		ModuleID:   r.URL.Query().Get("moduleId"),
		QuizID:     r.URL.Query().Get("quizId"),
		Difficulty: domain.Difficulty(r.URL.Query().Get("difficulty")),
	}
	if !scope.IsPool() && (scope.ModuleID == "" || scope.QuizID == "") {
		http.Error(w, "missing moduleId+quizId or difficulty", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	attempt, err := h.service.Start(r.Context(), access.UserID, scope)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Abandon(access.UserID)

	send := make(chan outboundMessage, 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Warn("ws write failed", zap.Error(err))
				return
			}
		}
	}()

	if attempt.Phase() == app.PhaseEmpty {
		send <- outboundMessage{Type: "empty"}
	} else {
		h.sendCurrent(send, attempt)
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage{Type: "error", Payload: errorPayload{Message: "invalid select payload"}}
				continue
			}
			if err := h.service.SelectAnswer(access.UserID, payload.QuestionID, payload.Option); err != nil {
				send <- outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			h.sendCurrent(send, attempt)
		case "next":
			result, err := h.service.Advance(r.Context(), access.UserID)
			if err != nil {
				send <- outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			if result != nil {
				send <- outboundMessage{Type: "finished", Payload: result}
				continue
			}
			h.sendCurrent(send, attempt)
		case "previous":
			if err := h.service.Retreat(access.UserID); err != nil {
				send <- outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			h.sendCurrent(send, attempt)
		default:
			send <- outboundMessage{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(send)
	<-writerDone
}

func (h *WSHandler) sendCurrent(send chan<- outboundMessage, attempt *app.Attempt) {
	if view, ok := attempt.Current(); ok {
		send <- outboundMessage{Type: "question", Payload: view}
	}
}
