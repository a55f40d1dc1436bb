package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/metrics"
)

// WSHandler runs the quiz flow over a websocket: each inbound message gets exactly one reply.
type WSHandler struct {
	service  *app.QuizService
	metrics  *metrics.Metrics
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, m *metrics.Metrics, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		metrics: m,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	if user == "" {
		http.Error(w, "missing user", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	// Only this goroutine writes to conn.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Warn("ws write error", zap.String("user", user), zap.Error(err))
				return
			}
		}
	}()

	ctx := r.Context()
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		var reply outboundMessage[any]
		switch inbound.Type {
		case "quiz":
			question, err := h.service.NextQuestion(ctx, user)
			switch {
			case errors.Is(err, domain.ErrAllWordsLearned):
				reply = outboundMessage[any]{Type: "message", Payload: messageResponse{Message: learnedAllMessage}}
			case err != nil:
				reply = errorReply(err)
			default:
				reply = outboundMessage[any]{Type: "question", Payload: question}
			}
		case "answer":
			var submission domain.AnswerSubmission
			if err := json.Unmarshal(inbound.Payload, &submission); err != nil {
				reply = outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				break
			}
			verdict, err := h.service.SubmitAnswer(ctx, user, submission)
			if err != nil {
				reply = errorReply(err)
				break
			}
			if h.metrics != nil {
				h.metrics.ObserveAnswer(verdict.IsCorrect)
			}
			reply = outboundMessage[any]{Type: "answerResult", Payload: answerResponse{
				ResultMessage: verdict.ResultMessage,
				CorrectAnswer: verdict.CorrectAnswer,
			}}
		case "summary":
			summary, err := h.service.Summary(ctx, user)
			if err != nil {
				reply = errorReply(err)
				break
			}
			reply = outboundMessage[any]{Type: "summary", Payload: summary}
		default:
			reply = outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}

		select {
		case send <- reply:
		case <-writerDone:
			return
		}
	}

	close(send)
	<-writerDone
}

func errorReply(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
}
