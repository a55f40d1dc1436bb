package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/metrics"
)

// UserHeader carries the caller's user name; the "user" query parameter is accepted as well.
const UserHeader = "X-Quiz-User"

const learnedAllMessage = "Congratulations! You have learned all the words."

// APIHandler serves the JSON quiz endpoints.
type APIHandler struct {
	service       *app.QuizService
	metrics       *metrics.Metrics
	log           *zap.Logger
	dashboardDays int
}

func NewAPIHandler(service *app.QuizService, m *metrics.Metrics, log *zap.Logger, dashboardDays int) *APIHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &APIHandler{service: service, metrics: m, log: log, dashboardDays: dashboardDays}
}

// Register mounts the endpoints on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/quiz", h.instrument("quiz", h.quiz))
	mux.HandleFunc("POST /api/answer", h.instrument("answer", h.answer))
	mux.HandleFunc("GET /api/summary", h.instrument("summary", h.summary))
	mux.HandleFunc("GET /api/dashboard", h.instrument("dashboard", h.dashboard))
}

type answerResponse struct {
	ResultMessage string `json:"result_message"`
	CorrectAnswer string `json:"correct_answer"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *APIHandler) quiz(w http.ResponseWriter, r *http.Request) {
	question, err := h.service.NextQuestion(r.Context(), userFrom(r))
	if errors.Is(err, domain.ErrAllWordsLearned) {
		writeJSON(w, http.StatusOK, messageResponse{Message: learnedAllMessage})
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (h *APIHandler) answer(w http.ResponseWriter, r *http.Request) {
	var submission domain.AnswerSubmission
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := json.Unmarshal(body, &submission); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid answer payload"})
		return
	}

	verdict, err := h.service.SubmitAnswer(r.Context(), userFrom(r), submission)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveAnswer(verdict.IsCorrect)
	}
	writeJSON(w, http.StatusOK, answerResponse{
		ResultMessage: verdict.ResultMessage,
		CorrectAnswer: verdict.CorrectAnswer,
	})
}

func (h *APIHandler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), userFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *APIHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	from, to := h.service.RecentWindow(h.dashboardDays)
	loc := h.service.Location()
	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = time.ParseInLocation(domain.DateLayout, raw, loc); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "from must be YYYY-MM-DD"})
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = time.ParseInLocation(domain.DateLayout, raw, loc); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "to must be YYYY-MM-DD"})
			return
		}
	}

	points, err := h.service.Dashboard(r.Context(), from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	switch {
	case status >= http.StatusInternalServerError && !errors.Is(err, domain.ErrStoreBusy):
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	case status >= http.StatusInternalServerError:
		h.log.Warn("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case app.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDailyLimitReached):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrStoreBusy), errors.Is(err, domain.ErrEmptyBank):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func userFrom(r *http.Request) string {
	if user := strings.TrimSpace(r.Header.Get(UserHeader)); user != "" {
		return user
	}
	return strings.TrimSpace(r.URL.Query().Get("user"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
