package http

import (
	"encoding/json"
	"net/http"

	"github.com/MonsieurBarti/quizz-webapp/internal/app"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSHandler streams a quizz leaderboard. When the connection names a player and an attempt it
// also accepts answer submissions.
type WSHandler struct {
	service  *app.TakerService
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.TakerService, log *zap.Logger) *WSHandler {
	return &WSHandler{
		service: service,
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

type answerPayload struct {
	QuestionID  string `json:"questionId"`
	AnswerID    string `json:"answerId"`
	TimeTakenMs int    `json:"timeTakenMs"`
	Final       bool   `json:"final"`
}

type answerResult struct {
	QuestionID             string `json:"questionId"`
	IsCorrect              bool   `json:"isCorrect"`
	Score                  int    `json:"score"`
	TotalQuestionsAnswered int    `json:"totalQuestionsAnswered"`
	Completed              bool   `json:"completed"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServeWS handles GET /ws/leaderboard?quizzId=...[&playerId=...&attemptId=...].
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	quizzID := query.Get("quizzId")
	playerID := query.Get("playerId")
	attemptID := query.Get("attemptId")
	if quizzID == "" {
		http.Error(w, "missing quizzId", http.StatusBadRequest)
		return
	}

	updates, cancel, err := h.service.SubscribeLeaderboard(r.Context(), quizzID)
	if err != nil {
		status, _ := classify(err)
		http.Error(w, err.Error(), status)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write failed", zap.Error(err))
				_ = conn.Close()
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "leaderboard", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	push := func(msg outboundMessage[any]) bool {
		select {
		case send <- msg:
			return true
		case <-writerDone:
			return false
		}
	}

	canAnswer := playerID != "" && attemptID != ""
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if inbound.Type != "answer" {
			if !push(errorMessage("unsupported_message", "unsupported message type")) {
				break
			}
			continue
		}
		if !canAnswer {
			if !push(errorMessage("read_only", "connect with playerId and attemptId to submit answers")) {
				break
			}
			continue
		}

		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			if !push(errorMessage("invalid_body", "invalid answer payload")) {
				break
			}
			continue
		}
		result, err := h.service.SubmitAnswer(r.Context(), app.SubmitAnswerInput{
			AttemptID:   attemptID,
			QuestionID:  payload.QuestionID,
			AnswerID:    payload.AnswerID,
			TimeTakenMs: payload.TimeTakenMs,
			QuizzID:     quizzID,
			PlayerID:    playerID,
			Final:       payload.Final,
		})
		if err != nil {
			status, code := classify(err)
			message := err.Error()
			if status == http.StatusInternalServerError {
				message = "internal error"
			}
			if !push(errorMessage(code, message)) {
				break
			}
			continue
		}
		if !push(outboundMessage[any]{Type: "answerResult", Payload: answerResult{
			QuestionID:             payload.QuestionID,
			IsCorrect:              result.Response.IsCorrect(),
			Score:                  result.Attempt.Score(),
			TotalQuestionsAnswered: result.Attempt.TotalQuestionsAnswered(),
			Completed:              result.Attempt.IsCompleted(),
		}}) {
			break
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func errorMessage(code, message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: code, Message: message}}
}
