package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/game"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
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

type createGamePayload struct {
	QuizID string `json:"quizId"`
	Token  string `json:"token"`
}

type joinGamePayload struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type answerPayload struct {
	OptionID int `json:"optionId"`
}

// ServeWS upgrades the request and runs the per-connection event loop. Each
// connection gets a fresh identity; its first create_game or join_game
// message binds it to a session, whose broadcasts are then forwarded until
// either side closes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	send := make(chan domain.Event, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	forwardDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	var cancelSub func()
	subscribed := false
	attach := func(session *game.Session) {
		if subscribed {
			return
		}
		subscribed = true
		updates, cancel := session.Subscribe()
		cancelSub = cancel
		go func() {
			defer close(forwardDone)
			for {
				select {
				case update, ok := <-updates:
					if !ok {
						return
					}
					select {
					case send <- update:
					case <-closeSignals:
						return
					}
				case <-closeSignals:
					return
				}
			}
		}()
	}

	sendErr := func(message string) {
		send <- domain.Event{Type: domain.EventError, Payload: domain.ErrorPayload{Message: message}}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		switch inbound.Type {
		case "create_game":
			var payload createGamePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.QuizID == "" {
				sendErr("invalid create_game payload")
				continue
			}
			session, err := h.service.CreateGame(r.Context(), connID, payload.QuizID, payload.Token)
			if err != nil {
				sendErr(err.Error())
				continue
			}
			attach(session)
			send <- domain.Event{Type: domain.EventGameCreated, Payload: domain.GameCreatedPayload{
				Code:      session.Code(),
				QuizTitle: session.QuizTitle(),
				Questions: session.QuestionCount(),
			}}

		case "join_game":
			var payload joinGamePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Code == "" || payload.Name == "" {
				sendErr("invalid join_game payload")
				continue
			}
			session, count, err := h.service.JoinGame(connID, payload.Code, payload.Name)
			if err != nil {
				sendErr(err.Error())
				continue
			}
			attach(session)
			// The join broadcast fires before this connection subscribes;
			// echo it directly so the joiner sees their own arrival.
			send <- domain.Event{Type: domain.EventPlayerJoined, Payload: domain.PlayerCountPayload{
				Name:  payload.Name,
				Count: count,
			}}

		case "start_game":
			if err := h.service.StartGame(connID); err != nil {
				sendErr(err.Error())
			}

		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				sendErr("invalid answer payload")
				continue
			}
			accepted, err := h.service.SubmitAnswer(connID, payload.OptionID)
			if err != nil {
				sendErr(err.Error())
				continue
			}
			if !accepted {
				sendErr("answer not accepted")
			}

		case "next_question":
			if err := h.service.NextQuestion(connID); err != nil {
				sendErr(err.Error())
			}

		case "end_game":
			if err := h.service.EndGame(connID); err != nil {
				sendErr(err.Error())
			}

		default:
			sendErr("unsupported message type")
		}
	}

	if cancelSub != nil {
		cancelSub()
	}
	h.service.Disconnect(connID)

	close(closeSignals)
	if subscribed {
		<-forwardDone
	}
	close(send)
	<-writerDone
}
