package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/game"
	"live-quiz-service/internal/infra/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	registry := game.NewRegistry()
	quizRepo := memory.NewQuizRepository(memory.NewStaticQuizLoader(map[string]domain.Quiz{
		"quiz-1": sampleQuiz(),
	}), time.Minute)
	verifier := memory.NewAdminVerifier([]string{"letmein"})
	service := app.NewGameService(registry, quizRepo, verifier)
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestFullGameOverWebSocket(t *testing.T) {
	server := newTestServer(t)

	admin := dial(t, server)
	writeMsg(t, admin, "create_game", map[string]any{"quizId": "quiz-1", "token": "letmein"})
	created := readEvent(t, admin, "game_created")
	code, _ := created["code"].(string)
	if len(code) != 6 {
		t.Fatalf("unexpected game code %q", code)
	}

	player := dial(t, server)
	writeMsg(t, player, "join_game", map[string]any{"code": code, "name": "Alice"})
	joined := readEvent(t, player, "player_joined")
	if joined["count"].(float64) != 1 {
		t.Fatalf("expected count 1, got %v", joined["count"])
	}

	writeMsg(t, admin, "start_game", nil)
	question := readEvent(t, player, "question_start")
	if question["text"].(string) == "" {
		t.Fatalf("expected question text, got %v", question)
	}

	// Sole player answers correctly: the question closes immediately.
	writeMsg(t, player, "answer", map[string]any{"optionId": 2})
	end := readEvent(t, player, "question_end")
	if end["correctOptionId"].(float64) != 2 {
		t.Fatalf("unexpected question_end payload %v", end)
	}
	lb := readEvent(t, player, "leaderboard")
	standings := lb["standings"].([]any)
	first := standings[0].(map[string]any)
	if first["name"].(string) != "Alice" || first["score"].(float64) <= 0 {
		t.Fatalf("expected Alice with points, got %v", first)
	}

	writeMsg(t, admin, "end_game", nil)
	readEvent(t, player, "game_end")
	readEvent(t, admin, "game_end")
}

func TestCreateGameRejectsBadToken(t *testing.T) {
	server := newTestServer(t)

	admin := dial(t, server)
	writeMsg(t, admin, "create_game", map[string]any{"quizId": "quiz-1", "token": "nope"})
	errEvt := readEvent(t, admin, "error")
	if errEvt["message"].(string) == "" {
		t.Fatalf("expected an error message")
	}
}

func TestJoinUnknownCode(t *testing.T) {
	server := newTestServer(t)

	player := dial(t, server)
	writeMsg(t, player, "join_game", map[string]any{"code": "NOSUCH", "name": "Alice"})
	errEvt := readEvent(t, player, "error")
	if errEvt["message"].(string) != domain.ErrGameNotFound.Error() {
		t.Fatalf("unexpected error %v", errEvt)
	}
}

func writeMsg(t *testing.T, conn *websocket.Conn, msgType string, payload map[string]any) {
	t.Helper()
	msg := map[string]any{"type": msgType}
	if payload != nil {
		msg["payload"] = payload
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

// readEvent reads until an event of the wanted type arrives, skipping
// interleaved broadcasts.
func readEvent(t *testing.T, conn *websocket.Conn, want string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		var msg struct {
			Type    string         `json:"type"`
			Payload map[string]any `json:"payload"`
		}
		_ = conn.SetReadDeadline(deadline)
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read while waiting for %s: %v", want, err)
		}
		if msg.Type == want {
			return msg.Payload
		}
	}
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-1",
		Title: "Sample",
		Questions: []domain.Question{
			{
				Text:        "What is 2 + 2?",
				TimeSeconds: 20,
				Options: []domain.Option{
					{ID: 1, Text: "3"},
					{ID: 2, Text: "4", Correct: true},
					{ID: 3, Text: "5"},
				},
			},
		},
	}
}
