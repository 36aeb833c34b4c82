package domain

// EventType tags an outbound broadcast.
type EventType string

const (
	EventGameCreated   EventType = "game_created"
	EventPlayerJoined  EventType = "player_joined"
	EventPlayerLeft    EventType = "player_left"
	EventQuestionStart EventType = "question_start"
	EventQuestionEnd   EventType = "question_end"
	EventLeaderboard   EventType = "leaderboard"
	EventGameEnd       EventType = "game_end"
	EventError         EventType = "error"
)

// Event is a single outbound message fanned out to a game's connections.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// PlayerCountPayload accompanies player_joined/player_left broadcasts.
type PlayerCountPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// GameCreatedPayload is sent to the creating admin only.
type GameCreatedPayload struct {
	Code      string `json:"code"`
	QuizTitle string `json:"quizTitle"`
	Questions int    `json:"questions"`
}

// LeaderboardPayload carries ordered standings.
type LeaderboardPayload struct {
	Code      string     `json:"code"`
	Standings []Standing `json:"standings"`
}

// ErrorPayload describes a rejected operation to the originating caller.
type ErrorPayload struct {
	Message string `json:"message"`
}
