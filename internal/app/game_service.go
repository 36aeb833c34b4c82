package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/game"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// AdminVerifier is the auth collaborator: it answers whether a credential
// grants game-creation rights.
type AdminVerifier interface {
	VerifyAdmin(ctx context.Context, token string) (bool, error)
}

// GameService drives live games: it resolves inbound events to the right
// session via the registry, invokes session operations, and broadcasts the
// outcomes.
type GameService struct {
	registry *game.Registry
	quizzes  QuizRepository
	auth     AdminVerifier
}

func NewGameService(registry *game.Registry, quizzes QuizRepository, auth AdminVerifier) *GameService {
	return &GameService{registry: registry, quizzes: quizzes, auth: auth}
}

// CreateGame verifies the admin credential, loads the quiz once, and
// registers a new session. A repeated request from an admin who already
// hosts a live game returns that game instead of creating another.
func (s *GameService) CreateGame(ctx context.Context, adminConnID, quizID, token string) (*game.Session, error) {
	ok, err := s.auth.VerifyAdmin(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("verify admin: %w", err)
	}
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if existing, ok := s.registry.GetByAdmin(adminConnID); ok {
		return existing, nil
	}

	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, domain.ErrQuizEmpty
	}

	session, created := s.registry.Create(adminConnID, func(code string) *game.Session {
		return game.NewSession(code, adminConnID, quiz)
	})
	if created {
		log.Printf("game %s created for quiz %s", session.Code(), quizID)
	}
	return session, nil
}

// JoinGame adds a player to a waiting game and broadcasts the new count.
func (s *GameService) JoinGame(connID, code, name string) (*game.Session, int, error) {
	session, ok := s.registry.GetByCode(code)
	if !ok {
		return nil, 0, domain.ErrGameNotFound
	}

	count, err := session.AddPlayer(connID, name)
	if err != nil {
		return nil, 0, err
	}

	session.Broadcast(domain.Event{
		Type:    domain.EventPlayerJoined,
		Payload: domain.PlayerCountPayload{Name: name, Count: count},
	})
	return session, count, nil
}

// StartGame opens the first question of the caller's game.
func (s *GameService) StartGame(adminConnID string) error {
	session, ok := s.registry.GetByAdmin(adminConnID)
	if !ok {
		return domain.ErrGameNotFound
	}
	return s.openNextQuestion(session)
}

// SubmitAnswer records a player's answer and closes the question early when
// the whole roster has answered. The bool reports whether the submission was
// accepted; rejections (late, duplicate, wrong state) are not errors.
func (s *GameService) SubmitAnswer(connID string, optionID int) (bool, error) {
	session, ok := s.registry.GetByPlayer(connID)
	if !ok {
		return false, domain.ErrGameNotFound
	}

	accepted := session.SubmitAnswer(connID, optionID)
	if accepted && session.AllAnswered() {
		s.closeQuestion(session)
	}
	return accepted, nil
}

// NextQuestion advances the caller's game: it closes an open question, opens
// the next one from the leaderboard, or ends the game once the last question
// has been shown.
func (s *GameService) NextQuestion(adminConnID string) error {
	session, ok := s.registry.GetByAdmin(adminConnID)
	if !ok {
		return domain.ErrGameNotFound
	}

	if session.Status() == game.StatusQuestion {
		s.closeQuestion(session)
		return nil
	}

	err := s.openNextQuestion(session)
	if errors.Is(err, domain.ErrNoMoreQuestions) {
		s.finishGame(session)
		return nil
	}
	return err
}

// EndGame forces the caller's game into its terminal state.
func (s *GameService) EndGame(adminConnID string) error {
	session, ok := s.registry.GetByAdmin(adminConnID)
	if !ok {
		return domain.ErrGameNotFound
	}
	s.finishGame(session)
	return nil
}

// Disconnect handles a dropped connection: an admin's game ends, a player is
// removed from their roster. Unknown connections are ignored.
func (s *GameService) Disconnect(connID string) {
	if session, ok := s.registry.GetByAdmin(connID); ok {
		log.Printf("admin disconnected, ending game %s", session.Code())
		s.finishGame(session)
		return
	}

	session, ok := s.registry.GetByPlayer(connID)
	if !ok {
		return
	}
	name, count, removed := session.RemovePlayer(connID)
	if removed {
		session.Broadcast(domain.Event{
			Type:    domain.EventPlayerLeft,
			Payload: domain.PlayerCountPayload{Name: name, Count: count},
		})
	}
}

func (s *GameService) openNextQuestion(session *game.Session) error {
	view, err := session.StartNextQuestion(func(results domain.QuestionResults) {
		// Deadline fired before every player answered.
		s.broadcastQuestionEnd(session, results)
	})
	if err != nil {
		return err
	}

	session.Broadcast(domain.Event{Type: domain.EventQuestionStart, Payload: view})
	log.Printf("game %s: question %d/%d open for %ds",
		session.Code(), view.Index+1, view.Total, view.TimeSeconds)
	return nil
}

func (s *GameService) closeQuestion(session *game.Session) {
	results, ok := session.EndQuestion()
	if !ok {
		// Already closed by the deadline or a racing path.
		return
	}
	s.broadcastQuestionEnd(session, results)
}

func (s *GameService) broadcastQuestionEnd(session *game.Session, results domain.QuestionResults) {
	session.Broadcast(domain.Event{Type: domain.EventQuestionEnd, Payload: results})
	session.Broadcast(domain.Event{
		Type:    domain.EventLeaderboard,
		Payload: domain.LeaderboardPayload{Code: session.Code(), Standings: session.Leaderboard()},
	})
}

func (s *GameService) finishGame(session *game.Session) {
	standings := session.Finish()
	session.Broadcast(domain.Event{
		Type:    domain.EventGameEnd,
		Payload: domain.LeaderboardPayload{Code: session.Code(), Standings: standings},
	})
	s.registry.Remove(session.Code())
	log.Printf("game %s finished", session.Code())
}
