package game

import (
	"sort"
	"strings"
	"sync"
	"time"

	"live-quiz-service/internal/domain"
)

// Status is a session's position in its lifecycle.
type Status string

const (
	// StatusWaiting accepts joins; no question has been shown yet.
	StatusWaiting Status = "waiting"
	// StatusQuestion means exactly one question is open for answers.
	StatusQuestion Status = "question"
	// StatusLeaderboard sits between questions; standings are current.
	StatusLeaderboard Status = "leaderboard"
	// StatusFinished is terminal.
	StatusFinished Status = "finished"
)

const defaultTimeSeconds = 30

type player struct {
	connID     string
	name       string
	score      int
	joinOrder  int
	answered   bool
	optionID   int
	answeredAt time.Time
	last       *domain.AnswerOutcome
}

// Session is the state machine for one live game. All mutations go through
// its mutex so answer intake, deadline expiry, and admin advancement stay
// mutually exclusive.
type Session struct {
	code    string
	adminID string
	quiz    domain.Quiz

	mu            sync.Mutex
	now           func() time.Time
	status        Status
	questionIndex int // -1 before the first question
	questionStart time.Time
	deadline      *time.Timer
	epoch         int // increments per armed question, guards stale timers
	joinSeq       int
	players       map[string]*player
	subscribers   map[chan domain.Event]struct{}
}

// NewSession creates a waiting session for a quiz. The quiz must have at
// least one question; callers validate before construction.
func NewSession(code, adminID string, quiz domain.Quiz) *Session {
	return NewSessionWithClock(code, adminID, quiz, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(code, adminID string, quiz domain.Quiz, now func() time.Time) *Session {
	return &Session{
		code:          code,
		adminID:       adminID,
		quiz:          quiz,
		now:           now,
		status:        StatusWaiting,
		questionIndex: -1,
		players:       make(map[string]*player),
		subscribers:   make(map[chan domain.Event]struct{}),
	}
}

func (s *Session) Code() string { return s.code }

func (s *Session) AdminID() string { return s.adminID }

// QuizTitle returns the title of the quiz backing this game.
func (s *Session) QuizTitle() string { return s.quiz.Title }

// QuestionCount returns the total number of questions in the game.
func (s *Session) QuestionCount() int { return len(s.quiz.Questions) }

// Status reports the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// AddPlayer registers a player while the game is still waiting. Display
// names must be unique case-insensitively within the session.
func (s *Session) AddPlayer(connID, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusWaiting {
		return 0, domain.ErrGameStarted
	}
	for _, p := range s.players {
		if strings.EqualFold(p.name, name) {
			return 0, domain.ErrNameTaken
		}
	}

	s.joinSeq++
	s.players[connID] = &player{
		connID:    connID,
		name:      name,
		joinOrder: s.joinSeq,
	}
	return len(s.players), nil
}

// RemovePlayer drops a player unconditionally. A removal mid-question
// shrinks the population checked by AllAnswered; the question still closes
// on the next submission or at the deadline, never at removal time.
func (s *Session) RemovePlayer(connID string) (string, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[connID]
	if !ok {
		return "", len(s.players), false
	}
	delete(s.players, connID)
	return p.name, len(s.players), true
}

// HasPlayer reports live roster membership.
func (s *Session) HasPlayer(connID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.players[connID]
	return ok
}

// PlayerCount returns the current roster size.
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// StartNextQuestion advances to the next question and opens its answer
// window. Valid from waiting (first question, needs at least one player) or
// leaderboard. Returns ErrNoMoreQuestions, leaving status untouched, once
// the sequence is exhausted; the caller decides that means game over.
//
// onExpired is invoked with the close results if the question's deadline
// fires before the question is closed by another path. Arming replaces any
// previous deadline, so a session never holds two live timers.
func (s *Session) StartNextQuestion(onExpired func(domain.QuestionResults)) (domain.QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusWaiting && s.status != StatusLeaderboard {
		return domain.QuestionView{}, domain.ErrWrongState
	}
	if s.status == StatusWaiting && len(s.players) == 0 {
		return domain.QuestionView{}, domain.ErrNoPlayers
	}
	if s.questionIndex+1 >= len(s.quiz.Questions) {
		return domain.QuestionView{}, domain.ErrNoMoreQuestions
	}

	s.questionIndex++
	s.status = StatusQuestion
	s.questionStart = s.now()
	for _, p := range s.players {
		p.answered = false
		p.optionID = 0
		p.answeredAt = time.Time{}
	}

	q := s.quiz.Questions[s.questionIndex]
	budget := questionBudget(q)

	s.epoch++
	epoch := s.epoch
	s.stopDeadlineLocked()
	s.deadline = time.AfterFunc(budget, func() {
		s.mu.Lock()
		// A question closed early, or a later question opened, since this
		// timer was armed. Either way the expiry is stale.
		if s.epoch != epoch || s.status != StatusQuestion {
			s.mu.Unlock()
			return
		}
		results := s.closeQuestionLocked()
		s.mu.Unlock()
		if onExpired != nil {
			onExpired(results)
		}
	})

	return s.questionViewLocked(q), nil
}

// SubmitAnswer records a player's choice while the question is open. The
// first submission per player per question wins; anything else reports not
// accepted.
func (s *Session) SubmitAnswer(connID string, optionID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusQuestion {
		return false
	}
	p, ok := s.players[connID]
	if !ok || p.answered {
		return false
	}

	p.answered = true
	p.optionID = optionID
	p.answeredAt = s.now()
	return true
}

// AllAnswered reports whether every rostered player has answered the open
// question.
func (s *Session) AllAnswered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusQuestion || len(s.players) == 0 {
		return false
	}
	for _, p := range s.players {
		if !p.answered {
			return false
		}
	}
	return true
}

// EndQuestion closes the open question, scores every player exactly once,
// and moves the session to leaderboard. Returns false if no question is
// open, which makes racing close paths (all answered vs. deadline) safe.
func (s *Session) EndQuestion() (domain.QuestionResults, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusQuestion {
		return domain.QuestionResults{}, false
	}
	return s.closeQuestionLocked(), true
}

func (s *Session) closeQuestionLocked() domain.QuestionResults {
	s.stopDeadlineLocked()

	q := s.quiz.Questions[s.questionIndex]
	budget := questionBudget(q)
	correctID := correctOption(q)

	results := domain.QuestionResults{CorrectOptionID: correctID}
	for _, p := range s.sortedPlayersLocked() {
		correct := p.answered && p.optionID == correctID
		points := 0
		if correct {
			points = Score(p.answeredAt.Sub(s.questionStart), budget)
		}
		p.score += points
		p.last = &domain.AnswerOutcome{Correct: correct, Points: points}
		results.Results = append(results.Results, domain.PlayerResult{
			Name:    p.name,
			Correct: correct,
			Points:  points,
		})
	}

	s.status = StatusLeaderboard
	return results
}

// Leaderboard returns standings ordered by score descending, ties broken by
// join order so repeated calls with unchanged state agree.
func (s *Session) Leaderboard() []domain.Standing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaderboardLocked()
}

func (s *Session) leaderboardLocked() []domain.Standing {
	standings := make([]domain.Standing, 0, len(s.players))
	for _, p := range s.sortedPlayersLocked() {
		standings = append(standings, domain.Standing{
			Name:  p.name,
			Score: p.score,
			Last:  p.last,
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
	return standings
}

// sortedPlayersLocked returns the roster in join order, the deterministic
// base ordering for results and tiebreaks.
func (s *Session) sortedPlayersLocked() []*player {
	players := make([]*player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].joinOrder < players[j].joinOrder
	})
	return players
}

// IsLastQuestion reports whether the current question is the final one.
func (s *Session) IsLastQuestion() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questionIndex == len(s.quiz.Questions)-1
}

// Finish moves the session to its terminal state from anywhere, cancelling
// any pending deadline, and returns the final standings. Safe to call more
// than once.
func (s *Session) Finish() []domain.Standing {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopDeadlineLocked()
	s.status = StatusFinished
	return s.leaderboardLocked()
}

// Teardown cancels any pending deadline. Idempotent; the registry calls it
// on removal so a stale timer can never fire against a reused code.
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopDeadlineLocked()
}

func (s *Session) stopDeadlineLocked() {
	if s.deadline != nil {
		s.deadline.Stop()
		s.deadline = nil
	}
}

// Subscribe returns a channel receiving this session's broadcasts. The
// caller must invoke the returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, 16)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Broadcast fans an event out to every subscriber. Slow consumers lose their
// oldest buffered event rather than blocking the session.
func (s *Session) Broadcast(evt domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- evt:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- evt
		}
	}
}

func (s *Session) questionViewLocked(q domain.Question) domain.QuestionView {
	options := make([]domain.OptionView, 0, len(q.Options))
	for _, o := range q.Options {
		options = append(options, domain.OptionView{ID: o.ID, Text: o.Text})
	}
	return domain.QuestionView{
		Index:       s.questionIndex,
		Total:       len(s.quiz.Questions),
		Text:        q.Text,
		Options:     options,
		TimeSeconds: int(questionBudget(q) / time.Second),
	}
}

func questionBudget(q domain.Question) time.Duration {
	secs := q.TimeSeconds
	if secs <= 0 {
		secs = defaultTimeSeconds
	}
	return time.Duration(secs) * time.Second
}

func correctOption(q domain.Question) int {
	for _, o := range q.Options {
		if o.Correct {
			return o.ID
		}
	}
	// Quizzes are validated to carry one correct option; fall back to the
	// first so a malformed row cannot panic a live game.
	if len(q.Options) > 0 {
		return q.Options[0].ID
	}
	return 0
}
