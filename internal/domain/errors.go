package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizEmpty is returned when a quiz has no questions; such a quiz
	// cannot back a game.
	ErrQuizEmpty = errors.New("quiz has no questions")
	// ErrGameNotFound is returned when no live session matches the caller.
	ErrGameNotFound = errors.New("game not found")
	// ErrGameStarted rejects joins once the first question has been shown.
	ErrGameStarted = errors.New("game already started")
	// ErrNameTaken rejects a join whose display name collides with a
	// rostered player (case-insensitive).
	ErrNameTaken = errors.New("name already taken")
	// ErrNoPlayers prevents starting a game nobody has joined.
	ErrNoPlayers = errors.New("no players have joined")
	// ErrWrongState is returned when an operation is invalid for the
	// session's current status.
	ErrWrongState = errors.New("operation not valid in current game state")
	// ErrNoMoreQuestions signals that the question sequence is exhausted.
	ErrNoMoreQuestions = errors.New("no more questions")
	// ErrUnauthorized is returned when the admin credential fails
	// verification.
	ErrUnauthorized = errors.New("invalid admin credential")
)
