package progression

import (
	"fmt"
	"math"

	"cyberquest-api/models"
)

// SessionState tracks a quiz attempt through its lifecycle
type SessionState int

const (
	StateNotStarted SessionState = iota
	StateInProgress
	StateCompleted
)

func (s SessionState) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Session drives one quiz attempt from start to scored completion. It is a
// plain state machine with no side effects: persistence and point awards
// happen when the engine consumes the finished result. An abandoned session
// leaves nothing behind.
type Session struct {
	quiz  *models.Quiz
	state SessionState

	index   int
	score   int
	answers []int

	pending    int
	hasPending bool
}

func NewSession(quiz *models.Quiz) *Session {
	return &Session{quiz: quiz, state: StateNotStarted}
}

// Start begins (or restarts) the attempt at question zero with everything
// reset. Sessions from earlier calls share nothing with the new attempt.
func (s *Session) Start() {
	s.state = StateInProgress
	s.index = 0
	s.score = 0
	s.answers = make([]int, 0, len(s.quiz.Questions))
	s.hasPending = false
}

func (s *Session) State() SessionState {
	return s.state
}

// CurrentQuestion returns the question awaiting an answer
func (s *Session) CurrentQuestion() (*models.QuizQuestion, error) {
	if s.state != StateInProgress {
		return nil, fmt.Errorf("%w: %s", ErrSessionState, s.state)
	}
	return &s.quiz.Questions[s.index], nil
}

// SelectAnswer sets the pending answer for the current question. It does not
// advance; selecting again replaces the pending choice.
func (s *Session) SelectAnswer(option int) error {
	if s.state != StateInProgress {
		return fmt.Errorf("%w: %s", ErrSessionState, s.state)
	}
	if option < 0 || option >= len(s.quiz.Questions[s.index].Options) {
		return fmt.Errorf("%w: option %d of question %d", ErrInvalidAnswer, option, s.index)
	}

	s.pending = option
	s.hasPending = true
	return nil
}

// Advance records the pending answer, scores it, and moves to the next
// question or completes the session after the last one.
func (s *Session) Advance() error {
	if s.state != StateInProgress {
		return fmt.Errorf("%w: %s", ErrSessionState, s.state)
	}
	if !s.hasPending {
		return fmt.Errorf("%w: question %d", ErrNoAnswerSelected, s.index)
	}

	s.answers = append(s.answers, s.pending)
	if s.pending == s.quiz.Questions[s.index].CorrectAnswer {
		s.score++
	}
	s.hasPending = false

	if s.index+1 < len(s.quiz.Questions) {
		s.index++
		return nil
	}

	s.state = StateCompleted
	return nil
}

// Result builds the immutable record of a completed attempt
func (s *Session) Result() (*models.QuizResult, error) {
	if s.state != StateCompleted {
		return nil, fmt.Errorf("%w: %s", ErrSessionState, s.state)
	}

	total := len(s.quiz.Questions)
	answers := make([]int, len(s.answers))
	copy(answers, s.answers)

	return &models.QuizResult{
		QuizID:         s.quiz.ID,
		QuizName:       s.quiz.Title,
		Score:          s.score,
		TotalQuestions: total,
		Percentage:     int(math.Round(float64(s.score) / float64(total) * 100)),
		Answers:        answers,
	}, nil
}
