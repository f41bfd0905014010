package progression

import (
	"fmt"
	"slices"
	"time"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
)

// SessionState is the lifecycle state of a scored attempt.
type SessionState int

const (
	StateInProgress SessionState = iota // questions are being answered
	StateFinished                       // score and XP are final
)

func (s SessionState) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// QuestionOutcome is the answer state of one question inside a session.
// It never outlives the session.
type QuestionOutcome struct {
	QuestionID int64
	Selected   []int // sorted, unique
	Correct    []int // sorted, unique
	IsCorrect  bool
	Checked    bool
}

// CheckResult is returned when a question is checked.
type CheckResult struct {
	IsCorrect      bool
	CorrectIndices []int
	Streak         int // current streak after this check
}

// Result is the final outcome of a finished session.
type Result struct {
	Score       int
	Total       int
	XPAwarded   int
	MaxStreak   int
	FinalStreak int
	Mastery     bool
}

// Session scores one quiz attempt. Each question starts unchecked, may be
// re-selected freely and becomes immutable once checked. A session is
// driven by a single student and is not safe for concurrent use.
type Session struct {
	questions []entities.Question
	outcomes  []QuestionOutcome
	mastery   bool
	rules     ScoringRules
	startedAt time.Time

	state         SessionState
	currentStreak int
	maxStreak     int
	result        Result
}

// NewSession starts scoring an attempt over questions. It fails with
// ErrEmptyQuestionSet when there is nothing to score.
func NewSession(questions []entities.Question, mastery bool, rules ScoringRules, startedAt time.Time) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuestionSet
	}

	qs := make([]entities.Question, len(questions))
	outcomes := make([]QuestionOutcome, len(questions))
	for i, q := range questions {
		q.Options = slices.Clone(q.Options)
		q.CorrectIndices = slices.Clone(q.CorrectIndices)
		qs[i] = q

		outcomes[i] = QuestionOutcome{
			QuestionID: q.ID,
			Correct:    normalize(q.CorrectIndices),
		}
	}

	return &Session{
		questions: qs,
		outcomes:  outcomes,
		mastery:   mastery,
		rules:     rules,
		startedAt: startedAt,
		state:     StateInProgress,
	}, nil
}

func (s *Session) Len() int {
	return len(s.questions)
}

func (s *Session) State() SessionState {
	return s.state
}

func (s *Session) Mastery() bool {
	return s.mastery
}

func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Question returns the i-th question of the attempt.
func (s *Session) Question(i int) (entities.Question, error) {
	if i < 0 || i >= len(s.questions) {
		return entities.Question{}, fmt.Errorf("%w: %d", ErrQuestionOutOfRange, i)
	}
	return s.questions[i], nil
}

// Outcome returns a copy of the answer state of question i.
func (s *Session) Outcome(i int) (QuestionOutcome, error) {
	if i < 0 || i >= len(s.outcomes) {
		return QuestionOutcome{}, fmt.Errorf("%w: %d", ErrQuestionOutOfRange, i)
	}

	o := s.outcomes[i]
	o.Selected = slices.Clone(o.Selected)
	o.Correct = slices.Clone(o.Correct)
	return o, nil
}

// Select replaces the selection of an unchecked question.
func (s *Session) Select(i int, options []int) error {
	if err := s.editable(i); err != nil {
		return err
	}

	n := len(s.questions[i].Options)
	for _, opt := range options {
		if opt < 0 || opt >= n {
			return fmt.Errorf("%w: %d (question has %d options)", ErrOptionOutOfRange, opt, n)
		}
	}

	s.outcomes[i].Selected = normalize(options)
	return nil
}

// Toggle adds option to the selection of question i, or removes it if it
// is already selected.
func (s *Session) Toggle(i, option int) error {
	if err := s.editable(i); err != nil {
		return err
	}

	selected := s.outcomes[i].Selected
	if idx := slices.Index(selected, option); idx >= 0 {
		return s.Select(i, slices.Delete(slices.Clone(selected), idx, idx+1))
	}
	return s.Select(i, append(slices.Clone(selected), option))
}

// Check locks question i and evaluates it. The answer is correct only when
// the selected set equals the correct set exactly.
func (s *Session) Check(i int) (CheckResult, error) {
	if err := s.editable(i); err != nil {
		return CheckResult{}, err
	}

	o := &s.outcomes[i]
	o.IsCorrect = slices.Equal(o.Selected, o.Correct)
	o.Checked = true

	if o.IsCorrect {
		s.currentStreak++
		s.maxStreak = max(s.maxStreak, s.currentStreak)
	} else {
		s.currentStreak = 0
	}

	return CheckResult{
		IsCorrect:      o.IsCorrect,
		CorrectIndices: slices.Clone(o.Correct),
		Streak:         s.currentStreak,
	}, nil
}

// Streak returns the current and the best streak of the attempt so far.
func (s *Session) Streak() (current, best int) {
	return s.currentStreak, s.maxStreak
}

// Unchecked returns the number of questions not yet checked.
func (s *Session) Unchecked() int {
	n := 0
	for _, o := range s.outcomes {
		if !o.Checked {
			n++
		}
	}
	return n
}

// NextUnchecked returns the index of the first unchecked question.
func (s *Session) NextUnchecked() (int, bool) {
	for i, o := range s.outcomes {
		if !o.Checked {
			return i, true
		}
	}
	return 0, false
}

// Finish computes the final score and XP award. It may be called once,
// after every question has been checked.
func (s *Session) Finish() (Result, error) {
	if s.state == StateFinished {
		return Result{}, ErrAlreadyFinished
	}
	if n := s.Unchecked(); n > 0 {
		return Result{}, &IncompleteAttemptError{Unchecked: n}
	}

	score := 0
	for _, o := range s.outcomes {
		if o.IsCorrect {
			score++
		}
	}

	s.result = Result{
		Score:       score,
		Total:       len(s.questions),
		XPAwarded:   s.rules.AwardXP(score, s.mastery),
		MaxStreak:   s.maxStreak,
		FinalStreak: s.currentStreak,
		Mastery:     s.mastery,
	}
	s.state = StateFinished

	return s.result, nil
}

// Result returns the finished result so a failed save can be retried
// without re-scoring.
func (s *Session) Result() (Result, error) {
	if s.state != StateFinished {
		return Result{}, ErrNotFinished
	}
	return s.result, nil
}

func (s *Session) editable(i int) error {
	if s.state == StateFinished {
		return ErrAlreadyFinished
	}
	if i < 0 || i >= len(s.outcomes) {
		return fmt.Errorf("%w: %d", ErrQuestionOutOfRange, i)
	}
	if s.outcomes[i].Checked {
		return ErrAlreadyChecked
	}
	return nil
}

// normalize returns a sorted copy of indices without duplicates.
func normalize(indices []int) []int {
	out := slices.Clone(indices)
	slices.Sort(out)
	return slices.Compact(out)
}
