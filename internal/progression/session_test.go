package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
)

func testQuestions(n int) []entities.Question {
	qs := make([]entities.Question, n)
	for i := range qs {
		qs[i] = entities.Question{
			ID:             int64(i + 1),
			SubjectID:      1,
			Text:           "question",
			Options:        []string{"a", "b", "c", "d"},
			CorrectIndices: []int{0},
		}
	}
	return qs
}

func newTestSession(t *testing.T, qs []entities.Question, mastery bool) *Session {
	t.Helper()
	s, err := NewSession(qs, mastery, DefaultScoringRules(), time.Now())
	require.NoError(t, err)
	return s
}

// answer selects the correct option when correct is true, a wrong one
// otherwise, and checks the question.
func answer(t *testing.T, s *Session, i int, correct bool) CheckResult {
	t.Helper()
	q, err := s.Question(i)
	require.NoError(t, err)

	sel := q.CorrectIndices
	if !correct {
		sel = []int{len(q.Options) - 1}
	}
	require.NoError(t, s.Select(i, sel))

	res, err := s.Check(i)
	require.NoError(t, err)
	require.Equal(t, correct, res.IsCorrect)
	return res
}

func TestNewSession_EmptyQuestionSet(t *testing.T) {
	s, err := NewSession(nil, false, DefaultScoringRules(), time.Now())
	require.ErrorIs(t, err, ErrEmptyQuestionSet)
	assert.Nil(t, s)
}

func TestSession_ExactSetMatch(t *testing.T) {
	q := entities.Question{
		ID:             1,
		Options:        []string{"a", "b", "c", "d"},
		CorrectIndices: []int{1, 2},
	}

	tests := []struct {
		name     string
		selected []int
		want     bool
	}{
		{"subset", []int{1}, false},
		{"exact", []int{1, 2}, true},
		{"exact unordered", []int{2, 1}, true},
		{"duplicates collapse", []int{2, 1, 2}, true},
		{"superset", []int{1, 2, 3}, false},
		{"disjoint", []int{0}, false},
		{"nothing selected", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, []entities.Question{q}, false)
			require.NoError(t, s.Select(0, tt.selected))

			res, err := s.Check(0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.IsCorrect)
			assert.Equal(t, []int{1, 2}, res.CorrectIndices)
		})
	}
}

func TestSession_EmptyCorrectSet(t *testing.T) {
	q := entities.Question{ID: 1, Options: []string{"a", "b"}}

	s := newTestSession(t, []entities.Question{q}, false)
	res, err := s.Check(0)
	require.NoError(t, err)
	assert.True(t, res.IsCorrect, "selecting nothing matches an empty correct set")

	s = newTestSession(t, []entities.Question{q}, false)
	require.NoError(t, s.Select(0, []int{0}))
	res, err = s.Check(0)
	require.NoError(t, err)
	assert.False(t, res.IsCorrect)
}

func TestSession_ReselectBeforeCheck(t *testing.T) {
	s := newTestSession(t, testQuestions(1), false)

	require.NoError(t, s.Select(0, []int{3}))
	require.NoError(t, s.Select(0, []int{0}))

	o, err := s.Outcome(0)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, o.Selected)

	res, err := s.Check(0)
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
}

func TestSession_Toggle(t *testing.T) {
	s := newTestSession(t, testQuestions(1), false)

	require.NoError(t, s.Toggle(0, 2))
	require.NoError(t, s.Toggle(0, 0))
	o, _ := s.Outcome(0)
	assert.Equal(t, []int{0, 2}, o.Selected)

	require.NoError(t, s.Toggle(0, 2))
	o, _ = s.Outcome(0)
	assert.Equal(t, []int{0}, o.Selected)

	assert.ErrorIs(t, s.Toggle(0, 9), ErrOptionOutOfRange)
}

func TestSession_CheckedQuestionIsImmutable(t *testing.T) {
	s := newTestSession(t, testQuestions(2), false)
	answer(t, s, 0, false)

	assert.ErrorIs(t, s.Select(0, []int{0}), ErrAlreadyChecked)
	assert.ErrorIs(t, s.Toggle(0, 0), ErrAlreadyChecked)
	_, err := s.Check(0)
	assert.ErrorIs(t, err, ErrAlreadyChecked)

	o, err := s.Outcome(0)
	require.NoError(t, err)
	assert.False(t, o.IsCorrect)
	assert.True(t, o.Checked)
}

func TestSession_InvalidIndices(t *testing.T) {
	s := newTestSession(t, testQuestions(2), false)

	assert.ErrorIs(t, s.Select(-1, nil), ErrQuestionOutOfRange)
	assert.ErrorIs(t, s.Select(2, nil), ErrQuestionOutOfRange)
	assert.ErrorIs(t, s.Select(0, []int{4}), ErrOptionOutOfRange)
	assert.ErrorIs(t, s.Select(0, []int{-1}), ErrOptionOutOfRange)

	_, err := s.Check(5)
	assert.ErrorIs(t, err, ErrQuestionOutOfRange)
}

func TestSession_Streak(t *testing.T) {
	s := newTestSession(t, testQuestions(4), false)

	assert.Equal(t, 1, answer(t, s, 0, true).Streak)
	assert.Equal(t, 2, answer(t, s, 1, true).Streak)
	assert.Equal(t, 0, answer(t, s, 2, false).Streak)
	assert.Equal(t, 1, answer(t, s, 3, true).Streak)

	cur, best := s.Streak()
	assert.Equal(t, 1, cur)
	assert.Equal(t, 2, best)

	res, err := s.Finish()
	require.NoError(t, err)
	assert.Equal(t, 2, res.MaxStreak)
	assert.Equal(t, 1, res.FinalStreak)
}

func TestSession_Finish(t *testing.T) {
	tests := []struct {
		name    string
		mastery bool
		wantXP  int
	}{
		{"chapter quiz", false, 45},
		{"mastery exam", true, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, testQuestions(5), tt.mastery)
			for i, ok := range []bool{true, false, true, false, true} {
				answer(t, s, i, ok)
			}

			res, err := s.Finish()
			require.NoError(t, err)
			assert.Equal(t, 3, res.Score)
			assert.Equal(t, 5, res.Total)
			assert.Equal(t, tt.wantXP, res.XPAwarded)
			assert.Equal(t, tt.mastery, res.Mastery)
			assert.Equal(t, StateFinished, s.State())
		})
	}
}

func TestSession_FinishIncomplete(t *testing.T) {
	s := newTestSession(t, testQuestions(3), false)
	answer(t, s, 0, true)

	_, err := s.Finish()
	require.ErrorIs(t, err, ErrIncompleteAttempt)

	var incomplete *IncompleteAttemptError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, 2, incomplete.Unchecked)
	assert.Equal(t, StateInProgress, s.State())

	next, ok := s.NextUnchecked()
	assert.True(t, ok)
	assert.Equal(t, 1, next)
}

func TestSession_FinishOnce(t *testing.T) {
	s := newTestSession(t, testQuestions(1), false)

	_, err := s.Result()
	assert.ErrorIs(t, err, ErrNotFinished)

	answer(t, s, 0, true)
	first, err := s.Finish()
	require.NoError(t, err)

	_, err = s.Finish()
	assert.ErrorIs(t, err, ErrAlreadyFinished)
	assert.ErrorIs(t, s.Select(0, nil), ErrAlreadyFinished)

	kept, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, first, kept)
}

func TestSession_DoesNotAliasInput(t *testing.T) {
	qs := testQuestions(1)
	s := newTestSession(t, qs, false)

	qs[0].CorrectIndices[0] = 3
	res := answer(t, s, 0, true)
	assert.Equal(t, []int{0}, res.CorrectIndices)
}

func TestScoringRules_AwardXP(t *testing.T) {
	rules := DefaultScoringRules()

	assert.Equal(t, 0, rules.AwardXP(0, false))
	assert.Equal(t, 0, rules.AwardXP(-1, true))
	assert.Equal(t, 150, rules.AwardXP(10, false))
	assert.Equal(t, 300, rules.AwardXP(10, true))

	custom := ScoringRules{XPPerCorrect: 10, MasteryMultiplier: 3}
	assert.Equal(t, 60, custom.AwardXP(2, true))
}
