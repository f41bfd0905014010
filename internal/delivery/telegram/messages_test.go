package telegram

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
	"github.com/aliskhannn/uniportal/internal/infra/postgres/repository"
	"github.com/aliskhannn/uniportal/internal/progression"
	"github.com/aliskhannn/uniportal/internal/service"
)

func testView(checked bool) service.QuestionView {
	return service.QuestionView{
		Index:     1,
		Total:     5,
		Remaining: 3,
		Subject:   entities.Subject{ID: 2, Title: "Physics", Icon: "⚛️"},
		Question: entities.Question{
			ID:             9,
			Text:           "Which are vectors?",
			Options:        []string{"velocity", "mass", "force"},
			CorrectIndices: []int{0, 2},
		},
		Outcome: progression.QuestionOutcome{
			QuestionID: 9,
			Selected:   []int{0, 1},
			Correct:    []int{0, 2},
			Checked:    checked,
		},
	}
}

func TestFormatQuestion(t *testing.T) {
	text := formatQuestion(testView(false))
	assert.Contains(t, text, "Question 2 of 5")
	assert.Contains(t, text, md("Which are vectors?"))
	assert.Contains(t, text, md("Select all that apply."))
	assert.NotContains(t, text, "Not quite")

	text = formatQuestion(testView(true))
	assert.Contains(t, text, md("Not quite."))
	assert.Contains(t, text, "✅ velocity")
	assert.Contains(t, text, "❌ mass")
	assert.Contains(t, text, "☑️ force")
}

func TestOptionMark(t *testing.T) {
	o := progression.QuestionOutcome{Selected: []int{0, 1}, Correct: []int{0, 2}}

	assert.Equal(t, "✅", optionMark(o, 0))
	assert.Equal(t, "❌", optionMark(o, 1))
	assert.Equal(t, "☑️", optionMark(o, 2))
	assert.Equal(t, "▫️", optionMark(o, 3))
}

func TestBuildQuestionKeyboard(t *testing.T) {
	kb := buildQuestionKeyboard(testView(false))
	require.Len(t, kb.InlineKeyboard, 4)
	assert.Equal(t, "☑️ velocity", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "☑️ mass", kb.InlineKeyboard[1][0].Text)
	assert.Equal(t, "⬜️ force", kb.InlineKeyboard[2][0].Text)
	require.NotNil(t, kb.InlineKeyboard[3][0].CallbackData)
	assert.Equal(t, buildCheckCallback(1), *kb.InlineKeyboard[3][0].CallbackData)

	checked := testView(true)
	kb = buildQuestionKeyboard(checked)
	require.Len(t, kb.InlineKeyboard, 1)
	assert.Equal(t, buildQuizCallback(quizNext), *kb.InlineKeyboard[0][0].CallbackData)

	checked.Remaining = 0
	kb = buildQuestionKeyboard(checked)
	assert.Equal(t, buildQuizCallback(quizFinish), *kb.InlineKeyboard[0][0].CallbackData)
}

func TestBuildProgressBar(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{0, "[░░░░░░░░░░]"},
		{50, "[█████░░░░░]"},
		{99.9, "[█████████░]"},
		{100, "[██████████]"},
		{150, "[██████████]"},
		{-5, "[░░░░░░░░░░]"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.percent), func(t *testing.T) {
			assert.Equal(t, tt.want, buildProgressBar(tt.percent, 10))
		})
	}
}

func TestFormatRank(t *testing.T) {
	next := entities.RankTier{Name: "Gold", MinXP: 1500}
	text := formatRank(progression.RankStatus{
		TotalXP:  1000,
		Current:  entities.RankTier{Name: "Silver", MinXP: 500},
		Next:     &next,
		Progress: 50,
		XPToNext: 500,
	})
	assert.Contains(t, text, "🥈")
	assert.Contains(t, text, md("500 XP to Gold"))

	text = formatRank(progression.RankStatus{
		TotalXP:  9000,
		Current:  entities.RankTier{Name: "Legend", MinXP: 8000},
		Progress: 100,
	})
	assert.Contains(t, text, md("Top rank reached."))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0 min", formatDuration(0))
	assert.Equal(t, "45 min", formatDuration(45*time.Minute))
	assert.Equal(t, "2 h 5 min", formatDuration(2*time.Hour+5*time.Minute+10*time.Second))
}

func TestParseQuizArgs(t *testing.T) {
	subject, chapters, err := parseQuizArgs("3 12 #13")
	require.NoError(t, err)
	assert.Equal(t, int64(3), subject)
	assert.Equal(t, []int64{12, 13}, chapters)

	subject, chapters, err = parseQuizArgs(" 7 ")
	require.NoError(t, err)
	assert.Equal(t, int64(7), subject)
	assert.Empty(t, chapters)

	for _, bad := range []string{"", "abc", "3 x", "0", "-2"} {
		_, _, err := parseQuizArgs(bad)
		assert.Equal(t, usageError(msgUseQuiz), err, bad)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		want  string
		known bool
	}{
		{"no attempt", service.ErrNoActiveAttempt, msgNoActiveAttempt, true},
		{"empty set", fmt.Errorf("start: %w", progression.ErrEmptyQuestionSet), msgNoQuestions, true},
		{"incomplete", &progression.IncompleteAttemptError{Unchecked: 2}, fmt.Sprintf(msgIncompleteAttempt, 2), true},
		{"persistence", &service.PersistenceError{Op: "record", Err: errors.New("boom")}, msgSaveFailed, true},
		{"subject", fmt.Errorf("get subject: %w", repository.ErrSubjectNotFound), msgSubjectNotFound, true},
		{"stale", progression.ErrAlreadyChecked, msgStaleButton, true},
		{"usage", usageError(msgUseMastery), msgUseMastery, true},
		{"unknown", errors.New("db down"), msgInternalError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known := errorMessage(tt.err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)
		})
	}
}
