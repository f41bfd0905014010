package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
	"github.com/aliskhannn/uniportal/internal/service"
)

// buildSubjectsKeyboard builds the subject picker, two subjects per row.
func buildSubjectsKeyboard(subjects []entities.Subject) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, s := range subjects {
		label := fmt.Sprintf("%s %s", s.Icon, s.Title)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildSubjectCallback(s.ID)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildChaptersKeyboard builds the chapter picker of a subject.
func buildChaptersKeyboard(subjectID int64, chapters []entities.Chapter) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(chapters)+2)
	for _, c := range chapters {
		label := fmt.Sprintf("%d. %s", c.Position, c.Title)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildQuizStartCallback(subjectID, c.ID)),
		))
	}

	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏆 Mastery exam", buildMasteryStartCallback(subjectID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« Back to subjects", buildSubjectsCallback()),
		),
	)

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuestionKeyboard builds option toggles for an unchecked question and
// navigation for a checked one.
func buildQuestionKeyboard(v service.QuestionView) tgbotapi.InlineKeyboardMarkup {
	if v.Outcome.Checked {
		next := tgbotapi.NewInlineKeyboardButtonData("Next ▶️", buildQuizCallback(quizNext))
		if v.Remaining == 0 {
			next = tgbotapi.NewInlineKeyboardButtonData("🏁 Finish", buildQuizCallback(quizFinish))
		}
		return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(next))
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(v.Question.Options)+1)
	for i, opt := range v.Question.Options {
		mark := "⬜️"
		if containsIndex(v.Outcome.Selected, i) {
			mark = "☑️"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark+" "+opt, buildToggleCallback(v.Index, i)),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ Check", buildCheckCallback(v.Index)),
		tgbotapi.NewInlineKeyboardButtonData("✖️ Quit", buildQuizCallback(quizQuit)),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildResultKeyboard builds keyboard for quiz results screen.
func buildResultKeyboard(subjectID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Another quiz", buildSubjectCallback(subjectID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My progress", actionStats),
			tgbotapi.NewInlineKeyboardButtonData("🏆 Leaderboard", actionLeaderboard),
		),
	)
}

// buildRetryKeyboard is shown when a finished attempt could not be saved.
func buildRetryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Retry save", buildQuizCallback(quizRetry)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✖️ Discard", buildQuizCallback(quizQuit)),
		),
	)
}

// buildProgressKeyboard builds keyboard for progress screen.
func buildProgressKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", actionStats),
			tgbotapi.NewInlineKeyboardButtonData("🧭 Weak subjects", actionWeak),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Start a quiz", buildSubjectsCallback()),
		),
	)
}
