// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
	"github.com/aliskhannn/uniportal/internal/progression"
	"github.com/aliskhannn/uniportal/internal/service"
)

// Error messages.
const (
	msgInternalError     = "Something went wrong. Please try again later."
	msgUnknownCommand    = "Unknown command. Send /help to see what I can do."
	msgNoSubjects        = "No subjects are available yet."
	msgSubjectNotFound   = "Subject not found. Use /subjects to see the list."
	msgNoQuestions       = "There are no questions for this selection yet. Pick another chapter or subject."
	msgNoActiveAttempt   = "You have no quiz in progress. Start one with /subjects."
	msgStaleButton       = "This question is already answered."
	msgSaveFailed        = "Your result could not be saved. Press «Retry save» to try again."
	msgNothingToRetry    = "There is nothing to save."
	msgQuizAbandoned     = "Quiz abandoned. Nothing was recorded."
	msgUseQuiz           = "Usage: /quiz <subject> [chapter ...]. Example: /quiz 3 12 13"
	msgUseMastery        = "Usage: /mastery <subject>. Example: /mastery 3"
	msgLeaderboardEmpty  = "Nobody has earned XP yet. Be the first!"
	msgIncompleteAttempt = "Answer the remaining %d question(s) before finishing."
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func welcomeText(name string) string {
	var sb strings.Builder

	sb.WriteString(md("👋 Hi, " + name + "!"))
	sb.WriteString("\n\n")
	sb.WriteString(bold("University Portal"))
	sb.WriteString(md(" helps you practice your courses one chapter at a time."))
	sb.WriteString("\n\n")
	sb.WriteString(md("🎯 Every correct answer earns "))
	sb.WriteString(bold("XP"))
	sb.WriteString(md(", and mastery exams over a whole subject earn double."))
	sb.WriteString("\n")
	sb.WriteString(md("🏅 XP moves you up the ranks from Bronze to Legend."))
	sb.WriteString("\n\n")
	sb.WriteString(helpText())

	return sb.String()
}

func helpText() string {
	lines := []string{
		"/subjects — browse subjects and start a quiz",
		"/quiz <subject> [chapter ...] — chapter quiz",
		"/mastery <subject> — subject-wide mastery exam",
		"/rank — your rank and XP",
		"/stats — your study dashboard",
		"/weak — subjects that need more practice",
		"/leaderboard — top students",
		"/quit — abandon the current quiz",
	}
	return md(strings.Join(lines, "\n"))
}

func formatSubjects(subjects []entities.Subject) string {
	var sb strings.Builder
	sb.WriteString(bold("📚 Subjects"))
	sb.WriteString("\n\n")
	for _, s := range subjects {
		sb.WriteString(md(fmt.Sprintf("%s %s (#%d)", s.Icon, s.Title, s.ID)))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(md("Pick a subject to see its chapters."))
	return sb.String()
}

func formatChapters(subject *entities.Subject, chapters []entities.Chapter) string {
	var sb strings.Builder
	sb.WriteString(bold(fmt.Sprintf("%s %s", subject.Icon, subject.Title)))
	sb.WriteString("\n")
	if subject.Description != "" {
		sb.WriteString(md(subject.Description))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	if len(chapters) == 0 {
		sb.WriteString(md("No chapters yet. You can still take the mastery exam."))
		return sb.String()
	}
	sb.WriteString(md("Pick a chapter for a quiz, or take the mastery exam over the whole subject for double XP."))
	return sb.String()
}

// formatQuestion renders a question. Once the question is checked the
// options are annotated with the expected answer.
func formatQuestion(v service.QuestionView) string {
	var sb strings.Builder

	header := fmt.Sprintf("%s %s · Question %d of %d", v.Subject.Icon, v.Subject.Title, v.Index+1, v.Total)
	if v.Mastery {
		header += " · 🏆 Mastery"
	}
	sb.WriteString(md(header))
	sb.WriteString("\n\n")
	sb.WriteString(bold(v.Question.Text))
	sb.WriteString("\n")
	if v.Question.IsMultipleChoice() {
		sb.WriteString("_" + md("Select all that apply.") + "_")
		sb.WriteString("\n")
	}

	if !v.Outcome.Checked {
		return sb.String()
	}

	sb.WriteString("\n")
	for i, opt := range v.Question.Options {
		sb.WriteString(md(fmt.Sprintf("%s %s", optionMark(v.Outcome, i), opt)))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if v.Outcome.IsCorrect {
		sb.WriteString(bold("✅ Correct!"))
		if v.Streak > 1 {
			sb.WriteString(md(fmt.Sprintf(" 🔥 Streak: %d", v.Streak)))
		}
	} else {
		sb.WriteString(bold("❌ Not quite."))
	}

	return sb.String()
}

// optionMark marks an option of a checked question.
func optionMark(o progression.QuestionOutcome, i int) string {
	correct := containsIndex(o.Correct, i)
	selected := containsIndex(o.Selected, i)

	switch {
	case correct && selected:
		return "✅"
	case correct:
		return "☑️"
	case selected:
		return "❌"
	default:
		return "▫️"
	}
}

func containsIndex(indices []int, i int) bool {
	for _, v := range indices {
		if v == i {
			return true
		}
	}
	return false
}

func formatResult(res *service.FinishResult) string {
	var sb strings.Builder

	r := res.Result
	emoji := "📚"
	switch {
	case r.Total > 0 && r.Score == r.Total:
		emoji = "🌟"
	case r.Total > 0 && r.Score*2 >= r.Total:
		emoji = "👍"
	}

	sb.WriteString(bold(emoji + " Quiz complete"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Score: %d / %d", r.Score, r.Total)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Best streak: %d", r.MaxStreak)))
	sb.WriteString("\n")

	xp := fmt.Sprintf("XP earned: +%d", r.XPAwarded)
	if r.Mastery {
		xp += " (mastery bonus)"
	}
	sb.WriteString(md(xp))
	sb.WriteString("\n")

	if res.RankUp && res.Rank != nil {
		sb.WriteString("\n")
		sb.WriteString(bold(fmt.Sprintf("🎉 Rank up! You are now %s.", res.Rank.Current.Name)))
		sb.WriteString("\n")
	}

	if res.Rank != nil {
		sb.WriteString("\n")
		sb.WriteString(formatRank(*res.Rank))
	}

	return sb.String()
}
