package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
)

func (h *Handler) handleStart(from *tgbotapi.User) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		name := "there"
		if from != nil && from.FirstName != "" {
			name = from.FirstName
		}
		return h.send(newMessage(chatID, welcomeText(name)))
	}
}

func (h *Handler) handleHelp() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newMessage(chatID, helpText()))
	}
}

// handleSubjects shows the subject picker.
func (h *Handler) handleSubjects() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, kb, err := h.renderSubjects(ctx)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, text)
		if kb != nil {
			msg.ReplyMarkup = *kb
		}
		return h.send(msg)
	}
}

// handleQuizCommand starts a chapter quiz, or shows the chapter picker when
// no chapters are given.
func (h *Handler) handleQuizCommand(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if strings.TrimSpace(args) == "" {
			return h.handleSubjects()(ctx, chatID)
		}

		subjectID, chapterIDs, err := parseQuizArgs(args)
		if err != nil {
			return err
		}

		if len(chapterIDs) == 0 {
			text, kb, err := h.renderChapters(ctx, subjectID)
			if err != nil {
				return err
			}
			msg := newMessage(chatID, text)
			msg.ReplyMarkup = kb
			return h.send(msg)
		}

		return h.sendQuiz(ctx, chatID, userID, entities.QuestionFilter{
			SubjectID:  subjectID,
			ChapterIDs: chapterIDs,
		})
	}
}

// handleMasteryCommand starts a subject-wide mastery exam.
func (h *Handler) handleMasteryCommand(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		fields := strings.Fields(args)
		if len(fields) != 1 {
			return usageError(msgUseMastery)
		}

		subjectID, err := parseID(fields[0])
		if err != nil {
			return usageError(msgUseMastery)
		}

		return h.sendQuiz(ctx, chatID, userID, entities.QuestionFilter{SubjectID: subjectID})
	}
}

func (h *Handler) handleRank(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		status, err := h.progressService.RankStatus(ctx, userID)
		if err != nil {
			return err
		}
		return h.send(newMessage(chatID, formatRank(status)))
	}
}

func (h *Handler) handleStats(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.logger.Debug("rendering dashboard", zap.Int64("user_id", userID))

		d, err := h.progressService.Dashboard(ctx, userID)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, formatDashboard(d))
		msg.ReplyMarkup = buildProgressKeyboard()
		return h.send(msg)
	}
}

func (h *Handler) handleWeak(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		weak, err := h.progressService.WeakSubjects(ctx, userID)
		if err != nil {
			return err
		}
		return h.send(newMessage(chatID, formatWeak(weak)))
	}
}

func (h *Handler) handleLeaderboard() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, err := h.renderLeaderboard(ctx)
		if err != nil {
			return err
		}
		return h.send(newMessage(chatID, text))
	}
}

func (h *Handler) handleQuit(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.quizService.Abandon(userID); err != nil {
			return err
		}
		return h.send(newPlainMessage(chatID, msgQuizAbandoned))
	}
}

// sendQuiz starts an attempt and sends its first question.
func (h *Handler) sendQuiz(ctx context.Context, chatID, userID int64, filter entities.QuestionFilter) error {
	attempt, err := h.quizService.StartAttempt(ctx, userID, filter)
	if err != nil {
		return err
	}

	v, err := attempt.CurrentView()
	if err != nil {
		return err
	}

	msg := newMessage(chatID, formatQuestion(v))
	msg.ReplyMarkup = buildQuestionKeyboard(v)
	return h.send(msg)
}

func (h *Handler) renderSubjects(ctx context.Context) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	subjects, err := h.subjectService.List(ctx)
	if err != nil {
		return "", nil, err
	}
	if len(subjects) == 0 {
		return md(msgNoSubjects), nil, nil
	}

	kb := buildSubjectsKeyboard(subjects)
	return formatSubjects(subjects), &kb, nil
}

func (h *Handler) renderChapters(ctx context.Context, subjectID int64) (string, tgbotapi.InlineKeyboardMarkup, error) {
	subject, err := h.subjectService.Get(ctx, subjectID)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}

	chapters, err := h.subjectService.Chapters(ctx, subjectID)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}

	return formatChapters(subject, chapters), buildChaptersKeyboard(subjectID, chapters), nil
}

func (h *Handler) renderLeaderboard(ctx context.Context) (string, error) {
	entries, err := h.leaderboardService.Top(ctx)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return md(msgLeaderboardEmpty), nil
	}
	return formatLeaderboard(entries), nil
}

// parseQuizArgs parses "<subject> [chapter ...]".
func parseQuizArgs(args string) (int64, []int64, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0, nil, usageError(msgUseQuiz)
	}

	subjectID, err := parseID(fields[0])
	if err != nil {
		return 0, nil, usageError(msgUseQuiz)
	}

	var chapterIDs []int64
	for _, f := range fields[1:] {
		id, err := parseID(f)
		if err != nil {
			return 0, nil, usageError(msgUseQuiz)
		}
		chapterIDs = append(chapterIDs, id)
	}

	return subjectID, chapterIDs, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError("invalid id: " + s)
	}
	return id, nil
}
