package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
	"github.com/aliskhannn/uniportal/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	cd := decodeCallback(cb.Data)
	userID := cb.From.ID

	var err error
	switch cd.Action {
	case actionSubjects:
		err = h.onSubjects(ctx, cb)
	case actionSubject:
		err = h.onSubject(ctx, cb, cd)
	case actionQuiz:
		err = h.onQuiz(ctx, cb, cd)
	case actionRank:
		err = h.onRank(ctx, cb, userID)
	case actionStats:
		err = h.onStats(ctx, cb, userID)
	case actionWeak:
		err = h.onWeak(ctx, cb, userID)
	case actionLeaderboard:
		err = h.onLeaderboard(ctx, cb)
	default:
		err = errBadCallback
	}

	if err != nil {
		text := h.logError(err,
			zap.Int64("user_id", userID),
			zap.String("data", cd.Raw),
		)
		h.answerCallback(cb.ID, text)
		return
	}

	h.answerCallback(cb.ID, "")
}

func (h *Handler) onSubjects(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	text, kb, err := h.renderSubjects(ctx)
	if err != nil {
		return err
	}
	return h.edit(cb, text, kb)
}

func (h *Handler) onSubject(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData) error {
	subjectID, err := cd.int64Param(0)
	if err != nil {
		return err
	}

	text, kb, err := h.renderChapters(ctx, subjectID)
	if err != nil {
		return err
	}
	return h.edit(cb, text, &kb)
}

func (h *Handler) onQuiz(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData) error {
	if len(cd.Params) == 0 {
		return errBadCallback
	}
	userID := cb.From.ID

	switch cd.Params[0] {
	case quizStart:
		subjectID, err := cd.int64Param(1)
		if err != nil {
			return err
		}
		chapterID, err := cd.int64Param(2)
		if err != nil {
			return err
		}
		return h.startQuiz(ctx, cb, entities.QuestionFilter{SubjectID: subjectID, ChapterIDs: []int64{chapterID}})

	case quizMastery:
		subjectID, err := cd.int64Param(1)
		if err != nil {
			return err
		}
		return h.startQuiz(ctx, cb, entities.QuestionFilter{SubjectID: subjectID})

	case quizToggle:
		question, err := cd.intParam(1)
		if err != nil {
			return err
		}
		option, err := cd.intParam(2)
		if err != nil {
			return err
		}

		v, err := h.quizService.ToggleOption(userID, question, option)
		if err != nil {
			return err
		}
		return h.editKeyboard(cb, buildQuestionKeyboard(v))

	case quizCheck:
		question, err := cd.intParam(1)
		if err != nil {
			return err
		}
		if _, err := h.quizService.CheckAnswer(userID, question); err != nil {
			return err
		}

		attempt, err := h.quizService.Active(userID)
		if err != nil {
			return err
		}
		v, err := attempt.View(question)
		if err != nil {
			return err
		}
		return h.showQuestion(cb, v)

	case quizNext:
		v, ok, err := h.quizService.Advance(userID)
		if err != nil {
			return err
		}
		if !ok {
			return h.finishQuiz(ctx, cb, h.quizService.Finish)
		}
		return h.showQuestion(cb, v)

	case quizFinish:
		return h.finishQuiz(ctx, cb, h.quizService.Finish)

	case quizRetry:
		return h.finishQuiz(ctx, cb, h.quizService.Retry)

	case quizQuit:
		if err := h.quizService.Abandon(userID); err != nil {
			return err
		}
		return h.edit(cb, md(msgQuizAbandoned), nil)

	default:
		return errBadCallback
	}
}

func (h *Handler) startQuiz(ctx context.Context, cb *tgbotapi.CallbackQuery, filter entities.QuestionFilter) error {
	attempt, err := h.quizService.StartAttempt(ctx, cb.From.ID, filter)
	if err != nil {
		return err
	}

	v, err := attempt.CurrentView()
	if err != nil {
		return err
	}
	return h.showQuestion(cb, v)
}

// finishQuiz renders the result of finish. When saving fails the result is
// still shown, together with a retry button.
func (h *Handler) finishQuiz(
	ctx context.Context,
	cb *tgbotapi.CallbackQuery,
	finish func(ctx context.Context, userID int64) (*service.FinishResult, error),
) error {
	res, err := finish(ctx, cb.From.ID)

	var persistErr *service.PersistenceError
	if errors.As(err, &persistErr) && res != nil {
		kb := buildRetryKeyboard()
		text := formatResult(res) + "\n" + md("⚠️ "+msgSaveFailed)
		if editErr := h.edit(cb, text, &kb); editErr != nil {
			return editErr
		}
		return err
	}
	if err != nil {
		return err
	}

	kb := buildResultKeyboard(res.Attempt.SubjectID)
	return h.edit(cb, formatResult(res), &kb)
}

func (h *Handler) showQuestion(cb *tgbotapi.CallbackQuery, v service.QuestionView) error {
	kb := buildQuestionKeyboard(v)
	return h.edit(cb, formatQuestion(v), &kb)
}

func (h *Handler) onRank(ctx context.Context, cb *tgbotapi.CallbackQuery, userID int64) error {
	status, err := h.progressService.RankStatus(ctx, userID)
	if err != nil {
		return err
	}
	return h.edit(cb, formatRank(status), nil)
}

func (h *Handler) onStats(ctx context.Context, cb *tgbotapi.CallbackQuery, userID int64) error {
	d, err := h.progressService.Dashboard(ctx, userID)
	if err != nil {
		return err
	}

	kb := buildProgressKeyboard()
	return h.edit(cb, formatDashboard(d), &kb)
}

func (h *Handler) onWeak(ctx context.Context, cb *tgbotapi.CallbackQuery, userID int64) error {
	weak, err := h.progressService.WeakSubjects(ctx, userID)
	if err != nil {
		return err
	}

	kb := buildProgressKeyboard()
	return h.edit(cb, formatWeak(weak), &kb)
}

func (h *Handler) onLeaderboard(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	text, err := h.renderLeaderboard(ctx)
	if err != nil {
		return err
	}
	return h.edit(cb, text, nil)
}

// edit replaces the text and keyboard of the message the button belongs to.
func (h *Handler) edit(cb *tgbotapi.CallbackQuery, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	e := newEdit(cb.Message.Chat.ID, cb.Message.MessageID, text)
	if kb != nil {
		e.ReplyMarkup = kb
	}
	return h.request(e)
}

func (h *Handler) editKeyboard(cb *tgbotapi.CallbackQuery, kb tgbotapi.InlineKeyboardMarkup) error {
	return h.request(tgbotapi.NewEditMessageReplyMarkup(cb.Message.Chat.ID, cb.Message.MessageID, kb))
}

// request sends an edit. Telegram rejects edits that change nothing, which
// happens when a button is pressed twice.
func (h *Handler) request(c tgbotapi.Chattable) error {
	if _, err := h.bot.Request(c); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		h.logger.Error("failed to edit telegram message", zap.Error(err))
		return err
	}
	return nil
}
