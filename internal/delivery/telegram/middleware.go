package telegram

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/uniportal/internal/infra/postgres/repository"
	"github.com/aliskhannn/uniportal/internal/progression"
	"github.com/aliskhannn/uniportal/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// usageError carries a message explaining how to call a command.
type usageError string

func (e usageError) Error() string { return string(e) }

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := fn(ctx, chatID); err != nil {
			text := h.logError(err, zap.Int64("chat_id", chatID))
			h.sendError(chatID, text)
			return nil
		}
		return nil
	}
}

// logError logs err at a level matching its kind and returns the text to
// show the user.
func (h *Handler) logError(err error, fields ...zap.Field) string {
	text, known := errorMessage(err)
	fields = append(fields, zap.Error(err))
	if known {
		h.logger.Debug("request rejected", fields...)
	} else {
		h.logger.Error("handle error", fields...)
	}
	return text
}

// errorMessage maps an error to a user-facing message. It reports false for
// errors the user cannot act on.
func errorMessage(err error) (string, bool) {
	var (
		usage      usageError
		incomplete *progression.IncompleteAttemptError
		persist    *service.PersistenceError
	)

	switch {
	case errors.As(err, &usage):
		return string(usage), true
	case errors.As(err, &incomplete):
		return fmt.Sprintf(msgIncompleteAttempt, incomplete.Unchecked), true
	case errors.As(err, &persist):
		return msgSaveFailed, true
	case errors.Is(err, service.ErrNoActiveAttempt):
		return msgNoActiveAttempt, true
	case errors.Is(err, service.ErrNothingToRetry):
		return msgNothingToRetry, true
	case errors.Is(err, progression.ErrEmptyQuestionSet):
		return msgNoQuestions, true
	case errors.Is(err, repository.ErrSubjectNotFound):
		return msgSubjectNotFound, true
	case errors.Is(err, progression.ErrAlreadyChecked),
		errors.Is(err, progression.ErrAlreadyFinished),
		errors.Is(err, progression.ErrQuestionOutOfRange),
		errors.Is(err, progression.ErrOptionOutOfRange),
		errors.Is(err, errBadCallback):
		return msgStaleButton, true
	default:
		return msgInternalError, false
	}
}
