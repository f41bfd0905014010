package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Commands is the command menu registered with Telegram on startup.
var Commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Start the bot"},
	{Command: "subjects", Description: "Browse subjects and start a quiz"},
	{Command: "quiz", Description: "Chapter quiz: /quiz <subject> [chapter...]"},
	{Command: "mastery", Description: "Subject-wide mastery exam: /mastery <subject>"},
	{Command: "rank", Description: "Your rank and XP"},
	{Command: "stats", Description: "Your study dashboard"},
	{Command: "weak", Description: "Subjects that need more practice"},
	{Command: "leaderboard", Description: "Top students by XP"},
	{Command: "quit", Description: "Abandon the current quiz"},
	{Command: "help", Description: "Help"},
}

type Handler struct {
	bot                *tgbotapi.BotAPI
	logger             *zap.Logger
	userService        UserService
	subjectService     SubjectService
	quizService        QuizService
	progressService    ProgressService
	leaderboardService LeaderboardService
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	userService UserService,
	subjectService SubjectService,
	quizService QuizService,
	progressService ProgressService,
	leaderboardService LeaderboardService,
) *Handler {
	return &Handler{
		bot:                bot,
		logger:             logger,
		userService:        userService,
		subjectService:     subjectService,
		quizService:        quizService,
		progressService:    progressService,
		leaderboardService: leaderboardService,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	from := update.Message.From
	chatID := update.Message.Chat.ID

	if from != nil {
		if err := h.userService.EnsureUser(ctx, from.ID, chatID, from.FirstName, from.UserName); err != nil {
			h.logger.Error("failed to ensure user",
				zap.Int64("user_id", from.ID),
				zap.Error(err),
			)
		}
	}

	var userID int64
	if from != nil {
		userID = from.ID
	}

	if !update.Message.IsCommand() {
		_ = h.send(newMessage(chatID, helpText()))
		return
	}

	args := update.Message.CommandArguments()

	var fn HandlerFunc
	switch update.Message.Command() {
	case "start":
		fn = h.handleStart(from)
	case "help":
		fn = h.handleHelp()
	case "subjects":
		fn = h.handleSubjects()
	case "quiz":
		fn = h.handleQuizCommand(userID, args)
	case "mastery":
		fn = h.handleMasteryCommand(userID, args)
	case "rank":
		fn = h.handleRank(userID)
	case "stats":
		fn = h.handleStats(userID)
	case "weak":
		fn = h.handleWeak(userID)
	case "leaderboard":
		fn = h.handleLeaderboard()
	case "quit":
		fn = h.handleQuit(userID)
	default:
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) sendError(chatID int64, text string) {
	_ = h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// answerCallback removes the loading indicator from the pressed button.
func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Warn("failed to answer callback", zap.Error(err))
	}
}
