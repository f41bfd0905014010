package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/uniportal/internal/delivery/telegram"
	"github.com/aliskhannn/uniportal/internal/infra/postgres"
	"github.com/aliskhannn/uniportal/internal/infra/postgres/repository"
	"github.com/aliskhannn/uniportal/internal/progression"
	"github.com/aliskhannn/uniportal/internal/service"
	"github.com/aliskhannn/uniportal/internal/storage"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		migrate, _ := cmd.Flags().GetBool("migrate")
		return runBot(ctx, migrate)
	},
}

func init() {
	botCmd.Flags().Bool("migrate", false, "Apply pending migrations before starting")
}

func runBot(ctx context.Context, migrate bool) error {
	if err := cfg.RequireTelegram(); err != nil {
		return err
	}

	pool, err := openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if migrate {
		if err := postgres.Migrate(ctx, pool, "up"); err != nil {
			return err
		}
	}

	table, err := cfg.Progression.RankTable()
	if err != nil {
		return err
	}
	resolver := progression.NewResolver(table)

	// Initialize repositories.
	userRepo := repository.NewUserRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	progressionRepo := repository.NewProgressionRepository(pool)
	recorder := repository.NewAttemptRecorder(postgres.NewTransactor(pool))

	active := storage.NewSessionStorage[*service.ActiveAttempt]()
	janitor := service.NewAttemptJanitor(active, cfg.Quiz.IdleTimeout, cfg.Quiz.SweepSchedule, log.Named("janitor"))
	go janitor.Start(ctx)

	// Initialize services.
	userService := service.NewUserService(userRepo)
	subjectService := service.NewSubjectService(subjectRepo)
	quizService := service.NewQuizService(
		subjectRepo,
		questionRepo,
		recorder,
		active,
		resolver,
		service.QuizOptions{
			MaxQuestions:        cfg.Quiz.MaxQuestions,
			MasteryMaxQuestions: cfg.Quiz.MasteryMaxQuestions,
			Rules:               cfg.Progression.ScoringRules(),
		},
		log.Named("quiz"),
	)
	progressService := service.NewProgressService(
		attemptRepo,
		progressionRepo,
		subjectRepo,
		resolver,
		cfg.Progression.WeaknessPolicy(),
		log.Named("progress"),
	)
	leaderboardService := service.NewLeaderboardService(
		progressionRepo,
		resolver,
		cfg.Progression.LeaderboardSize,
		log.Named("leaderboard"),
	)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	bot.Debug = cfg.Env != "production"

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands...)); err != nil {
		log.Warn("failed to set bot commands", zap.Error(err))
	}

	log.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	handler := telegram.NewHandler(
		bot,
		log.Named("telegram"),
		userService,
		subjectService,
		quizService,
		progressService,
		leaderboardService,
	)

	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("shutdown signal received")
	return nil
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	dsn, err := cfg.DB.DSN()
	if err != nil {
		return nil, fmt.Errorf("%w: DATABASE_URL", err)
	}

	return postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
}
