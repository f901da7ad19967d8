package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/NCobrimark/Archetype-UA/internal/ai"
	"github.com/NCobrimark/Archetype-UA/internal/catalog"
	"github.com/NCobrimark/Archetype-UA/internal/config"
	"github.com/NCobrimark/Archetype-UA/internal/delivery/telegram"
	"github.com/NCobrimark/Archetype-UA/internal/finalize"
	"github.com/NCobrimark/Archetype-UA/internal/infra/postgres"
	"github.com/NCobrimark/Archetype-UA/internal/infra/postgres/repository"
	"github.com/NCobrimark/Archetype-UA/internal/logger"
	"github.com/NCobrimark/Archetype-UA/internal/report"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	// The question catalog is startup-fatal: the process must not serve a
	// single session with partial or malformed data.
	cat, err := catalog.Load(cfg.QuestionsJSONPath)
	if err != nil {
		zlog.Fatal("load question catalog", zap.Error(err))
	}
	zlog.Info("question catalog loaded", zap.Int("questions", cat.Len()))

	archetypeInfo, err := report.LoadArchetypeInfo(cfg.ArchetypeInfoPath)
	if err != nil {
		zlog.Fatal("load archetype info", zap.Error(err))
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zlog.Fatal("authorize bot", zap.Error(err))
	}
	zlog.Info("authorized", zap.String("account", bot.Self.UserName))

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "Почати тест на архетипи",
		},
		{
			Command:     "help",
			Description: "Допомога",
		},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zlog.Warn("failed to set bot commands", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn, err := cfg.DB.DSN()
	if err != nil {
		zlog.Fatal("database dsn", zap.Error(err))
	}
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		zlog.Fatal("connect to database", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	answerRepo := repository.NewAnswerRepository(pool)
	runStarter := repository.NewRunStarter(postgres.NewTransactor(pool))

	aiClient := ai.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model, zlog)
	orchestrator := finalize.New(cat, answerRepo, aiClient, zlog)

	emailSender := report.NewEmailSender(cfg.SMTP, zlog)
	reportService := report.NewService(aiClient, emailSender, archetypeInfo, cfg.AI.StrategyTimeout, zlog)

	handler := telegram.NewHandler(
		bot,
		zlog,
		cat,
		answerRepo,
		runStarter,
		userRepo,
		sessionRepo,
		orchestrator,
		reportService,
	)
	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		zlog.Fatal("handler stopped", zap.Error(err))
	}

	zlog.Info("shutdown signal received")
}
