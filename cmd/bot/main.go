package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/slack-go/slack"

	"chatgpt-slack-bot/internal/adapter/memory"
	"chatgpt-slack-bot/internal/adapter/openai"
	"chatgpt-slack-bot/internal/adapter/slackapi"
	"chatgpt-slack-bot/internal/config"
	"chatgpt-slack-bot/internal/usecase/mention"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.Debug)

	api := slack.New(
		cfg.SlackBotToken,
		slack.OptionDebug(cfg.Debug),
		slack.OptionAppLevelToken(cfg.SlackAppToken),
	)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slackClient := slackapi.NewClient(api, memory.NewNameCache(cfg.NameCacheTTL), logger)
	botUserID, err := slackClient.BotUserID(ctx)
	if err != nil {
		log.Fatalf("failed to identify bot user: %v", err)
	}
	logger.Info("authenticated", "bot_user_id", botUserID)

	completer := openai.NewClient(cfg)
	svc := mention.NewService(slackClient, slackClient, completer, botUserID, cfg, logger)
	bot := slackapi.NewBot(api, svc, slackClient, botUserID, cfg, logger)

	if err := bot.Run(ctx); err != nil {
		if ctx.Err() != nil {
			logger.Info("shutdown", "reason", err)
			return
		}
		log.Fatalf("bot stopped with error: %v", err)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: level,
	}))
}
