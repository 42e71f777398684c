package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-redis/redis/v8"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"lottery_bot/chain"
	"lottery_bot/config"
	"lottery_bot/db"
	"lottery_bot/events"
	"lottery_bot/logger"
)

func Run(ctx context.Context, cfg *config.Config) error {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("creating bot: %w", err)
	}
	logger.Info("authorized on account", zap.String("username", bot.Self.UserName))

	dbConn, err := db.Init(cfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close(dbConn)

	pending, err := newPendingStore(ctx, cfg)
	if err != nil {
		return err
	}

	var publisher EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		publisher = producer
	}

	messenger := NewTelegramMessenger(bot)
	oracle := chain.NewOracle(chain.NewSolanaClient(cfg.RPCURL), cfg.TokenMint, cfg.ChainTimeout)
	workflow := NewLinkingWorkflow(
		pending,
		oracle,
		db.NewTicketStore(dbConn),
		messenger,
		NewNotifier(messenger, cfg.AdminChatID, publisher),
		cfg.MinHolding,
	)
	handler := NewHandler(workflow, messenger)

	logger.Info("bot configured",
		zap.String("mint", cfg.TokenMint.String()),
		zap.String("min holding", cfg.MinHolding.String()),
		zap.String("rpc", cfg.RPCURL),
		zap.String("db driver", cfg.DBDriver),
		zap.String("pending backend", cfg.PendingBackend))

	if cfg.WebhookURL != "" {
		path := WebhookPath(cfg.BotToken)
		return runWebhook(ctx, cfg, bot, path, NewRouter(handler, path))
	}

	router := NewRouter(handler, "")
	go func() {
		if err := Serve(ctx, ":"+cfg.Port, router); err != nil {
			logger.Error("health listener stopped", zap.Error(err))
		}
	}()

	return runPolling(ctx, bot, handler)
}

func newPendingStore(ctx context.Context, cfg *config.Config) (PendingStore, error) {
	if cfg.PendingBackend == config.PendingRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return NewRedisPendingStore(client, cfg.PendingTTL), nil
	}

	store := NewMemoryPendingStore()
	go CleanupStalePending(ctx, store, cfg.PendingTTL)
	return store, nil
}

func runWebhook(ctx context.Context, cfg *config.Config, bot *tgbotapi.BotAPI, path string, router http.Handler) error {
	url := strings.TrimRight(cfg.WebhookURL, "/") + path
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("building webhook config: %w", err)
	}
	if _, err := bot.Request(wh); err != nil {
		return fmt.Errorf("setting webhook: %w", err)
	}
	logger.Info("webhook set", zap.String("base url", cfg.WebhookURL))

	return Serve(ctx, ":"+cfg.Port, router)
}

func runPolling(ctx context.Context, bot *tgbotapi.BotAPI, handler UpdateHandler) error {
	if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("removing webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)
	logger.Info("polling for updates")

	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			handler.HandleUpdate(ctx, update)
		}
	}
}
