package services

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"lottery_bot/logger"
)

const (
	webhookPrefix = "/telegram/"
	healthBody    = "OK LILBONE"
)

// WebhookPath returns the delivery path for token. The secret segment is a
// blake3 digest of the token, so it is stable across restarts and never
// exposes the token itself.
func WebhookPath(token string) string {
	sum := blake3.Sum256([]byte(token))
	return webhookPrefix + hex.EncodeToString(sum[:16])
}

// NewRouter serves the health check and, when webhookPath is non-empty, Telegram webhook deliveries.
func NewRouter(handler UpdateHandler, webhookPath string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, healthBody)
	})

	if webhookPath != "" {
		router.POST(webhookPath, func(c *gin.Context) {
			var update tgbotapi.Update
			if err := c.ShouldBindJSON(&update); err != nil {
				logger.Warn("rejected webhook payload", zap.Error(err))
				c.Status(http.StatusBadRequest)
				return
			}
			handler.HandleUpdate(c.Request.Context(), update)
			c.Status(http.StatusOK)
		})
	}

	return router
}

// Serve runs router on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, router http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listener started", zap.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
