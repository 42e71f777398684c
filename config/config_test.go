package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMint = "So11111111111111111111111111111111111111112"

var configKeys = []string{
	"BOT_TOKEN", "ADMIN_CHAT_ID", "SOLANA_RPC_URL", "TOKEN_MINT", "MIN_HOLDING", "CHAIN_TIMEOUT",
	"DB_DRIVER", "DB_PATH", "DB_HOST", "DB_USER", "DB_PASS", "DB_NAME",
	"PENDING_BACKEND", "PENDING_TTL", "REDIS_ADDR", "REDIS_PASSWORD",
	"KAFKA_BROKERS", "KAFKA_TOPIC", "PORT", "WEBHOOK_URL", "RENDER_EXTERNAL_URL",
	"LOG_LEVEL", "LOG_FILE", "ERROR_LOG_FILE",
}

func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
	for key, value := range values {
		t.Setenv(key, value)
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"BOT_TOKEN":  "123:abc",
		"TOKEN_MINT": testMint,
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Zero(t, cfg.AdminChatID)
	assert.Equal(t, "https://api.mainnet-beta.solana.com", cfg.RPCURL)
	assert.Equal(t, testMint, cfg.TokenMint.String())
	assert.Equal(t, "400000", cfg.MinHolding.String())
	assert.Equal(t, 10*time.Second, cfg.ChainTimeout)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "tickets.db", cfg.DBPath)
	assert.Equal(t, PendingMemory, cfg.PendingBackend)
	assert.Equal(t, 15*time.Minute, cfg.PendingTTL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "3000", cfg.Port)
	assert.Empty(t, cfg.WebhookURL)
}

func TestLoadOverrides(t *testing.T) {
	setEnv(t, map[string]string{
		"BOT_TOKEN":           "123:abc",
		"TOKEN_MINT":          testMint,
		"ADMIN_CHAT_ID":       "-1001234567890",
		"MIN_HOLDING":         "2500.5",
		"CHAIN_TIMEOUT":       "3s",
		"DB_DRIVER":           "mysql",
		"DB_HOST":             "localhost:3306",
		"DB_NAME":             "lottery",
		"PENDING_BACKEND":     "redis",
		"REDIS_ADDR":          "localhost:6379",
		"KAFKA_BROKERS":       "k1:9092, k2:9092,",
		"RENDER_EXTERNAL_URL": "https://lilbone.onrender.com",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(-1001234567890), cfg.AdminChatID)
	assert.Equal(t, "2500.5", cfg.MinHolding.String())
	assert.Equal(t, 3*time.Second, cfg.ChainTimeout)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, PendingRedis, cfg.PendingBackend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "https://lilbone.onrender.com", cfg.WebhookURL)
}

func TestLoadFailsFast(t *testing.T) {
	base := map[string]string{"BOT_TOKEN": "123:abc", "TOKEN_MINT": testMint}
	cases := []struct {
		name     string
		override map[string]string
	}{
		{"missing bot token", map[string]string{"BOT_TOKEN": ""}},
		{"missing mint", map[string]string{"TOKEN_MINT": ""}},
		{"malformed mint", map[string]string{"TOKEN_MINT": "not-a-mint"}},
		{"malformed admin id", map[string]string{"ADMIN_CHAT_ID": "@admin"}},
		{"malformed threshold", map[string]string{"MIN_HOLDING": "lots"}},
		{"negative threshold", map[string]string{"MIN_HOLDING": "-1"}},
		{"malformed timeout", map[string]string{"CHAIN_TIMEOUT": "soon"}},
		{"zero ttl", map[string]string{"PENDING_TTL": "0s"}},
		{"unknown driver", map[string]string{"DB_DRIVER": "postgres"}},
		{"mysql without host", map[string]string{"DB_DRIVER": "mysql"}},
		{"redis without addr", map[string]string{"PENDING_BACKEND": "redis"}},
		{"unknown pending backend", map[string]string{"PENDING_BACKEND": "etcd"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values := make(map[string]string)
			for k, v := range base {
				values[k] = v
			}
			for k, v := range tc.override {
				values[k] = v
			}
			setEnv(t, values)

			cfg, err := Load()
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}
