package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"lottery_bot/chain"
)

// ErrConfig marks every startup configuration failure. The process must not serve traffic after it.
var ErrConfig = errors.New("invalid configuration")

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	PendingMemory = "memory"
	PendingRedis  = "redis"
)

type Config struct {
	BotToken    string
	AdminChatID int64

	RPCURL       string
	TokenMint    solana.PublicKey
	MinHolding   decimal.Decimal
	ChainTimeout time.Duration

	DBDriver string
	DBPath   string
	DBHost   string
	DBUser   string
	DBPass   string
	DBName   string

	PendingBackend string
	PendingTTL     time.Duration
	RedisAddr      string
	RedisPassword  string

	KafkaBrokers []string
	KafkaTopic   string

	Port       string
	WebhookURL string

	LogLevel     string
	LogFile      string
	ErrorLogFile string
}

// Load reads the process environment, optionally seeded from a .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: reading .env: %v", ErrConfig, err)
	}

	cfg := &Config{
		BotToken:       os.Getenv("BOT_TOKEN"),
		RPCURL:         getenv("SOLANA_RPC_URL", rpc.MainNetBeta_RPC),
		DBDriver:       getenv("DB_DRIVER", DriverSQLite),
		DBPath:         getenv("DB_PATH", "tickets.db"),
		DBHost:         os.Getenv("DB_HOST"),
		DBUser:         os.Getenv("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBName:         os.Getenv("DB_NAME"),
		PendingBackend: getenv("PENDING_BACKEND", PendingMemory),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		KafkaTopic:     getenv("KAFKA_TOPIC", "ticket.issued"),
		Port:           getenv("PORT", "3000"),
		WebhookURL:     getenv("WEBHOOK_URL", os.Getenv("RENDER_EXTERNAL_URL")),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFile:        os.Getenv("LOG_FILE"),
		ErrorLogFile:   os.Getenv("ERROR_LOG_FILE"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("%w: BOT_TOKEN is required", ErrConfig)
	}

	if raw := os.Getenv("ADMIN_CHAT_ID"); raw != "" {
		adminID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: ADMIN_CHAT_ID %q: %v", ErrConfig, raw, err)
		}
		cfg.AdminChatID = adminID
	}

	rawMint := os.Getenv("TOKEN_MINT")
	if rawMint == "" {
		return nil, fmt.Errorf("%w: TOKEN_MINT is required", ErrConfig)
	}
	mint, err := chain.ParseAddress(rawMint)
	if err != nil {
		return nil, fmt.Errorf("%w: TOKEN_MINT: %v", ErrConfig, err)
	}
	cfg.TokenMint = mint

	cfg.MinHolding, err = decimal.NewFromString(getenv("MIN_HOLDING", "400000"))
	if err != nil || cfg.MinHolding.IsNegative() {
		return nil, fmt.Errorf("%w: MIN_HOLDING must be a non-negative number", ErrConfig)
	}

	if cfg.ChainTimeout, err = duration("CHAIN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.PendingTTL, err = duration("PENDING_TTL", 15*time.Minute); err != nil {
		return nil, err
	}

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverMySQL:
		if cfg.DBHost == "" || cfg.DBName == "" {
			return nil, fmt.Errorf("%w: DB_HOST and DB_NAME are required for mysql", ErrConfig)
		}
	default:
		return nil, fmt.Errorf("%w: unknown DB_DRIVER %q", ErrConfig, cfg.DBDriver)
	}

	switch cfg.PendingBackend {
	case PendingMemory:
	case PendingRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("%w: REDIS_ADDR is required for the redis pending backend", ErrConfig)
		}
	default:
		return nil, fmt.Errorf("%w: unknown PENDING_BACKEND %q", ErrConfig, cfg.PendingBackend)
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive duration, got %q", ErrConfig, key, raw)
	}
	return d, nil
}
