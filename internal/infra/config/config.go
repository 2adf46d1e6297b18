package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"frontdesk/internal/domain/payment"
	"frontdesk/internal/domain/shared/money"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env      string
	HTTPAddr string

	// StorageMode selects the persistence backend: "memory" or "mongo".
	StorageMode string
	MongoURI    string
	MongoDB     string

	KafkaBrokers     []string
	KafkaTopicPrefix string

	IdempotencyTTL     time.Duration
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration

	// Hotel settings feed the payment reconciler; amounts are minor units.
	Currency        string
	RoomCardDeposit int64
	ExtraBedCharge  int64
	MaxExtraBeds    int
}

// PaymentSettings shapes the hotel settings for the reconciler.
func (c Config) PaymentSettings() payment.Settings {
	return payment.Settings{
		Currency:        c.Currency,
		RoomCardDeposit: money.Money{Amount: c.RoomCardDeposit, Currency: c.Currency},
		ExtraBedCharge:  money.Money{Amount: c.ExtraBedCharge, Currency: c.Currency},
		MaxExtraBeds:    c.MaxExtraBeds,
	}
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		StorageMode:      strings.ToLower(getEnv("STORAGE_MODE", "memory")),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "frontdesk"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		Currency:         getEnv("HOTEL_CURRENCY", "MYR"),
	}
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	idempotencyTTL, err := parseDurationEnv("IDEMP_TTL", 168*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.IdempotencyTTL = idempotencyTTL

	poll, err := parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	cfg.OutboxPollInterval = poll

	retryStr := getEnv("RETRY_BACKOFF", "1s,5s,30s")
	for _, raw := range strings.Split(retryStr, ",") {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}

	deposit, err := parseIntEnv("ROOM_CARD_DEPOSIT", 5000)
	if err != nil {
		return Config{}, err
	}
	cfg.RoomCardDeposit = deposit

	extraBed, err := parseIntEnv("EXTRA_BED_CHARGE", 8000)
	if err != nil {
		return Config{}, err
	}
	cfg.ExtraBedCharge = extraBed

	maxBeds, err := parseIntEnv("MAX_EXTRA_BEDS", 2)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxExtraBeds = int(maxBeds)

	switch cfg.StorageMode {
	case "memory":
	case "mongo":
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORAGE_MODE=mongo")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_MODE %q", cfg.StorageMode)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s cannot be negative", key)
	}
	return v, nil
}
