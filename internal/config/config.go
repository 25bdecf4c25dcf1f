package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"parkwatch/internal/domain"
)

// Config for the parkwatch HTTP API service.
type Config struct {
	HTTP struct {
		Addr string
	}
	Database DatabaseConfig
	Redis    struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	Session struct {
		TTL time.Duration
	}
	PassTiers []domain.PassTier
	Gateway   GatewayConfig
	MQTT      MQTTConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// DSN builds the lib/pq connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// GatewayConfig configures the external card-processor client. Disabled by
// default; payments then record locally without an external authorization.
type GatewayConfig struct {
	Enabled bool
	BaseURL string
	APIKey  string
}

// MQTTConfig configures plate-scan ingestion from ANPR scanners. Disabled
// by default.
type MQTTConfig struct {
	Enabled  bool
	Broker   string // e.g. "tcp://localhost:1883"
	ClientID string
	Username string
	Password string
	Topic    string // scanner publish topic
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "parkwatch")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Session.TTL = time.Duration(parseInt(getEnv("SESSION_TTL_HOURS", "24"), 24)) * time.Hour

	cfg.PassTiers = parseTiers(getEnv("PASS_TIERS", ""))

	cfg.Gateway.Enabled = getEnv("GATEWAY_ENABLED", "false") == "true"
	cfg.Gateway.BaseURL = getEnv("GATEWAY_BASE_URL", "")
	cfg.Gateway.APIKey = getEnv("GATEWAY_API_KEY", "")

	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "parkwatch-scanner")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "parkwatch/scans")

	return cfg
}

// parseTiers parses "8:5,24:3,48:2" into a tier catalog. Malformed input
// falls back to the defaults.
func parseTiers(s string) []domain.PassTier {
	if s == "" {
		return domain.DefaultTiers()
	}
	var tiers []domain.PassTier
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(kv) != 2 {
			return domain.DefaultTiers()
		}
		hours, err1 := strconv.Atoi(kv[0])
		total, err2 := strconv.Atoi(kv[1])
		if err1 != nil || err2 != nil || hours <= 0 || total <= 0 {
			return domain.DefaultTiers()
		}
		tiers = append(tiers, domain.PassTier{Hours: hours, Total: total})
	}
	return tiers
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
