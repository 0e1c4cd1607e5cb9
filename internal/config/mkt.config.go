package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/jwtutil"
)

type GatewayConfig struct {
	BaseURL     string
	ServerKey   string
	ClientKey   string
	Environment string // sandbox | production
	ConfigTTL   time.Duration
}

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
}

type AppConfig struct {
	HTTPAddr      string
	PublicBaseURL string
	CORSOrigins   []string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr string
	RedisPass string

	JWT     jwtutil.JWTConfig
	Gateway GatewayConfig
	SMTP    SMTPConfig

	UploadDir         string
	PendingOrderGrace time.Duration
	NodeID            int64
}

// Load reads the configuration from the environment; main loads .env first.
func Load() *AppConfig {
	ttl, _ := time.ParseDuration(getEnv("JWT_ACCESS_TTL", "24h"))
	grace, _ := time.ParseDuration(getEnv("PENDING_ORDER_GRACE", "24h"))
	cfgTTL, _ := time.ParseDuration(getEnv("GATEWAY_CONFIG_TTL", "10m"))
	nodeID, _ := strconv.ParseInt(getEnv("NODE_ID", "1"), 10, 64)

	return &AppConfig{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		CORSOrigins:   strings.Split(getEnv("CORS_ORIGINS", "*"), ","),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "marketplace"),

		RedisAddr: getEnv("REDIS_ADDR", "redis:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),

		JWT: jwtutil.JWTConfig{
			PrivPath: getEnv("JWT_PRIVATE_KEY_PATH", "/app/secrets/jwt_private.pem"),
			PubPath:  getEnv("JWT_PUBLIC_KEY_PATH", "/app/secrets/jwt_public.pem"),
			Issuer:   getEnv("JWT_ISSUER", "marketplace-service"),
			Audience: getEnv("JWT_AUDIENCE", "marketplace-clients"),
			TTL:      ttl,
			KID:      "kid-v1",
		},

		Gateway: GatewayConfig{
			BaseURL:     getEnv("GATEWAY_BASE_URL", "https://app.sandbox.midtrans.com"),
			ServerKey:   getEnv("GATEWAY_SERVER_KEY", ""),
			ClientKey:   getEnv("GATEWAY_CLIENT_KEY", ""),
			Environment: getEnv("GATEWAY_ENVIRONMENT", "sandbox"),
			ConfigTTL:   cfgTTL,
		},

		SMTP: SMTPConfig{
			Host: getEnv("SMTP_HOST", ""),
			Port: getEnv("SMTP_PORT", "465"),
			User: getEnv("SMTP_USER", ""),
			Pass: getEnv("SMTP_PASS", ""),
		},

		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		PendingOrderGrace: grace,
		NodeID:            nodeID,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
