package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	// Store selection: "mongo" or "memory"
	DBType string

	// MongoDB settings (when DBType = "mongo")
	MongoURI string
	MongoDB  string

	// Timeouts
	HTTPReadTimeoutSec     int
	HTTPWriteTimeoutSec    int
	HTTPIdleTimeoutSec     int
	HTTPRequestTimeoutSec  int
	MongoConnectTimeoutSec int
	MongoOpTimeoutMs       int

	// Auth
	JWTSecret string
	JWTTTLMin int

	// HTTP edge
	AllowedOrigins     []string
	PublicRateLimitRPM int

	// Firebase Cloud Messaging (push disabled when empty)
	FirebaseCredentialsFile string

	// SMTP relay (Brevo); mail is logged instead of sent when SMTPUser is empty
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// Background jobs
	WorkerIntervalSec int
	PushBatchSize     int
	PushWorkers       int
	DigestSchedule    string

	// Seeding
	SeedAdminEmail    string
	SeedAdminPassword string
}

const devJWTSecret = "dev-insecure-secret-change-me"

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	cfg := &Config{}

	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "dev")
	cfg.DBType = getEnv("DB_TYPE", "mongo")

	// check both MONGODB_URI and MONGO_URI for compatibility
	cfg.MongoURI = getEnv("MONGODB_URI", getEnv("MONGO_URI", ""))
	cfg.MongoDB = getEnv("MONGO_DB", "notify_csc")

	cfg.HTTPReadTimeoutSec = getEnvAsInt("HTTP_READ_TIMEOUT_SEC", 10)
	cfg.HTTPWriteTimeoutSec = getEnvAsInt("HTTP_WRITE_TIMEOUT_SEC", 10)
	cfg.HTTPIdleTimeoutSec = getEnvAsInt("HTTP_IDLE_TIMEOUT_SEC", 120)
	cfg.HTTPRequestTimeoutSec = getEnvAsInt("HTTP_REQUEST_TIMEOUT_SEC", 30)
	cfg.MongoConnectTimeoutSec = getEnvAsInt("MONGO_CONNECT_TIMEOUT_SEC", 5)
	cfg.MongoOpTimeoutMs = getEnvAsInt("MONGO_OP_TIMEOUT_MS", 2000)

	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.JWTTTLMin = getEnvAsInt("JWT_TTL_MIN", 720)

	cfg.AllowedOrigins = getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"})
	cfg.PublicRateLimitRPM = getEnvAsInt("PUBLIC_RATE_LIMIT_RPM", 20)

	cfg.FirebaseCredentialsFile = getEnv("FIREBASE_CREDENTIALS_FILE", "")

	cfg.SMTPHost = getEnv("SMTP_HOST", "smtp-relay.brevo.com")
	cfg.SMTPPort = getEnvAsInt("SMTP_PORT", 587)
	cfg.SMTPUser = getEnv("SMTP_USER", "")
	cfg.SMTPPass = getEnv("SMTP_PASS", "")
	cfg.MailFrom = getEnv("MAIL_FROM", "Notify CSC <no-reply@notifycsc.in>")

	cfg.WorkerIntervalSec = getEnvAsInt("WORKER_INTERVAL_SEC", 5)
	cfg.PushBatchSize = getEnvAsInt("PUSH_BATCH_SIZE", 500)
	cfg.PushWorkers = getEnvAsInt("PUSH_WORKERS", 4)
	cfg.DigestSchedule = os.Getenv("DIGEST_SCHEDULE")
	if _, set := os.LookupEnv("DIGEST_SCHEDULE"); !set {
		cfg.DigestSchedule = "0 8 * * *"
	}

	cfg.SeedAdminEmail = getEnv("SEED_ADMIN_EMAIL", "")
	cfg.SeedAdminPassword = getEnv("SEED_ADMIN_PASSWORD", "")

	switch cfg.DBType {
	case "mongo":
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGO_URI is required when DB_TYPE=mongo")
		}
	case "memory":
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.DBType)
	}

	// FCM multicast accepts at most 500 tokens per call
	if cfg.PushBatchSize <= 0 || cfg.PushBatchSize > 500 {
		cfg.PushBatchSize = 500
	}
	if cfg.PushWorkers <= 0 {
		cfg.PushWorkers = 1
	}

	if cfg.Env == "prod" && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production environment")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = devJWTSecret
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// MailEnabled reports whether SMTP credentials are configured.
func (c *Config) MailEnabled() bool { return c.SMTPUser != "" }

// PushEnabled reports whether Firebase credentials are configured.
func (c *Config) PushEnabled() bool { return c.FirebaseCredentialsFile != "" }

func getEnv(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsSlice(key string, defaultVal []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	var result []string
	for _, s := range strings.Split(valStr, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	if len(result) == 0 {
		return defaultVal
	}
	return result
}
