package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL       string
	AwsAccessKey      string
	AwsSecretKey      string
	AwsRegion         string
	BucketName        string
	AIAPIKey          string
	ModelCandidates   string // comma-separated override of the fallback order
	Port              string
	AdminPassword     string
	JWTSecret         string
	SecretBoxKey      string // master key for the encrypted API-key store
	AllowedOrigins    string
	RateShortCap      int
	RateDailyCap      int
	FeedTimeoutSecs   int
	SnapshotCacheSecs int
}

// LoadConfig loads the environment variables and returns config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		AwsAccessKey:      getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:      getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:         getEnv("AWS_REGION", "us-east-2"),
		BucketName:        getEnv("BUCKET_NAME", "foliobot-assets"),
		AIAPIKey:          getEnv("GEMINI_API_KEY", ""),
		ModelCandidates:   getEnv("MODEL_CANDIDATES", ""),
		Port:              getEnv("PORT", "8080"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		SecretBoxKey:      getEnv("SECRETBOX_KEY", ""),
		AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
		RateShortCap:      getEnvInt("RATE_SHORT_CAP", 10),
		RateDailyCap:      getEnvInt("RATE_DAILY_CAP", 100),
		FeedTimeoutSecs:   getEnvInt("FEED_TIMEOUT_SECS", 5),
		SnapshotCacheSecs: getEnvInt("SNAPSHOT_CACHE_SECS", 60),
	}

	if cfg.AdminPassword == "" {
		log.Fatal("ADMIN_PASSWORD not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}
