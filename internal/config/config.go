package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL  string
	SeedProducts bool

	JWTSecret      []byte
	JWTIssuer      string
	JWTAudience    string
	AccessTokenTTL time.Duration
	RefreshTTL     time.Duration

	PasswordHasher string
	CSRFEnabled    bool
	CORSOrigins    []string

	RedisURL        string
	ProductCacheTTL time.Duration

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	KafkaBrokers []string
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not loaded: %v, using system environment", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "ecommerce-api"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SeedProducts: EnvBoolDefault("SEED_PRODUCTS", true),

		JWTSecret:      []byte(os.Getenv("JWT_SECRET")),
		JWTIssuer:      EnvDefault("JWT_ISSUER", "ecommerce-api"),
		JWTAudience:    EnvDefault("JWT_AUDIENCE", "ecommerce-api"),
		AccessTokenTTL: time.Duration(EnvIntDefault("ACCESS_TOKEN_TTL_MINUTES", 15)) * time.Minute,
		RefreshTTL:     time.Duration(EnvIntDefault("REFRESH_TOKEN_TTL_DAYS", 7)) * 24 * time.Hour,

		PasswordHasher: EnvDefault("PASSWORD_HASHER", "bcrypt"),
		CSRFEnabled:    EnvBoolDefault("CSRF_ENABLED", false),
		CORSOrigins:    CSV(os.Getenv("CORS_ALLOW_ORIGINS")),

		RedisURL:        os.Getenv("REDIS_URL"),
		ProductCacheTTL: time.Duration(EnvIntDefault("PRODUCT_CACHE_TTL_SECONDS", 300)) * time.Second,

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
	}
}

// MustValidate stops the process when a required setting is missing.
func (c Config) MustValidate() {
	MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	MustNonEmptyBytes(c.JWTSecret, "JWT_SECRET")
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
