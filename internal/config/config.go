package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/taskhub/internal/tokens"
)

type Config struct {
	ServerPort int

	DatabaseURL string

	JWTSecret          []byte
	JWTAlgorithm       string
	AccessTokenExpire  time.Duration
	RefreshTokenExpire time.Duration

	BcryptCost int
	LogLevel   string

	KafkaBrokers []string

	ESURL       string
	ESUser      string
	ESPassword  string
	ESTaskIndex string

	TokenPurgeInterval time.Duration
}

// Load reads .env when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env not loaded: %v, using system environment", err)
	}
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:          []byte(os.Getenv("JWT_SECRET")),
		JWTAlgorithm:       EnvDefault("JWT_ALGORITHM", tokens.DefaultAlgorithm),
		AccessTokenExpire:  time.Duration(EnvIntDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		RefreshTokenExpire: time.Duration(EnvIntDefault("REFRESH_TOKEN_EXPIRE_DAYS", 7)) * 24 * time.Hour,

		BcryptCost: EnvIntDefault("BCRYPT_COST", 0),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:       os.Getenv("ES_URL"),
		ESUser:      os.Getenv("ES_USER"),
		ESPassword:  os.Getenv("ES_PASSWORD"),
		ESTaskIndex: EnvDefault("ES_TASK_INDEX", "tasks"),

		TokenPurgeInterval: EnvDurationDefault("TOKEN_PURGE_INTERVAL", time.Hour),
	}
}

// Validate reports the first missing required setting.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("missing required env DATABASE_URL")
	}
	if len(c.JWTSecret) == 0 {
		return fmt.Errorf("missing required env JWT_SECRET")
	}
	return nil
}

func (c Config) Tokens() tokens.Config {
	return tokens.Config{
		Secret:     c.JWTSecret,
		Algorithm:  c.JWTAlgorithm,
		AccessTTL:  c.AccessTokenExpire,
		RefreshTTL: c.RefreshTokenExpire,
	}
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.ServerPort)
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

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
