package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultApplicationServerKey is the VAPID public key the remote service
// delivers pushes with.
const DefaultApplicationServerKey = "BD19LwL04w1jOyzMEBGdqeN7Wxnbi0j8M9bOASLvMi19QeqDFhCNZrWr2uQ_zRiEi48d7eXzqPqpxW1dvIsibB8"

type Config struct {
	App      AppConfig
	Remote   RemoteConfig
	Fallback FallbackConfig
	Redis    RedisConfig
	Push     PushConfig
}

type AppConfig struct {
	Port          string
	Environment   string
	LogFilePath   string
	SessionSecret string
	ViewStateTTL  time.Duration
}

type RemoteConfig struct {
	BaseURL string
}

type FallbackConfig struct {
	Backend     string // "redis" or "postgres"
	DatabaseURL string
	SyncEnabled bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PushConfig struct {
	ApplicationServerKey string
	PrivateKey           string
	Generate             bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	return &Config{
		App: AppConfig{
			Port:          getEnv("PORT", "8080"),
			Environment:   getEnv("GO_ENV", "development"),
			LogFilePath:   getEnv("LOG_FILE_PATH", "tortas-web.log"),
			SessionSecret: getEnv("SESSION_SECRET", "secret-key-change-in-production"),
			ViewStateTTL:  time.Duration(getEnvAsInt("VIEW_STATE_TTL_MINUTES", 30)) * time.Minute,
		},
		Remote: RemoteConfig{
			BaseURL: strings.TrimRight(getEnv("REMOTE_API_URL", "https://tortas-server.onrender.com"), "/"),
		},
		Fallback: FallbackConfig{
			Backend:     strings.ToLower(getEnv("FALLBACK_BACKEND", "redis")),
			DatabaseURL: getEnv("DATABASE_URL", ""),
			SyncEnabled: getEnvAsBool("SYNC_ENABLED", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Push: PushConfig{
			ApplicationServerKey: getEnv("VAPID_PUBLIC_KEY", ""),
			PrivateKey:           getEnv("VAPID_PRIVATE_KEY", ""),
			Generate:             getEnvAsBool("VAPID_GENERATE", false),
		},
	}
}

// IsProduction reports whether GO_ENV selects production logging.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
