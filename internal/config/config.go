package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
	SessionStoreSQLite   = "sqlite"
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type Session struct {
	Store        string
	CookieName   string
	TTL          time.Duration
	CookieSecure bool
	SQLitePath   string
}

type Config struct {
	ServerPort    int
	PublicOrigin  string
	APIBaseURL    string
	DB            DB
	Session       Session
	MaxUploadSize int64
	LogLevel      string

	// EnvFileLoaded reports whether a .env file was found at start.
	EnvFileLoaded bool
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil || size <= 0 {
		return 5 * 1024 * 1024
	}
	return size
}

func LoadDB() DB {
	return DB{
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "artshare"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadSession() Session {
	store := strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory))
	switch store {
	case SessionStorePostgres, SessionStoreSQLite, SessionStoreMemory:
	default:
		store = SessionStoreMemory
	}

	return Session{
		Store:        store,
		CookieName:   getEnv("SESSION_COOKIE_NAME", "artshare_session"),
		TTL:          parseDuration(getEnv("SESSION_TTL", "720h"), 720*time.Hour),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),
		SQLitePath:   getEnv("SQLITE_PATH", "artshare.db"),
	}
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() *Config {
	loaded := godotenv.Load() == nil

	return &Config{
		ServerPort:    getEnvAsInt("SERVER_PORT", 8080),
		PublicOrigin:  strings.TrimSuffix(getEnv("PUBLIC_ORIGIN", "http://localhost:8080"), "/"),
		APIBaseURL:    strings.TrimSuffix(getEnv("API_BASE_URL", ""), "/"),
		DB:            LoadDB(),
		Session:       LoadSession(),
		MaxUploadSize: parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "5242880")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnvFileLoaded: loaded,
	}
}
