package config

import "os"

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Postgres PostgresConfig
}

type ServerConfig struct {
	Port            string
	Version         string
	AllowedOrigins  string
	RateLimitMax    string
	RateLimitWindow string
}

type AuthConfig struct {
	JWTSecret      string
	TokenTTL       string
	ReaperInterval string
	FallbackTTL    string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:            getenv("PORT", "3000"),
			Version:         getenv("API_VERSION", "v1"),
			AllowedOrigins:  os.Getenv("CORS_ALLOWED_ORIGINS"),
			RateLimitMax:    getenv("RATE_LIMIT_MAX_REQUESTS", "100"),
			RateLimitWindow: getenv("RATE_LIMIT_WINDOW", "15m"),
		},
		Auth: AuthConfig{
			JWTSecret:      os.Getenv("JWT_SECRET"),
			TokenTTL:       getenv("JWT_TTL", "168h"),
			ReaperInterval: getenv("REAPER_INTERVAL", "1h"),
			FallbackTTL:    getenv("REVOCATION_FALLBACK_TTL", "168h"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
