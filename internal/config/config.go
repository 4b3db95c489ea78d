package config

import (
	"os"
	"strconv"
	"strings"
)

// DefaultJWTSecret is the dev fallback for JWT_SECRET. Startup refuses to run
// with it when ENV=prod.
const DefaultJWTSecret = "supersecretkey"

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	JWTSecret string

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string

	// JWTExpireHours is the token lifetime in hours (default 24). Set via JWT_EXPIRE_HOURS.
	JWTExpireHours int

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// CORSAllowedOrigins is the list of origins allowed for cross-origin requests.
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). The production frontend is
	// the default; credentials are always allowed for matching origins.
	CORSAllowedOrigins []string

	// AuditRetentionDays is how long audit log rows are kept before the nightly
	// prune removes them (default 90). Set via AUDIT_RETENTION_DAYS.
	AuditRetentionDays int
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "5000"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "securewebdb"),
		DBUser: getEnv("DB_USER", "secureweb"),
		DBPass: getEnv("DB_PASS", "secureweb"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTSecret: getEnv("JWT_SECRET", DefaultJWTSecret),
		Env:       getEnv("ENV", "dev"),

		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),

		// Optional TLS configuration for HTTPS.
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "https://taller6arep.duckdns.org")),

		AuditRetentionDays: getEnvInt("AUDIT_RETENTION_DAYS", 90),
	}
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
