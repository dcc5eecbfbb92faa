package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables, loading a .env
// file first if one is present in the working directory. Unset variables
// leave the current values untouched.
//
// Recognized variables:
//
//	SERVER_ADDR         bind address
//	DATABASE_DSN        PostgreSQL DSN
//	JWT_SECRET          access-token HMAC secret
//	JWT_REFRESH_SECRET  refresh-token HMAC secret
//	ACCESS_TOKEN_TTL    access token lifetime (Go duration, e.g. "15m")
//	REFRESH_TOKEN_TTL   refresh token lifetime (Go duration, e.g. "168h")
//	BCRYPT_COST         bcrypt work factor
//	CORS_ORIGINS        comma-separated list of allowed origins
func parseEnv(config *Config) {
	// Missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	if v := os.Getenv("SERVER_ADDR"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.AccessTokenSecret = v
	}
	if v := os.Getenv("JWT_REFRESH_SECRET"); v != "" {
		config.RefreshTokenSecret = v
	}
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v := os.Getenv("REFRESH_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.RefreshTokenValidityDuration = d
		}
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.PasswordHashCost = n
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		config.CORSAllowedOrigins = strings.Split(v, ",")
	}
}
