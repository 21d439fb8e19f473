package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/gophblog/internal/timex"
	"github.com/joho/godotenv"
)

// envFile is loaded, when present, before the environment is read.
// Variables already set in the process environment take precedence.
var envFile = ".env"

// parseEnv overlays environment variables onto config.
//
// Recognised variables:
//
//	PORT                  listen port, becomes ":<PORT>"
//	HTTP_ADDRESS          full bind address, wins over PORT
//	DATABASE_URL          PostgreSQL DSN
//	JWT_SECRET            token signing secret
//	JWT_EXPIRE            token lifetime ("30d", "720h", seconds)
//	BCRYPT_COST           bcrypt work factor
//	CORS_ALLOWED_ORIGINS  comma separated origins
//	GIN_MODE              gin mode
//	LOG_LEVEL             log level
//	STRICT_FORBIDDEN      "true" to answer ownership failures with 403
func parseEnv(config *Config) error {
	_ = godotenv.Load(envFile)

	if v := os.Getenv("PORT"); v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		config.EndpointAddrHTTP = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("JWT_EXPIRE"); v != "" {
		d, err := timex.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JWT_EXPIRE: %w", err)
		}
		config.TokenValidityDuration = d
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		config.BcryptCost = n
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		config.CORSAllowedOrigins = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		config.GinMode = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv("STRICT_FORBIDDEN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STRICT_FORBIDDEN: %w", err)
		}
		config.StrictForbidden = b
	}

	return nil
}
