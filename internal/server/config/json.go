package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophblog/internal/flagx"
	"github.com/dmitrijs2005/gophblog/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Absent keys leave the
// current value untouched, hence the pointers.
type JsonConfig struct {
	EndpointAddrHTTP      *string         `json:"endpoint_addr_http"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	BcryptCost            *int            `json:"bcrypt_cost"`
	CORSAllowedOrigins    *string         `json:"cors_allowed_origins"`
	GinMode               *string         `json:"gin_mode"`
	LogLevel              *string         `json:"log_level"`
	StrictForbidden       *bool           `json:"strict_forbidden"`
}

// parseJson overlays the file named by -c/-config (or $CONFIG) onto config.
// No path means nothing to do.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	setIf(&config.BcryptCost, c.BcryptCost)
	setIf(&config.CORSAllowedOrigins, c.CORSAllowedOrigins)
	setIf(&config.GinMode, c.GinMode)
	setIf(&config.LogLevel, c.LogLevel)
	setIf(&config.StrictForbidden, c.StrictForbidden)

	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
