package config

import (
	"flag"

	"github.com/dmitrijs2005/gophblog/internal/flagx"
	"github.com/dmitrijs2005/gophblog/internal/timex"
)

// parseFlags overlays command-line flags onto config.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t string   token validity ("30d", "12h", seconds)
//	-o string   CORS allowed origins
//	-m string   gin mode
//	-l string   log level
//	-strict     answer ownership failures with 403
//
// Only the flags above are looked at, so -c/-config and flags of other
// components do not make parsing fail.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-o", "-m", "-l", "-strict"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	ttl := fs.String("t", config.TokenValidityDuration.String(), "token validity duration")
	fs.StringVar(&config.CORSAllowedOrigins, "o", config.CORSAllowedOrigins, "CORS allowed origins")
	fs.StringVar(&config.GinMode, "m", config.GinMode, "gin mode")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.StrictForbidden, "strict", config.StrictForbidden, "use 403 for ownership failures")

	if err := fs.Parse(args); err != nil {
		return err
	}

	d, err := timex.ParseDuration(*ttl)
	if err != nil {
		return err
	}
	config.TokenValidityDuration = d
	return nil
}
