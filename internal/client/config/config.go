// Package config holds settings for the gophblog terminal client.
package config

import (
	"errors"
	"net/url"
	"time"
)

// Config holds runtime settings for the client.
//
// Fields:
//   - ServerURL: base URL of the gophblog HTTP API.
//   - RequestTimeout: per-request timeout.
//   - PageSize: default page size for "list".
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	PageSize       int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.RequestTimeout = 10 * time.Second
	c.PageSize = 10
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("server url must be absolute, e.g. http://127.0.0.1:5000")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.PageSize < 1 {
		return errors.New("page size must be positive")
	}
	return nil
}

// Load applies defaults and then the JSON file at path, if any. Flags are
// layered on top by the command.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}
