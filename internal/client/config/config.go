package config

import "time"

// Config holds runtime settings for the dashboard CLI.
//
// Fields:
//   - BaseURL: scheme://host:port of the vault HTTP API.
//   - SessionToken: JWT of an already authenticated session, optional.
//   - ClipboardClearDelay: how long a copied secret stays on the clipboard.
//   - SessionCheckInterval: how often the client checks session expiry.
type Config struct {
	BaseURL              string
	SessionToken         string
	ClipboardClearDelay  time.Duration
	SessionCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:5000"
	c.SessionToken = ""
	c.ClipboardClearDelay = 30 * time.Second
	c.SessionCheckInterval = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
