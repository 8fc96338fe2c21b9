package config

import (
	"flag"
	"os"
	"time"

	"github.com/mkorobov/passdash/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the vault service (default from Config)
//	-t string   session token for an already authenticated session
//	-i int      session expiry check interval in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the vault service")
	fs.StringVar(&cfg.SessionToken, "t", cfg.SessionToken, "session token")
	checkInterval := fs.Int("i", int(cfg.SessionCheckInterval.Seconds()), "session expiry check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SessionCheckInterval = time.Duration(*checkInterval) * time.Second
}
