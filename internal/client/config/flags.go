package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/tiernerd/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-e string   environment (development|production)
//	-u string   API base URL
//	-d string   SQLite database path
//	-l string   log level
//	-t int      request timeout in seconds
//	-i int      online check interval in seconds
//	-mock       sign in without a backend (development only)
//
// Arguments not listed here are ignored, see flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-e", "-u", "-d", "-l", "-t", "-i"}, "-mock", "--mock")

	fs := flag.NewFlagSet("tiernerd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Environment, "e", cfg.Environment, "environment (development|production)")
	fs.StringVar(&cfg.APIBaseURL, "u", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "SQLite database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")
	fs.BoolVar(&cfg.MockAuth, "mock", cfg.MockAuth, "use mock authentication")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
	return nil
}
