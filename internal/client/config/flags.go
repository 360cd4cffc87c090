package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/agentdesk/internal/flagx"
)

var knownFlags = []string{"-a", "-t", "-r", "-d", "-s", "-redis", "-l"}

// parseFlags populates Config fields from command-line flags.
//
//	-a string   base URL of the backend API
//	-t int      request timeout (milliseconds)
//	-r int      retry attempts
//	-d string   state directory
//	-s string   state backend: sqlite, redis or memory
//	-redis str  redis address
//	-l string   log level
//
// os.Args is filtered through flagx.FilterArgs first so flags owned by other
// loaders do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the backend API")
	timeoutMs := fs.Int("t", int(cfg.RequestTimeout.Milliseconds()), "request timeout (in milliseconds)")
	fs.IntVar(&cfg.RetryAttempts, "r", cfg.RetryAttempts, "retry attempts")
	fs.StringVar(&cfg.StateDir, "d", cfg.StateDir, "directory for local session state")
	fs.StringVar(&cfg.StateBackend, "s", cfg.StateBackend, "session backend: sqlite, redis or memory")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "redis address for the redis backend")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeoutMs) * time.Millisecond
}
