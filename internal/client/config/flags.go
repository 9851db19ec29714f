package config

import (
	"flag"
	"os"
	"time"

	"github.com/hireboard/hirectl/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the HireBoard API (default from Config)
//	-t int      request timeout in seconds (default from Config)
//
// os.Args is filtered to just these flags via flagx.FilterArgs so that the
// config-file flag handled elsewhere doesn't trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the HireBoard API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
