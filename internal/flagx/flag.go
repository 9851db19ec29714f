// Package flagx contains helpers for parsing os.Args in stages: each
// configuration layer filters out only the flags it owns, so that layers
// never trip over each other's flag definitions.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns only those arguments that belong to the given flags.
//
// Two argument forms are recognized:
//  1. separate value:   -a http://localhost:8080
//  2. inline value:     --api-url=http://localhost:8080
//
// For the separate form, the following argument is treated as the flag's
// value unless it starts with '-'. Anything else (unknown flags, positional
// args) is dropped.
func FilterArgs(args []string, flags []string) []string {
	known := make(map[string]struct{}, len(flags))
	for _, f := range flags {
		known[f] = struct{}{}
	}

	kept := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := known[name]; ok {
				kept = append(kept, arg)
			}
			continue
		}

		if _, ok := known[arg]; ok {
			kept = append(kept, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				kept = append(kept, args[i+1])
				i++
			}
		}
	}
	return kept
}

// ConfigFileFlag extracts the config file path given via -c or -config.
// Other arguments are ignored entirely, so callers may invoke this before
// any other flag parsing happens. Returns "" when neither flag is present.
func ConfigFileFlag() string {
	var path string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("configfile", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(args)

	return path
}
