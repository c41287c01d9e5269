// Package flagx lets several components parse only the command-line flags
// they own from a shared argument list.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the subset of args that belongs to allowedFlags.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
//  3. Boolean flags listed in boolFlags:     -j
//
// Flag names match with either one or two leading dashes, as the flag
// package accepts both. A boolean flag never consumes the following token.
func FilterArgs(args []string, allowedFlags []string, boolFlags ...string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags)+len(boolFlags))
	for _, f := range allowedFlags {
		allowed[flagName(f)] = struct{}{}
	}
	bools := make(map[string]struct{}, len(boolFlags))
	for _, f := range boolFlags {
		allowed[flagName(f)] = struct{}{}
		bools[flagName(f)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, ok := strings.Cut(arg, "="); ok {
			if _, known := allowed[flagName(name)]; known {
				filtered = append(filtered, arg)
			}
			continue
		}

		name := flagName(arg)
		if _, known := allowed[name]; !known {
			continue
		}
		filtered = append(filtered, arg)
		if _, isBool := bools[name]; isBool {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

func flagName(arg string) string {
	return strings.TrimLeft(arg, "-")
}

// ConfigFileFlag extracts the config file path given via -c or -config.
// Other arguments are ignored. An empty string means no file was named.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
