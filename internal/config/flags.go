package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/localauth/internal/common"
	"github.com/dmitrijs2005/localauth/internal/flagx"
)

var (
	valueFlags = []string{"-f", "-b", "-s", "-d", "-i", "-l"}
	boolFlags  = []string{"-j", "-list"}
)

// parseFlags populates Config fields from command-line flags.
//
//	-f string   credential store file
//	-b string   backup file for corrupt stores
//	-s string   storage backend: file or sqlite
//	-d string   sqlite data source name
//	-i int      PBKDF2 iterations (at least 100000)
//	-l string   log level: debug, info, warn, error
//	-j          JSON log output
//	-list       print registered usernames and exit
//
// Only these flags are considered; -c/-config is handled by parseFile.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("localauth", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.StorePath, "f", cfg.StorePath, "credential store file")
	fs.StringVar(&cfg.BackupPath, "b", cfg.BackupPath, "backup file for corrupt stores")
	fs.StringVar(&cfg.Backend, "s", cfg.Backend, "storage backend (file|sqlite)")
	fs.StringVar(&cfg.SQLiteDSN, "d", cfg.SQLiteDSN, "sqlite data source name")
	fs.IntVar(&cfg.Iterations, "i", cfg.Iterations, "PBKDF2 iterations")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")
	fs.BoolVar(&cfg.LogJSON, "j", cfg.LogJSON, "JSON log output")
	fs.BoolVar(&cfg.ListUsers, "list", cfg.ListUsers, "print registered usernames and exit")

	if err := fs.Parse(flagx.FilterArgs(args, valueFlags, boolFlags...)); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return nil
}
