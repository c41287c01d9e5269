package config

import (
	"fmt"

	"github.com/dmitrijs2005/localauth/internal/common"
	"github.com/dmitrijs2005/localauth/internal/cryptox"
	"github.com/dmitrijs2005/localauth/internal/flagx"
	"github.com/dmitrijs2005/localauth/internal/logging"
	"github.com/dmitrijs2005/localauth/internal/repositories/credentials"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds runtime settings for the localauth CLI.
type Config struct {
	StorePath       string
	BackupPath      string
	Backend         string
	SQLiteDSN       string
	Iterations      int
	MaxLoadAttempts int
	LogLevel        string
	LogJSON         bool
	ListUsers       bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StorePath = "user_db.json"
	c.BackupPath = "user_db_backup.json"
	c.Backend = BackendFile
	c.SQLiteDSN = "user_db.sqlite"
	c.Iterations = cryptox.MinIterations
	c.MaxLoadAttempts = credentials.DefaultMaxLoadAttempts
	c.LogLevel = "info"
	c.LogJSON = false
	c.ListUsers = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the config file (if -c/-config is given) and from command-line flags.
// Later sources take precedence over earlier ones.
//
// args are the program arguments without the binary name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigFileFlag(args); path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting, wrapped in common.ErrInvalidConfig.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile:
		if c.StorePath == "" {
			return fmt.Errorf("%w: store path is empty", common.ErrInvalidConfig)
		}
		if c.BackupPath == "" {
			return fmt.Errorf("%w: backup path is empty", common.ErrInvalidConfig)
		}
		if c.BackupPath == c.StorePath {
			return fmt.Errorf("%w: backup path must differ from store path", common.ErrInvalidConfig)
		}
	case BackendSQLite:
		if c.SQLiteDSN == "" {
			return fmt.Errorf("%w: sqlite dsn is empty", common.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", common.ErrInvalidConfig, c.Backend)
	}

	if c.Iterations < cryptox.MinIterations {
		return fmt.Errorf("%w: iterations %d below minimum %d",
			common.ErrInvalidConfig, c.Iterations, cryptox.MinIterations)
	}
	if c.MaxLoadAttempts < credentials.MinLoadAttempts {
		return fmt.Errorf("%w: max load attempts %d below minimum %d",
			common.ErrInvalidConfig, c.MaxLoadAttempts, credentials.MinLoadAttempts)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return nil
}
