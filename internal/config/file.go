package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/localauth/internal/common"
)

// fileConfig is a DTO for config files. Pointer fields distinguish
// "absent" from zero values so that only keys present in the file
// override the defaults.
type fileConfig struct {
	StorePath       *string `json:"store_path" yaml:"store_path"`
	BackupPath      *string `json:"backup_path" yaml:"backup_path"`
	Backend         *string `json:"backend" yaml:"backend"`
	SQLiteDSN       *string `json:"sqlite_dsn" yaml:"sqlite_dsn"`
	Iterations      *int    `json:"iterations" yaml:"iterations"`
	MaxLoadAttempts *int    `json:"max_load_attempts" yaml:"max_load_attempts"`
	LogLevel        *string `json:"log_level" yaml:"log_level"`
	LogJSON         *bool   `json:"log_json" yaml:"log_json"`
}

// parseFile overlays cfg with values from a JSON or YAML file. YAML is
// chosen for .yaml and .yml extensions, JSON otherwise.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read config file: %w", common.ErrInvalidConfig, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("%w: parse %s: %w", common.ErrInvalidConfig, path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	if fc.StorePath != nil {
		cfg.StorePath = *fc.StorePath
	}
	if fc.BackupPath != nil {
		cfg.BackupPath = *fc.BackupPath
	}
	if fc.Backend != nil {
		cfg.Backend = *fc.Backend
	}
	if fc.SQLiteDSN != nil {
		cfg.SQLiteDSN = *fc.SQLiteDSN
	}
	if fc.Iterations != nil {
		cfg.Iterations = *fc.Iterations
	}
	if fc.MaxLoadAttempts != nil {
		cfg.MaxLoadAttempts = *fc.MaxLoadAttempts
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.LogJSON != nil {
		cfg.LogJSON = *fc.LogJSON
	}
}
