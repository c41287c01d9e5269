// Package config loads runtime configuration for the localauth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # File schema
//
//	{
//	  "store_path": "user_db.json",
//	  "backup_path": "user_db_backup.json",
//	  "backend": "file",
//	  "sqlite_dsn": "user_db.sqlite",
//	  "iterations": 100000,
//	  "max_load_attempts": 3,
//	  "log_level": "info",
//	  "log_json": false
//	}
//
// Keys missing from the file keep their default. The result is validated
// before LoadConfig returns; every failure wraps common.ErrInvalidConfig.
package config
