package config

import (
	"os"
	"strconv"
)

// FromEnv overlays MINELOG_* environment variables onto cfg.
// Unparseable values are ignored.
func FromEnv(cfg *Config) {
	if v := os.Getenv("MINELOG_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("MINELOG_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MINELOG_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("MINELOG_SYNC"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Store.Sync = b
		}
	}
	if v := os.Getenv("MINELOG_INDEX_PATH"); v != "" {
		cfg.Index.Path = v
	}
}
