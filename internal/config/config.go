package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the top-level configuration.
type Config struct {
	DataDir string  `yaml:"data_dir" toml:"data_dir" json:"data_dir"`
	Logging Logging `yaml:"logging" toml:"logging" json:"logging"`
	Store   Store   `yaml:"store" toml:"store" json:"store"`
	Index   Index   `yaml:"index" toml:"index" json:"index"`
}

// Logging configures the diagnostic logger.
type Logging struct {
	Level  string `yaml:"level" toml:"level" json:"level"`    // debug, info, warn, error
	Format string `yaml:"format" toml:"format" json:"format"` // text, json
}

// Store configures the log store.
type Store struct {
	Sync bool `yaml:"sync" toml:"sync" json:"sync"` // fsync after every append
}

// Index configures the SQLite index.
type Index struct {
	Path string `yaml:"path" toml:"path" json:"path"` // empty: <data_dir>/index.db
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		DataDir: DefaultDataDir(),
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from a YAML, TOML or JSON file, chosen by
// extension. Fields missing from the file keep their defaults.
// If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	expanded := expandEnvVars(string(data))

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal([]byte(expanded), &cfg)
	case ".toml":
		_, err = toml.Decode(expanded, &cfg)
	default:
		err = json.Unmarshal([]byte(expanded), &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} with the environment value, or with an
// empty string when unset.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

// Validate checks the configuration and returns the first problem found.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir is required", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown logging.format %q", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// IndexPath returns the SQLite index location.
func (c Config) IndexPath() string {
	if c.Index.Path != "" {
		return c.Index.Path
	}
	return filepath.Join(c.DataDir, "index.db")
}
