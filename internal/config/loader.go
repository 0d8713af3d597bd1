package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config captures file and environment driven settings for the tracker.
type Config struct {
	DataDir         string        `yaml:"data_dir" env:"RODA_DATA_DIR" env-default:"~/.roda-da-vida"`
	DBFile          string        `yaml:"db_file" env:"RODA_DB_FILE" env-default:"data.db"`
	HTTPAddr        string        `yaml:"http_addr" env:"RODA_HTTP_ADDR" env-default:"127.0.0.1:8737"`
	LogLevel        string        `yaml:"log_level" env:"RODA_LOG_LEVEL" env-default:"info"`
	LogFormat       string        `yaml:"log_format" env:"RODA_LOG_FORMAT" env-default:"json"`
	DBBusyTimeout   time.Duration `yaml:"db_busy_timeout" env:"RODA_DB_BUSY_TIMEOUT" env-default:"5s"`
	DBMaxOpenConns  int           `yaml:"db_max_open_conns" env:"RODA_DB_MAX_OPEN_CONNS" env-default:"1"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"RODA_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DBPath returns the absolute path of the database file.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, c.DBFile)
}

// Load reads an optional YAML file and then the process environment, which takes
// precedence. Every invalid field is reported in a single error.
func Load(path string) (Config, error) {
	var cfg Config

	var err error
	if strings.TrimSpace(path) != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read configuration: %w", err)
	}

	cfg.DataDir, err = expandHome(strings.TrimSpace(cfg.DataDir))
	if err != nil {
		return Config{}, fmt.Errorf("resolve data directory: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 4)

	if c.DataDir == "" {
		missing = append(missing, "RODA_DATA_DIR")
	}
	if strings.TrimSpace(c.DBFile) == "" || strings.ContainsRune(c.DBFile, os.PathSeparator) {
		invalid = append(invalid, "RODA_DB_FILE")
	}
	if strings.TrimSpace(c.HTTPAddr) == "" {
		missing = append(missing, "RODA_HTTP_ADDR")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, "RODA_LOG_LEVEL")
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		invalid = append(invalid, "RODA_LOG_FORMAT")
	}
	if c.DBBusyTimeout < 0 {
		invalid = append(invalid, "RODA_DB_BUSY_TIMEOUT")
	}
	if c.DBMaxOpenConns < 1 {
		invalid = append(invalid, "RODA_DB_MAX_OPEN_CONNS")
	}
	if c.ShutdownTimeout <= 0 {
		invalid = append(invalid, "RODA_SHUTDOWN_TIMEOUT")
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "missing: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		problems = append(problems, "invalid: "+strings.Join(invalid, ", "))
	}
	if len(problems) > 0 {
		return fmt.Errorf("configuration error (%s)", strings.Join(problems, "; "))
	}
	return nil
}

// expandHome replaces a leading ~ with the current user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
