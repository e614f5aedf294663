package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP server
	Port string

	// Persistence backend: json | sqlite | memory
	DataBackend string

	// JSON backend
	UsersFile string

	// SQLite backend
	SQLiteDBPath string

	// Charting
	ChartEnabled    bool
	ChartDir        string
	ChartOpenViewer bool
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DataBackend: getEnv("DATA_BACKEND", "json"),

		UsersFile:    getEnv("USERS_FILE", "./users.json"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/tracker.db"),

		ChartEnabled:    getEnvBool("CHART_ENABLED", true),
		ChartDir:        getEnv("CHART_DIR", "."),
		ChartOpenViewer: getEnvBool("CHART_OPEN_VIEWER", false),
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "json":
		if c.UsersFile == "" {
			errs = append(errs, "users file path cannot be empty when using json backend")
		} else if msg := ensureDir(filepath.Dir(c.UsersFile)); msg != "" {
			errs = append(errs, msg)
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if msg := ensureDir(filepath.Dir(c.SQLiteDBPath)); msg != "" {
			errs = append(errs, msg)
		}
	case "memory":
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [json sqlite memory]", c.DataBackend))
	}

	if c.ChartEnabled {
		if c.ChartDir == "" {
			errs = append(errs, "chart directory cannot be empty when charting is enabled")
		} else if msg := ensureDir(c.ChartDir); msg != "" {
			errs = append(errs, msg)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// ensureDir creates the directory if missing and returns an error message on
// failure, empty on success.
func ensureDir(dir string) string {
	if dir == "." || dir == "" {
		return ""
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Sprintf("cannot create directory '%s': %v", dir, err)
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
