// Package config loads gtmdash settings from defaults, an optional YAML file
// and GTMDASH_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend names a service variant.
type Backend string

const (
	BackendProcess  Backend = "process"
	BackendWeb      Backend = "web"
	BackendMock     Backend = "mock"
	BackendSnapshot Backend = "snapshot"
	BackendGit      Backend = "git"
	BackendReject   Backend = "reject"
	BackendFailure  Backend = "failure"
)

// Backends lists every valid backend.
var Backends = []Backend{
	BackendProcess, BackendWeb, BackendMock, BackendSnapshot,
	BackendGit, BackendReject, BackendFailure,
}

// OTelConfig holds OTLP metric exporter settings.
type OTelConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

type Config struct {
	Backend      Backend    `yaml:"backend"`
	GtmBin       string     `yaml:"gtm_bin"`
	Endpoint     string     `yaml:"endpoint"`
	Token        string     `yaml:"token"`
	FixturesDir  string     `yaml:"fixtures_dir"`
	DBPath       string     `yaml:"db_path"`
	ProjectsFile string     `yaml:"projects_file"`
	SnapshotID   string     `yaml:"snapshot_id"`
	DelayMs      int        `yaml:"delay_ms"`
	LogLevel     string     `yaml:"log_level"`
	LogCalls     bool       `yaml:"log_calls"`
	OTel         OTelConfig `yaml:"otel"`
}

// DefaultConfig returns the built-in settings. Paths starting with ~ are
// resolved by Load.
func DefaultConfig() Config {
	return Config{
		Backend:      BackendProcess,
		GtmBin:       "gtm",
		Endpoint:     "http://localhost:8080",
		DBPath:       "~/.gtmdash/snapshots.db",
		ProjectsFile: "~/.git-time-metric/project.json",
		LogLevel:     "warn",
	}
}

// DefaultPath is the config file used when GTMDASH_CONFIG is unset.
func DefaultPath() string {
	return "~/.gtmdash/config.yaml"
}

// Load builds the effective configuration. A missing config file is not an
// error; a malformed one is.
func Load() (Config, error) {
	cfg := DefaultConfig()

	path := DefaultPath()
	if v := os.Getenv("GTMDASH_CONFIG"); v != "" {
		path = v
	}
	if err := cfg.mergeFile(expandHome(path)); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()

	cfg.DBPath = expandHome(cfg.DBPath)
	cfg.ProjectsFile = expandHome(cfg.ProjectsFile)
	cfg.FixturesDir = expandHome(cfg.FixturesDir)
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GTMDASH_BACKEND"); v != "" {
		c.Backend = Backend(strings.ToLower(v))
	}
	if v := os.Getenv("GTMDASH_GTM_BIN"); v != "" {
		c.GtmBin = v
	}
	if v := os.Getenv("GTMDASH_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("GTMDASH_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("GTMDASH_FIXTURES_DIR"); v != "" {
		c.FixturesDir = v
	}
	if v := os.Getenv("GTMDASH_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("GTMDASH_PROJECTS_FILE"); v != "" {
		c.ProjectsFile = v
	}
	if v := os.Getenv("GTMDASH_SNAPSHOT_ID"); v != "" {
		c.SnapshotID = v
	}
	if v := os.Getenv("GTMDASH_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.DelayMs = n
		}
	}
	if v := os.Getenv("GTMDASH_LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("GTMDASH_LOG_CALLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.LogCalls = b
		}
	}
	if v := os.Getenv("GTMDASH_OTEL_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.OTel.Enabled = b
		}
	}
	if v := os.Getenv("GTMDASH_OTEL_ENDPOINT"); v != "" {
		c.OTel.Endpoint = v
	}
	if v := os.Getenv("GTMDASH_OTEL_INSECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.OTel.Insecure = b
		}
	}
}

// Validate reports settings no backend can run with.
func (c Config) Validate() error {
	if !c.Backend.Valid() {
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.DelayMs < 0 {
		return fmt.Errorf("delay_ms must not be negative, got %d", c.DelayMs)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.Backend == BackendWeb && c.Endpoint == "" {
		return errors.New("web backend requires an endpoint")
	}
	if c.OTel.Enabled && c.OTel.Endpoint == "" {
		return errors.New("otel.enabled requires otel.endpoint")
	}
	return nil
}

func (b Backend) Valid() bool {
	for _, known := range Backends {
		if b == known {
			return true
		}
	}
	return false
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
