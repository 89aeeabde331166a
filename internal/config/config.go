// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Provider ProviderConfig `toml:"provider"`
	Library  LibraryConfig  `toml:"library"`
	Sync     SyncConfig     `toml:"sync"`
	Plex     *PlexConfig    `toml:"plex"`
}

type ServerConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ProviderConfig holds the Xtream panel account.
type ProviderConfig struct {
	URL        string   `toml:"url"`
	Username   string   `toml:"username"`
	Password   string   `toml:"password"`
	UserAgent  string   `toml:"user_agent"`
	Timeout    Duration `toml:"timeout"`
	MaxRetries int      `toml:"max_retries"`
}

// LibraryConfig locates the pointer tree and the engine's own state.
type LibraryConfig struct {
	Root     string `toml:"root"`
	DataPath string `toml:"data_path"`
}

type SyncConfig struct {
	Movies            bool     `toml:"movies"`
	Series            bool     `toml:"series"`
	MovieCategories   []int    `toml:"movie_categories"`
	SeriesCategories  []int    `toml:"series_categories"`
	FolderMode        string   `toml:"folder_mode"`
	MaxConcurrency    int      `toml:"max_concurrency"`
	CleanupOrphans    bool     `toml:"cleanup_orphans"`
	SmartSkip         bool     `toml:"smart_skip"`
	Incremental       bool     `toml:"incremental"`
	FullSyncInterval  Duration `toml:"full_sync_interval"`
	FullSyncThreshold float64  `toml:"full_sync_threshold"`
	Interval          Duration `toml:"interval"`
	MetadataLookup    bool     `toml:"metadata_lookup"`
}

type PlexConfig struct {
	URL        string   `toml:"url"`
	Token      string   `toml:"token"`
	Libraries  []string `toml:"libraries"`
	LocalPath  string   `toml:"local_path"`
	RemotePath string   `toml:"remote_path"`
}

// Duration is a time.Duration written as a string such as "24h" in TOML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = v
	return nil
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if !cfgErr.empty() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation parses the file and applies defaults only. Unresolved
// environment variables are left in place.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	loadDotEnv(filepath.Dir(path))
	content, missing := substituteEnvVars(string(data))

	cfg := defaults()
	if _, err := toml.Decode(content, cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, missing, nil
}

// loadDotEnv reads a .env file beside the config, then one in the working
// directory. Variables already set win.
func loadDotEnv(dir string) {
	for _, p := range []string{filepath.Join(dir, ".env"), ".env"} {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		_ = godotenv.Load(p)
	}
}

// defaults returns the values boolean switches start from; TOML only
// overrides keys that are present.
func defaults() *Config {
	return &Config{
		Sync: SyncConfig{
			Movies:         true,
			Series:         true,
			FolderMode:     "single",
			CleanupOrphans: true,
			SmartSkip:      true,
			Incremental:    true,
		},
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8585
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.LogFormat == "" {
		c.Server.LogFormat = "text"
	}
	if c.Library.DataPath == "" {
		c.Library.DataPath = "./data"
	}
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(c.Library.DataPath, "strmsync.db")
	}
	if c.Provider.Timeout.Duration == 0 {
		c.Provider.Timeout.Duration = 30 * time.Second
	}
	if c.Provider.MaxRetries == 0 {
		c.Provider.MaxRetries = 3
	}
	if c.Sync.FolderMode == "" {
		c.Sync.FolderMode = "single"
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars expands environment references and reports the ones that
// could not be resolved. Unresolved references are left unchanged. Comment
// lines are copied verbatim.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		var m []string
		lines[i], m = substituteLine(line)
		missing = append(missing, m...)
	}
	return strings.Join(lines, ""), missing
}

func substituteLine(line string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]

		value, ok := os.LookupEnv(name)
		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, name+": "+arg)
				return match
			}
			return value
		default:
			if !ok {
				missing = append(missing, name)
				return match
			}
			return value
		}
	})
	return out, missing
}
