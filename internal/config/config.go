package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the locations of the persisted documents.
// Relative file names are resolved under DataDir.
type Paths struct {
	DataDir         string `toml:"data_dir"`
	ItemsFile       string `toml:"items_file"`
	RestaurantsFile string `toml:"restaurants_file"`
	OverridesFile   string `toml:"overrides_file"`
	LedgerPath      string `toml:"ledger_path"`
	LogDir          string `toml:"log_dir"`
}

// GooglePlaces contains configuration for the Google Places rating provider.
type GooglePlaces struct {
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Language string `toml:"language"`
}

// Yelp contains configuration for the Yelp Fusion rating provider.
type Yelp struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Enrichment controls provider pacing and how much provider data is kept.
type Enrichment struct {
	// RequestDelayMS is the minimum spacing enforced after a successful
	// provider lookup.
	RequestDelayMS        int     `toml:"request_delay_ms"`
	RequestTimeoutSeconds int     `toml:"request_timeout_seconds"`
	MaxSnippets           int     `toml:"max_snippets"`
	MinNameSimilarity     float64 `toml:"min_name_similarity"`
}

// Extraction tunes the caption entity extractor.
type Extraction struct {
	// ExtraPatterns are evaluated before the built-in rules. Each pattern
	// must contain exactly one capture group holding the restaurant name.
	ExtraPatterns     []string `toml:"extra_patterns"`
	RecognizerEnabled bool     `toml:"recognizer_enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for foodreel.
//
// Configuration sections by subsystem:
//   - Paths: persisted documents, ledger database, log directory
//   - GooglePlaces: first rating provider (address, coordinates, reviews)
//   - Yelp: second rating provider
//   - Enrichment: provider pacing and snippet limits
//   - Extraction: caption rules and the entity recognizer fallback
//   - Logging: log format and level
type Config struct {
	Paths        Paths        `toml:"paths"`
	GooglePlaces GooglePlaces `toml:"google_places"`
	Yelp         Yelp         `toml:"yelp"`
	Enrichment   Enrichment   `toml:"enrichment"`
	Extraction   Extraction   `toml:"extraction"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("foodreel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir, c.Paths.LogDir}
	for _, file := range []string{c.Paths.ItemsFile, c.Paths.RestaurantsFile, c.Paths.LedgerPath} {
		dirs = append(dirs, filepath.Dir(file))
	}
	seen := make(map[string]struct{}, len(dirs))
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequestDelay returns the minimum spacing between successful provider lookups.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.Enrichment.RequestDelayMS) * time.Millisecond
}

// RequestTimeout returns the HTTP timeout applied to provider requests.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Enrichment.RequestTimeoutSeconds) * time.Second
}

// LockPath returns the path of the lock file guarding the data directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, ".foodreel.lock")
}

// LogFile returns the path of the persistent log file.
func (c *Config) LogFile() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "foodreel.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// resolveUnder expands value, joining bare relative names onto base.
func resolveUnder(base, value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	if !strings.HasPrefix(value, "~") && !filepath.IsAbs(value) {
		value = filepath.Join(base, value)
	}
	return expandPath(value)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
