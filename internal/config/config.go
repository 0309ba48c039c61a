package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file at the project root.
const FileName = "tally.yaml"

// Config represents the top-level tally.yaml configuration.
type Config struct {
	// DataDir holds accounts/, logs/ and import/. Relative paths are resolved
	// against the project root.
	DataDir   string       `yaml:"data_dir" env:"TALLY_DATA_DIR"`
	RulesFile string       `yaml:"rules_file" env:"TALLY_RULES_FILE"`
	Import    ImportConfig `yaml:"import"`
	Log       LogConfig    `yaml:"log"`
	Git       GitConfig    `yaml:"git"`
}

// ImportConfig tunes normalization of bank exports.
type ImportConfig struct {
	DefaultCurrency string `yaml:"default_currency" env:"TALLY_DEFAULT_CURRENCY"`
	// ReportSampleRows is the number of anonymized rows shown for an
	// unrecognized file. Negative disables samples.
	ReportSampleRows int `yaml:"report_sample_rows" env:"TALLY_REPORT_SAMPLE_ROWS"`
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level string `yaml:"level" env:"TALLY_LOG_LEVEL"`
	// Format is "console" or "json".
	Format string `yaml:"format" env:"TALLY_LOG_FORMAT"`
}

// GitConfig controls git integration. AutoCommit records every import as a
// commit when the project root is a git repository.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" env:"TALLY_GIT_AUTO_COMMIT"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a tally.yaml file from disk. Fields missing from the file take
// their default; TALLY_* environment variables override both.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := mergo.Merge(&cfg, Default()); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return &cfg, nil
}

// LoadDir loads tally.yaml from a project root, falling back to defaults
// (plus environment overrides) when the file does not exist.
func LoadDir(root string) (*Config, error) {
	cfg, err := Load(filepath.Join(root, FileName))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	cfg = Default()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		DataDir:   ".",
		RulesFile: filepath.Join("rules", "tag-rules.yaml"),
		Import: ImportConfig{
			DefaultCurrency:  "EUR",
			ReportSampleRows: 3,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Git: GitConfig{
			AuthorName:  "tally",
			AuthorEmail: "tally@localhost",
		},
	}
}

// DataPath joins elem onto the data directory of the project at root.
func (c *Config) DataPath(root string, elem ...string) string {
	dir := c.DataDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return filepath.Join(append([]string{dir}, elem...)...)
}

// RulesPath returns the tag-rule file of the project at root.
func (c *Config) RulesPath(root string) string {
	if filepath.IsAbs(c.RulesFile) {
		return c.RulesFile
	}
	return filepath.Join(root, c.RulesFile)
}
