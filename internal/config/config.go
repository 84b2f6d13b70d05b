// Package config manages mnemo configuration and the .mnemo directory layout.
// It handles discovering an existing repository, loading and saving the TOML
// configuration, and initializing a fresh .mnemo directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	MnemoDir     = ".mnemo"
	ConfigFile   = "config"
	DatabaseFile = "state.db"
	ObjectsDir   = "objects.git"
	LockFile     = "lock"
	IgnoreFile   = ".mnemoignore"
)

// Validator holds the alignment scoring tuning. The defaults are calibrated
// values, not contractual constants; projects may adjust them.
type Validator struct {
	Threshold         float64 `toml:"threshold"`
	OverlapWeight     float64 `toml:"overlap_weight"`
	PromptWeight      float64 `toml:"prompt_weight"`
	PlanWeight        float64 `toml:"plan_weight"`
	ChangeSizeWeight  float64 `toml:"change_size_weight"`
	PromptGoodWords   int     `toml:"prompt_good_words"`
	PromptGoodChars   int     `toml:"prompt_good_chars"`
	PromptFairWords   int     `toml:"prompt_fair_words"`
	ChangeSizeCeiling int     `toml:"change_size_ceiling"`
}

// Config represents the mnemo repository configuration.
type Config struct {
	DefaultBranch string    `toml:"default_branch"`
	UserName      string    `toml:"user_name"`
	UserEmail     string    `toml:"user_email"`
	Validator     Validator `toml:"validator"`

	path string // path to the .mnemo directory
}

// DefaultValidator returns the calibrated default scoring configuration.
func DefaultValidator() Validator {
	return Validator{
		Threshold:         0.7,
		OverlapWeight:     0.40,
		PromptWeight:      0.30,
		PlanWeight:        0.15,
		ChangeSizeWeight:  0.15,
		PromptGoodWords:   8,
		PromptGoodChars:   40,
		PromptFairWords:   3,
		ChangeSizeCeiling: 5,
	}
}

// FindRoot finds the .mnemo directory by walking up from the given directory.
// An empty start means the current working directory.
func FindRoot(start string) (string, error) {
	dir := start
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = cwd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		mnemoPath := filepath.Join(dir, MnemoDir)
		if info, err := os.Stat(mnemoPath); err == nil && info.IsDir() {
			return mnemoPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not a mnemo repository (or any parent up to root): run 'mnemo init' first")
		}
		dir = parent
	}
}

// Load loads the configuration from the nearest .mnemo directory.
func Load(start string) (*Config, error) {
	mnemoPath, err := FindRoot(start)
	if err != nil {
		return nil, err
	}
	return LoadAt(mnemoPath)
}

// LoadAt loads the configuration from a specific .mnemo directory.
func LoadAt(mnemoPath string) (*Config, error) {
	configPath := filepath.Join(mnemoPath, ConfigFile)
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.path = mnemoPath
	return &cfg, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	configPath := filepath.Join(c.path, ConfigFile)
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// MnemoPath returns the path to the .mnemo directory.
func (c *Config) MnemoPath() string {
	return c.path
}

// ProjectPath returns the project root (the parent of .mnemo).
func (c *Config) ProjectPath() string {
	return filepath.Dir(c.path)
}

// DatabasePath returns the path to the bbolt state database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.path, DatabaseFile)
}

// ObjectsPath returns the path to the bare object repository.
func (c *Config) ObjectsPath() string {
	return filepath.Join(c.path, ObjectsDir)
}

// LockPath returns the path to the repository lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.path, LockFile)
}

// IgnorePath returns the path to the project-level ignore file.
func (c *Config) IgnorePath() string {
	return filepath.Join(c.ProjectPath(), IgnoreFile)
}

// Initialize creates a new .mnemo directory with initial configuration.
func Initialize(projectPath string) (*Config, error) {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, err
	}

	mnemoPath := filepath.Join(abs, MnemoDir)

	// Check if already initialized
	if _, err := os.Stat(mnemoPath); err == nil {
		return nil, fmt.Errorf("mnemo repository already exists")
	}

	if err := os.MkdirAll(mnemoPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .mnemo directory: %w", err)
	}

	cfg := &Config{
		DefaultBranch: "main",
		Validator:     DefaultValidator(),
		path:          mnemoPath,
	}

	if err := cfg.Save(); err != nil {
		// Cleanup on failure
		os.RemoveAll(mnemoPath)
		return nil, err
	}

	return cfg, nil
}
