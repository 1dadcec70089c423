// Package config handles loading and managing configuration for the mdtask CLI.
// It supports loading from TOML files, environment variables, and hardcoded defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration settings for the mdtask CLI.
type Config struct {
	Storage  StorageConfig  `toml:"storage"`
	Vault    VaultConfig    `toml:"vault"`
	Analyzer AnalyzerConfig `toml:"analyzer"`
	Logging  LoggingConfig  `toml:"logging"`
}

// StorageConfig controls where and how task files are written.
type StorageConfig struct {
	// Dir is the directory holding the task files
	Dir string `toml:"dir"`

	// Format is the file body format: "frontmatter" or "hybrid"
	Format string `toml:"format"`

	// Organization is the layout on disk: "flat" or "kanban"
	Organization string `toml:"organization"`

	// Kanban names the per-status subdirectories in kanban mode
	Kanban KanbanConfig `toml:"kanban"`
}

// KanbanConfig holds the per-status subdirectory names.
type KanbanConfig struct {
	Backlog    string `toml:"backlog"`
	InProgress string `toml:"in_progress"`
	Done       string `toml:"done"`
	Cancelled  string `toml:"cancelled"`
}

// VaultConfig controls Obsidian vault integration.
type VaultConfig struct {
	// Root is the vault root; blank means detect from the import path
	Root string `toml:"root"`

	// Pattern is the glob matched against file names when importing a directory
	Pattern string `toml:"pattern"`

	// Recursive descends into subdirectories when importing a directory
	Recursive bool `toml:"recursive"`
}

// AnalyzerConfig names the external triage command, if any.
type AnalyzerConfig struct {
	// Command is looked up on PATH; blank disables analysis
	Command string `toml:"command"`
}

// LoggingConfig controls the rotating log file.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn, error
	Level string `toml:"level"`

	// File is the log path; blank uses ~/.mdtask/mdtask.log
	File string `toml:"file"`

	MaxSizeMB  int `toml:"max_size_mb"`
	MaxBackups int `toml:"max_backups"`
	MaxAgeDays int `toml:"max_age_days"`
}

// Default configuration values
const (
	DefaultFormat       = "frontmatter"
	DefaultOrganization = "flat"
	DefaultPattern      = "*.md"
	DefaultLogLevel     = "info"
	DefaultLogMaxSizeMB = 10
	DefaultLogBackups   = 3
	DefaultLogAgeDays   = 30
)

// Load reads configuration from files and environment variables.
// Priority (highest to lowest):
// 1. Environment variables
// 2. ~/.config/mdtask/config.toml
// 3. ~/.mdtask/config.toml
// 4. Hardcoded defaults
func Load() (*Config, error) {
	cfg := defaults()

	paths := ConfigPaths()
	for i := len(paths) - 1; i >= 0; i-- {
		if _, err := os.Stat(paths[i]); err != nil {
			continue
		}
		if err := loadFile(paths[i], cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func defaults() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Storage: StorageConfig{
			Dir:          filepath.Join(home, ".mdtask", "tasks"),
			Format:       DefaultFormat,
			Organization: DefaultOrganization,
			Kanban: KanbanConfig{
				Backlog:    "Backlog",
				InProgress: "InProgress",
				Done:       "Done",
				Cancelled:  "Cancelled",
			},
		},
		Vault: VaultConfig{
			Pattern: DefaultPattern,
		},
		Logging: LoggingConfig{
			Level:      DefaultLogLevel,
			File:       filepath.Join(home, ".mdtask", "mdtask.log"),
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogBackups,
			MaxAgeDays: DefaultLogAgeDays,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvOverrides() {
	if val := os.Getenv("MDTASK_STORAGE_DIR"); val != "" {
		c.Storage.Dir = val
	}
	if val := os.Getenv("MDTASK_FORMAT"); val != "" {
		c.Storage.Format = val
	}
	if val := os.Getenv("MDTASK_ORGANIZATION"); val != "" {
		c.Storage.Organization = val
	}
	if val := os.Getenv("MDTASK_VAULT_ROOT"); val != "" {
		c.Vault.Root = val
	}
	if val := os.Getenv("MDTASK_ANALYZER"); val != "" {
		c.Analyzer.Command = val
	}
	if val := os.Getenv("MDTASK_LOG_LEVEL"); val != "" {
		c.Logging.Level = val
	}
	if val := os.Getenv("MDTASK_LOG_FILE"); val != "" {
		c.Logging.File = val
	}
}

// ConfigPaths returns the paths where config files are searched,
// highest priority first.
func ConfigPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "mdtask", "config.toml"),
		filepath.Join(home, ".mdtask", "config.toml"),
	}
}

// WriteExample writes an example configuration file to the specified path.
func WriteExample(path string) error {
	example := `# mdtask configuration file
# Place this file at ~/.config/mdtask/config.toml or ~/.mdtask/config.toml

[storage]
# Directory holding the task files
dir = "~/.mdtask/tasks"

# File body format: "frontmatter" or "hybrid"
# Hybrid files carry a checkbox line so they render as tasks in Obsidian
format = "frontmatter"

# Layout on disk: "flat" or "kanban"
organization = "flat"

[storage.kanban]
backlog = "Backlog"
in_progress = "InProgress"
done = "Done"
cancelled = "Cancelled"

[vault]
# Obsidian vault root; leave blank to detect from the import path
root = ""
pattern = "*.md"
recursive = false

[analyzer]
# External triage command looked up on PATH; blank disables analysis
command = ""

[logging]
level = "info"
file = ""
max_size_mb = 10
max_backups = 3
max_age_days = 30
`
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(example), 0644)
}
