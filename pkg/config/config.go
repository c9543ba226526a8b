package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultAgentID identifies the remote graphic design agent.
const DefaultAgentID = "698bebb370b73cefd2b3ec39"

// DefaultAgentURL is the endpoint prompts are submitted to.
const DefaultAgentURL = "https://api.atelier.dev/v1/agents/invoke"

// Config holds everything the studio and serve commands need. Values come
// from the YAML config file with flag overrides applied on top.
type Config struct {
	AgentURL    string `yaml:"agent_url"`
	AgentID     string `yaml:"agent_id"`
	DataDir     string `yaml:"data_dir"`
	DownloadDir string `yaml:"download_dir"`
	Addr        string `yaml:"addr"`
	HistoryDB   string `yaml:"history_db"`
	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
}

// Default returns the built-in configuration, rooted in the user's home
// directory.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".atelier")
	return Config{
		AgentURL:    DefaultAgentURL,
		AgentID:     DefaultAgentID,
		DataDir:     dataDir,
		DownloadDir: filepath.Join(home, "Downloads"),
		Addr:        ":8080",
		LogLevel:    "info",
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".atelier", "config.yaml")
}

// Load reads the config file at path on top of the defaults. A missing file
// yields the defaults; a malformed one is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}
