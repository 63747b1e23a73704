package server

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the chat server configuration.
type Config struct {
	// Address to listen on (e.g., ":8090")
	ListenAddr string `toml:"listen"`

	// DBPath is the path to the SQLite transcript database.
	// Empty keeps transcripts in memory only.
	DBPath string `toml:"db"`

	// Upstream model names.
	TextModel  string `toml:"text_model"`
	ImageModel string `toml:"image_model"`

	// Debug enables debug logging.
	Debug bool `toml:"debug"`
}

// DefaultConfig returns the configuration used when no file and no
// flags override it.
func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8090",
	}
}

// LoadConfig reads a TOML config file over the defaults. A missing
// path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, fmt.Errorf("config file %s does not exist", path)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
