package project

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ConfigFileName is the project manifest kept at the project root.
const ConfigFileName = "goex.json"

// Config describes one project: where its sources live, where builds go
// and what Go module name the generated tree declares.
type Config struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	MainPackage string `json:"main_package"`
	SourceDir   string `json:"source_dir"`
	OutputDir   string `json:"output_dir"`
	GoModName   string `json:"go_mod_name"`
}

// DefaultConfig fills in the defaults for a project of the given name.
func DefaultConfig(name string) *Config {
	return &Config{
		Name:        name,
		Version:     "1.0.0",
		MainPackage: "main",
		SourceDir:   "src",
		OutputDir:   "build",
		GoModName:   "github.com/user/" + name,
	}
}

// LoadConfig reads the manifest from root. When none exists, a default one
// is written there and returned.
func LoadConfig(root string) (*Config, error) {
	path := filepath.Join(root, ConfigFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := DefaultConfig(filepath.Base(root))
		if err := cfg.Save(root); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig(filepath.Base(root))
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the manifest to root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(root, ConfigFileName), append(data, '\n'), 0o644)
}
