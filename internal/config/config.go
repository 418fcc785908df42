// Package config handles project configuration: the .litweb/config.json
// project file, site metadata from site.yaml, and LITWEB_* environment
// overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents project configuration stored in .litweb/config.json.
type Config struct {
	InputFile   string `json:"input_file,omitempty"`   // RDF export path, relative to project root
	OutputDir   string `json:"output_dir,omitempty"`   // Site output directory
	TemplateDir string `json:"template_dir,omitempty"` // Custom template directory
	Production  bool   `json:"production,omitempty"`   // Default to production builds
}

const (
	LitwebDir  = ".litweb"
	ConfigFile = "config.json"
	SiteFile   = "site.yaml"
	EnvFile    = ".env"

	// DefaultOutputDir is used when neither config nor flags name one.
	DefaultOutputDir = "output"
	// SearchDBFile is the search database name inside the output directory.
	SearchDBFile = "search.db"
)

// LitwebPath returns the path to the .litweb directory from a root path.
func LitwebPath(root string) string {
	return filepath.Join(root, LitwebDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, LitwebDir, ConfigFile)
}

// SitePath returns the path to site.yaml from a root path.
func SitePath(root string) string {
	return filepath.Join(root, SiteFile)
}

// SearchDBPath returns the path to search.db inside an output directory.
func SearchDBPath(outputDir string) string {
	return filepath.Join(outputDir, SearchDBFile)
}

// IsProject checks if the given path contains a litweb project.
func IsProject(root string) bool {
	info, err := os.Stat(LitwebPath(root))
	return err == nil && info.IsDir()
}

// FindProject walks up from the given path to find a litweb project.
// Returns the project root path or an error if not found.
func FindProject(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsProject(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a litweb project (no .litweb directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the project at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the project at the given root, creating
// the .litweb directory if needed.
func (c *Config) Save(root string) error {
	if err := os.MkdirAll(LitwebPath(root), 0755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ValidateInputFile checks that the input path exists and is a regular file.
func ValidateInputFile(path string) error {
	if path == "" {
		return nil // Empty is allowed (not yet configured)
	}

	expandedPath := ExpandPath(path)

	info, err := os.Stat(expandedPath)
	if err != nil {
		return fmt.Errorf("input file does not exist: %s", expandedPath)
	}
	if info.IsDir() {
		return fmt.Errorf("input path is a directory: %s", expandedPath)
	}

	return nil
}

// ValidateTemplateDir checks that the template directory exists.
func ValidateTemplateDir(path string) error {
	if path == "" {
		return nil // Empty means embedded templates
	}

	expandedPath := ExpandPath(path)

	info, err := os.Stat(expandedPath)
	if err != nil {
		return fmt.Errorf("template directory does not exist: %s", expandedPath)
	}
	if !info.IsDir() {
		return fmt.Errorf("template path is not a directory: %s", expandedPath)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
