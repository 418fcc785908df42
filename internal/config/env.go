package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/matsen/litweb/internal/site"
)

// Environment variables recognized by ApplyEnv. LITWEB_* values take
// precedence over config.json and site.yaml.
const (
	EnvInputFile   = "LITWEB_INPUT_FILE"
	EnvOutputDir   = "LITWEB_OUTPUT_DIR"
	EnvTemplateDir = "LITWEB_TEMPLATE_DIR"
	EnvSiteTitle   = "LITWEB_SITE_TITLE"
	EnvSiteAuthor  = "LITWEB_SITE_AUTHOR"
	EnvBaseURL     = "LITWEB_BASE_URL"
	EnvTheme       = "LITWEB_THEME"
)

// LoadEnvFile loads a .env file from the project root into the process
// environment. A missing file is not an error; already-set variables
// are never overwritten (godotenv semantics).
func LoadEnvFile(root string) error {
	path := filepath.Join(root, EnvFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// ApplyEnv overlays LITWEB_* environment variables onto the project and
// site configuration. Call after LoadEnvFile.
func ApplyEnv(cfg *Config, siteCfg *site.SiteConfig) {
	if v := os.Getenv(EnvInputFile); v != "" {
		cfg.InputFile = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv(EnvTemplateDir); v != "" {
		cfg.TemplateDir = v
	}
	if v := os.Getenv(EnvSiteTitle); v != "" {
		siteCfg.Title = v
	}
	if v := os.Getenv(EnvSiteAuthor); v != "" {
		siteCfg.Author = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		siteCfg.BaseURL = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		siteCfg.Theme = v
	}
}
