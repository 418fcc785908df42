package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matsen/litweb/internal/site"
)

// LoadSite reads site metadata from site.yaml at the project root.
// Returns the defaults (not an error) if the file doesn't exist; fields
// left empty in the file keep their default values.
func LoadSite(root string) (site.SiteConfig, error) {
	cfg := site.DefaultSiteConfig()

	data, err := os.ReadFile(SitePath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading site config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing site config: %w", err)
	}

	return cfg, nil
}

// SaveSite writes site metadata to site.yaml at the project root.
func SaveSite(root string, cfg site.SiteConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding site config: %w", err)
	}

	if err := os.WriteFile(SitePath(root), data, 0644); err != nil {
		return fmt.Errorf("writing site config: %w", err)
	}

	return nil
}
