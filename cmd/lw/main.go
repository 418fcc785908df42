// Package main provides the lw CLI entry point.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/litweb/internal/config"
	"github.com/matsen/litweb/internal/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verbose maps to debug-level logging
var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lw",
	Short: "Zotero library to static-site build tool",
	Long: `lw turns a Zotero RDF/XML export into a browsable static website.

Core features:
  - Normalized bibliography, collection hierarchy, and search JSON
  - Static site generation with embedded default templates
  - Production builds (minification, gzip siblings, deployment files)
  - Full-text search over the built library (SQLite FTS)
  - Watch mode rebuilding on export changes

All commands output JSON by default for scripting; use --human for
readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "info"
		if verbose {
			level = "debug"
		}
		logging.Init(logging.Config{Level: level, Pretty: humanOutput})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// projectRoot locates the enclosing litweb project, falling back to the
// current directory when there is none. Most commands work without a
// project; config.json just fills in defaults when present.
func projectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}
	if root, err := config.FindProject(cwd); err == nil {
		return root
	}
	return cwd
}

// loadProjectConfig reads config.json (when inside a project) and applies
// .env and LITWEB_* environment overrides.
func loadProjectConfig(root string) *config.Config {
	cfg := &config.Config{}
	if config.IsProject(root) {
		if _, err := os.Stat(config.ConfigPath(root)); err == nil {
			loaded, err := config.Load(root)
			if err != nil {
				exitWithError(ExitConfigError, "loading config: %v", err)
			}
			cfg = loaded
		}
	}

	if err := config.LoadEnvFile(root); err != nil {
		exitWithError(ExitConfigError, "loading .env: %v", err)
	}
	return cfg
}

// resolveProjectPath makes a config-relative path absolute against the
// project root. Absolute and empty paths pass through.
func resolveProjectPath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
