package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/litweb/internal/config"
	"github.com/matsen/litweb/internal/site"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage project configuration",
	Long: `Manage the litweb project configuration.

A project is a directory containing .litweb/config.json (build paths and
defaults) and optionally site.yaml (site title, author, theme).`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a project in the current directory",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

// ConfigResponse is the response for the config show command.
type ConfigResponse struct {
	Root   string          `json:"root"`
	Config config.Config   `json:"config"`
	Site   site.SiteConfig `json:"site"`
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsProject(cwd) {
		exitWithError(ExitConfigError, "already a litweb project: %s", config.LitwebPath(cwd))
	}

	cfg := &config.Config{OutputDir: config.DefaultOutputDir}
	if detected, err := detectInput(cwd); err == nil {
		// Store the export path relative to the project root.
		if rel, err := filepath.Rel(cwd, detected); err == nil {
			cfg.InputFile = rel
		} else {
			cfg.InputFile = detected
		}
	}
	if err := cfg.Save(cwd); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if _, err := os.Stat(config.SitePath(cwd)); os.IsNotExist(err) {
		if err := config.SaveSite(cwd, site.DefaultSiteConfig()); err != nil {
			exitWithError(ExitError, "%v", err)
		}
	}

	if humanOutput {
		fmt.Printf("Initialized litweb project in %s\n", cwd)
		if cfg.InputFile != "" {
			fmt.Printf("  detected input: %s\n", cfg.InputFile)
		}
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: config.ConfigPath(cwd)})
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	cfg := loadProjectConfig(root)

	siteCfg, err := config.LoadSite(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	config.ApplyEnv(cfg, &siteCfg)

	if humanOutput {
		fmt.Printf("root:         %s\n", root)
		fmt.Printf("input_file:   %s\n", cfg.InputFile)
		fmt.Printf("output_dir:   %s\n", cfg.OutputDir)
		fmt.Printf("template_dir: %s\n", cfg.TemplateDir)
		fmt.Printf("production:   %v\n", cfg.Production)
		fmt.Printf("site.title:   %s\n", siteCfg.Title)
		fmt.Printf("site.author:  %s\n", siteCfg.Author)
		fmt.Printf("site.theme:   %s\n", siteCfg.Theme)
	} else {
		outputJSON(ConfigResponse{Root: root, Config: *cfg, Site: siteCfg})
	}
	return nil
}
