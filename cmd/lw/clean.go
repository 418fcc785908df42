package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/litweb/internal/config"
)

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "Output directory to clean (default \"output\")")
}

var cleanOutput string

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove generated output",
	Long: `Remove generated files from the output directory. Only entries lw
itself writes are deleted; a directory containing anything else is
refused so a mistyped --output cannot destroy unrelated files.`,
	RunE: runClean,
}

// generatedEntries are the top-level names lw writes into an output
// directory. Gzip siblings of these are covered by the suffix check.
var generatedEntries = map[string]bool{
	"data":                 true,
	"assets":               true,
	"index.html":           true,
	"styles.css":           true,
	"app.js":               true,
	"search.db":            true,
	".nojekyll":            true,
	"deployment-info.json": true,
}

// CleanResponse is the response for the clean command.
type CleanResponse struct {
	Status  string   `json:"status"`
	Removed []string `json:"removed"`
}

func runClean(cmd *cobra.Command, args []string) error {
	outputDir := cleanOutput
	if outputDir == "" {
		root := projectRoot()
		outputDir = resolveProjectPath(root, loadProjectConfig(root).OutputDir)
	}
	if outputDir == "" {
		outputDir = config.DefaultOutputDir
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			exitWithError(ExitNotFound, "output directory not found: %s", outputDir)
		}
		exitWithError(ExitError, "reading output directory: %v", err)
	}

	// Refuse entirely when anything unrecognized is present.
	var unknown []string
	for _, entry := range entries {
		if !recognized(entry.Name()) {
			unknown = append(unknown, entry.Name())
		}
	}
	if len(unknown) > 0 {
		exitWithError(ExitError, "refusing to clean %s: unrecognized entries %v", outputDir, unknown)
	}

	resp := CleanResponse{Status: "cleaned", Removed: []string{}}
	for _, entry := range entries {
		path := filepath.Join(outputDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			exitWithError(ExitError, "removing %s: %v", path, err)
		}
		resp.Removed = append(resp.Removed, entry.Name())
	}

	// Remove the directory itself when it is now empty.
	os.Remove(outputDir)

	if humanOutput {
		fmt.Printf("Removed %d entries from %s\n", len(resp.Removed), outputDir)
	} else {
		outputJSON(resp)
	}
	return nil
}

func recognized(name string) bool {
	if generatedEntries[name] {
		return true
	}
	if strings.HasSuffix(name, ".gz") && generatedEntries[strings.TrimSuffix(name, ".gz")] {
		return true
	}
	return false
}
