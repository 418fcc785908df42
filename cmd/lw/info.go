package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/litweb/internal/config"
	"github.com/matsen/litweb/internal/searchdb"
)

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringVarP(&infoOutput, "output", "o", "", "Output directory to inspect (default \"output\")")
}

var infoOutput string

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize a built output directory",
	RunE:  runInfo,
}

// OutputFileInfo describes one generated file.
type OutputFileInfo struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// InfoResponse is the response for the info command.
type InfoResponse struct {
	OutputDir     string           `json:"output_dir"`
	Items         int              `json:"items"`
	Collections   int              `json:"collections"`
	SearchIndexed int              `json:"search_indexed"`
	YearFrom      int              `json:"year_from,omitempty"`
	YearTo        int              `json:"year_to,omitempty"`
	GeneratedAt   string           `json:"generated_at,omitempty"`
	TotalSize     int64            `json:"total_size"`
	Files         []OutputFileInfo `json:"files"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	outputDir := infoOutput
	if outputDir == "" {
		root := projectRoot()
		outputDir = resolveProjectPath(root, loadProjectConfig(root).OutputDir)
	}
	if outputDir == "" {
		outputDir = config.DefaultOutputDir
	}

	if info, err := os.Stat(outputDir); err != nil || !info.IsDir() {
		exitWithError(ExitNotFound, "output directory not found: %s (run 'lw build' first)", outputDir)
	}

	resp := InfoResponse{OutputDir: outputDir, Files: []OutputFileInfo{}}

	filepath.WalkDir(outputDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(outputDir, path)
		if relErr != nil || rel[0] == '.' {
			return nil
		}
		info, statErr := d.Info()
		if statErr != nil {
			return nil
		}
		resp.Files = append(resp.Files, OutputFileInfo{Path: filepath.ToSlash(rel), Size: info.Size()})
		resp.TotalSize += info.Size()
		return nil
	})

	readDataCounts(filepath.Join(outputDir, "data"), &resp)

	if dbPath := config.SearchDBPath(outputDir); fileExists(dbPath) {
		if db, err := searchdb.Open(dbPath); err == nil {
			resp.SearchIndexed, _ = db.Count()
			resp.YearFrom, resp.YearTo, _ = db.YearRange()
			db.Close()
		}
	}

	if humanOutput {
		printInfoHuman(resp)
	} else {
		outputJSON(resp)
	}
	return nil
}

// dataMetadata is the shared metadata envelope of the generated JSON files.
type dataMetadata struct {
	Metadata struct {
		TotalItems       int    `json:"total_items"`
		TotalCollections int    `json:"total_collections"`
		GeneratedAt      string `json:"generated_at"`
	} `json:"metadata"`
}

func readDataCounts(dataDir string, resp *InfoResponse) {
	for _, name := range []string{"bibliography.json", "data.json"} {
		data, err := os.ReadFile(filepath.Join(dataDir, name))
		if err != nil {
			continue
		}
		var doc dataMetadata
		if json.Unmarshal(data, &doc) != nil {
			continue
		}
		resp.Items = doc.Metadata.TotalItems
		resp.GeneratedAt = doc.Metadata.GeneratedAt
		if doc.Metadata.TotalCollections > 0 {
			resp.Collections = doc.Metadata.TotalCollections
		}
		break
	}

	data, err := os.ReadFile(filepath.Join(dataDir, "collections.json"))
	if err != nil {
		return
	}
	var doc dataMetadata
	if json.Unmarshal(data, &doc) == nil {
		resp.Collections = doc.Metadata.TotalCollections
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func printInfoHuman(resp InfoResponse) {
	fmt.Printf("Output: %s\n", resp.OutputDir)
	fmt.Printf("  Items:       %d\n", resp.Items)
	fmt.Printf("  Collections: %d\n", resp.Collections)
	if resp.SearchIndexed > 0 {
		fmt.Printf("  Indexed:     %d (%d-%d)\n", resp.SearchIndexed, resp.YearFrom, resp.YearTo)
	}
	if resp.GeneratedAt != "" {
		fmt.Printf("  Generated:   %s\n", resp.GeneratedAt)
	}
	fmt.Printf("  Total size:  %s in %d files\n", formatBytes(resp.TotalSize), len(resp.Files))
	for _, f := range resp.Files {
		fmt.Printf("    %-40s %10s\n", f.Path, formatBytes(f.Size))
	}
}
