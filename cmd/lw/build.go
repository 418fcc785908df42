package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matsen/litweb/internal/config"
	"github.com/matsen/litweb/internal/jsonout"
	"github.com/matsen/litweb/internal/pipeline"
	"github.com/matsen/litweb/internal/rdf"
	"github.com/matsen/litweb/internal/searchdb"
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildInput, "input", "i", "", "RDF export file (auto-detected when omitted)")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output directory (default \"output\")")
	buildCmd.Flags().StringVar(&buildTemplateDir, "template-dir", "", "Custom template directory")
	buildCmd.Flags().BoolVar(&buildDataOnly, "data-only", false, "Generate JSON data files only, no site")
	buildCmd.Flags().BoolVar(&buildCombined, "combined-json", false, "Write one combined data.json instead of three files")
	buildCmd.Flags().BoolVar(&buildNoValidate, "no-validate", false, "Skip post-build output validation")
	buildCmd.Flags().BoolVar(&buildProduction, "production", false, "Minify, compress, and write deployment files")
	buildCmd.Flags().BoolVar(&buildIncremental, "incremental", false, "Skip the build when the input is unchanged")
}

var (
	buildInput       string
	buildOutput      string
	buildTemplateDir string
	buildDataOnly    bool
	buildCombined    bool
	buildNoValidate  bool
	buildProduction  bool
	buildIncremental bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site from a Zotero RDF export",
	Long: `Build JSON data files and the static site from a Zotero RDF/XML export.

When --input is omitted the export is auto-detected: library.rdf,
full.rdf, sample.rdf, zotero.rdf, then any *.rdf or *.xml file in the
current directory. After a successful build the search database
(<output>/search.db) is refilled unless --data-only is set.`,
	RunE: runBuild,
}

// BuildResponse is the response for the build command.
type BuildResponse struct {
	pipeline.Result
	SearchIndexed int `json:"searchIndexed,omitempty"`
}

// inputCandidates are probed in order when no --input is given.
var inputCandidates = []string{"library.rdf", "full.rdf", "sample.rdf", "zotero.rdf"}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := resolveBuildConfig(buildInput, buildOutput, buildTemplateDir,
		buildDataOnly, buildCombined, buildNoValidate, buildProduction, buildIncremental)

	orch := pipeline.New(cfg)
	result, err := orch.Build(progressPrinter())
	if err != nil {
		reportBuildFailure(result, err)
	}

	indexed := 0
	if !cfg.DataOnly {
		indexed = rebuildSearchDB(cfg.OutputDir)
	}

	if humanOutput {
		printBuildSummary(result, indexed)
	} else {
		outputJSON(BuildResponse{Result: *result, SearchIndexed: indexed})
	}
	return nil
}

// resolveBuildConfig merges flags, project config, environment overrides,
// and site.yaml into a pipeline config. Flags win over environment, which
// wins over config.json.
func resolveBuildConfig(input, output, templateDir string, dataOnly, combined, noValidate, production, incremental bool) pipeline.Config {
	root := projectRoot()
	projCfg := loadProjectConfig(root)

	siteCfg, err := config.LoadSite(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	config.ApplyEnv(projCfg, &siteCfg)

	// config.json paths are relative to the project root.
	if input == "" {
		input = resolveProjectPath(root, projCfg.InputFile)
	}
	if input == "" {
		detected, err := detectInput(".")
		if err != nil {
			exitWithError(ExitNotFound, "%v", err)
		}
		input = detected
	}
	input = config.ExpandPath(input)
	if err := config.ValidateInputFile(input); err != nil {
		exitWithError(ExitNotFound, "%v", err)
	}

	if output == "" {
		output = resolveProjectPath(root, projCfg.OutputDir)
	}
	if output == "" {
		output = config.DefaultOutputDir
	}

	if templateDir == "" {
		templateDir = resolveProjectPath(root, projCfg.TemplateDir)
	}
	if err := config.ValidateTemplateDir(templateDir); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	return pipeline.Config{
		InputFile:      input,
		OutputDir:      output,
		TemplateDir:    templateDir,
		Site:           siteCfg,
		DataOnly:       dataOnly,
		CombinedJSON:   combined,
		ValidateOutput: !noValidate,
		Incremental:    incremental,
		Production:     production || projCfg.Production,
		Verbose:        verbose,
	}
}

// detectInput finds an RDF export in dir, trying well-known names first.
func detectInput(dir string) (string, error) {
	for _, name := range inputCandidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	var matches []string
	for _, pattern := range []string{"*.rdf", "*.xml"} {
		found, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		matches = append(matches, found...)
	}
	sort.Strings(matches)
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			return m, nil
		}
	}

	return "", fmt.Errorf("no RDF export found (tried %v, *.rdf, *.xml); use --input", inputCandidates)
}

// progressPrinter returns a progress callback for human mode, nil otherwise
// (JSON consumers get progress from the structured log instead).
func progressPrinter() pipeline.ProgressFunc {
	if !humanOutput {
		return nil
	}
	return func(percent int, message string) {
		fmt.Printf("[%3d%%] %s\n", percent, message)
	}
}

func reportBuildFailure(result *pipeline.Result, err error) {
	code := ExitBuildError
	if errors.Is(err, rdf.ErrNotFound) {
		code = ExitNotFound
	}

	if humanOutput || result == nil {
		exitWithError(code, "build failed: %v", err)
	}
	// JSON mode: the failed result carries the error detail.
	outputJSON(BuildResponse{Result: *result})
	os.Exit(code)
}

// rebuildSearchDB refills <output>/search.db from the freshly written data
// files. Failures are reported but never fail the build.
func rebuildSearchDB(outputDir string) int {
	items, err := jsonout.ReadItems(filepath.Join(outputDir, "data"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: search index not rebuilt: %v\n", err)
		return 0
	}

	db, err := searchdb.Open(config.SearchDBPath(outputDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: search index not rebuilt: %v\n", err)
		return 0
	}
	defer db.Close()

	count, err := db.Rebuild(items)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: search index not rebuilt: %v\n", err)
		return 0
	}
	return count
}

func printBuildSummary(result *pipeline.Result, indexed int) {
	fmt.Printf("Build succeeded in %s\n", formatDuration(result.Duration))
	fmt.Printf("  Items:       %d\n", result.ItemCount)
	fmt.Printf("  Collections: %d\n", result.CollectionCount)
	fmt.Printf("  Files:       %d\n", len(result.FilesGenerated))
	if indexed > 0 {
		fmt.Printf("  Indexed:     %d items in search.db\n", indexed)
	}
	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
}
