// Package pipeline orchestrates the full build: parse the RDF export,
// extract and transform records, assemble the collection hierarchy, write
// the JSON data files, generate the static site, and optionally optimize
// the output for production hosting.
package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/matsen/litweb/internal/bib"
	"github.com/matsen/litweb/internal/hierarchy"
	"github.com/matsen/litweb/internal/jsonout"
	"github.com/matsen/litweb/internal/optimize"
	"github.com/matsen/litweb/internal/rdf"
	"github.com/matsen/litweb/internal/site"
	"github.com/matsen/litweb/internal/transform"
)

// Config controls one orchestrator instance.
type Config struct {
	InputFile   string
	OutputDir   string
	TemplateDir string
	Site        site.SiteConfig

	DataOnly       bool // skip html/css/js generation
	CombinedJSON   bool // one data file instead of three
	ValidateOutput bool
	Incremental    bool // skip rebuild when the input is unchanged
	Production     bool // minify, compress, write deployment files
	Verbose        bool
}

// Result records one build attempt.
type Result struct {
	Success         bool          `json:"success"`
	Duration        time.Duration `json:"duration"`
	ItemCount       int           `json:"itemCount"`
	CollectionCount int           `json:"collectionCount"`
	FilesGenerated  []string      `json:"filesGenerated"`
	Errors          []string      `json:"errors,omitempty"`
	Warnings        []string      `json:"warnings,omitempty"`
	Timestamp       time.Time     `json:"timestamp"`
}

// ProgressFunc receives build progress as a percentage and a stage
// description. Callbacks are user code; panics in them are contained.
type ProgressFunc func(percent int, message string)

// Orchestrator runs builds and remembers their outcomes for incremental
// skipping and statistics. It is not safe for concurrent Build calls.
type Orchestrator struct {
	cfg Config

	transformer *transform.Transformer
	builder     *hierarchy.Builder
	writer      *jsonout.Generator
	siteGen     *site.Generator

	lastInputHash string
	history       []Result

	// progressLog throttles per-stage log lines so watch-mode rebuilds of
	// large libraries do not flood the output.
	progressLog *rate.Limiter
}

// New returns an orchestrator for cfg.
func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		cfg:         cfg,
		transformer: transform.New(),
		builder:     hierarchy.NewBuilder(),
		writer:      jsonout.NewGenerator(filepath.Join(cfg.OutputDir, "data")),
		siteGen:     site.NewGenerator(cfg.OutputDir, cfg.TemplateDir),
		progressLog: rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
	}
	if cfg.Production {
		o.writer.SetCompact(true)
	}
	return o
}

// Build runs the pipeline once. On failure it returns the failed result
// alongside the error; both outcomes are recorded in the history.
func (o *Orchestrator) Build(progress ProgressFunc) (*Result, error) {
	start := time.Now()
	result := &Result{Timestamp: start}

	report := func(percent int, message string) {
		notify(progress, percent, message)
		if o.cfg.Verbose || o.progressLog.Allow() {
			log.Info().Int("percent", percent).Msg(message)
		}
	}

	fail := func(err error) (*Result, error) {
		result.Errors = append(result.Errors, err.Error())
		result.Duration = time.Since(start)
		o.history = append(o.history, *result)
		log.Error().Err(err).Dur("duration", result.Duration).Msg("build failed")
		return result, err
	}

	log.Info().Str("input", o.cfg.InputFile).Str("output", o.cfg.OutputDir).Msg("starting build")

	report(5, "validating inputs")
	if err := os.MkdirAll(o.cfg.OutputDir, 0755); err != nil {
		return fail(fmt.Errorf("create output directory: %w", err))
	}

	inputHash, hashErr := hashFile(o.cfg.InputFile)
	if hashErr != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("input hash unavailable: %v", hashErr))
	}
	if o.cfg.Incremental && o.shouldSkip(inputHash) {
		log.Info().Msg("input unchanged, skipping build")
		last := o.lastSuccess()
		return &last, nil
	}

	report(10, "parsing rdf file")
	graph, parseWarnings, err := rdf.ParseFile(o.cfg.InputFile)
	result.Warnings = append(result.Warnings, parseWarnings...)
	if err != nil {
		return fail(fmt.Errorf("rdf parsing failed: %w", err))
	}

	report(25, "extracting bibliography items and collections")
	rawItems, itemWarnings := rdf.ExtractItems(graph)
	result.Warnings = append(result.Warnings, itemWarnings...)
	rawCollections, colWarnings := rdf.ExtractCollections(graph)
	result.Warnings = append(result.Warnings, colWarnings...)
	rdf.AssignCollections(rawItems, rawCollections)

	if len(rawItems) == 0 {
		result.Warnings = append(result.Warnings, "no bibliography items found in rdf file")
	}
	if len(rawCollections) == 0 {
		result.Warnings = append(result.Warnings, "no collections found in rdf file")
	}

	report(40, "transforming and normalizing data")
	items, collections, err := o.transformAll(rawItems, rawCollections, result)
	if err != nil {
		return fail(err)
	}
	result.ItemCount = len(items)
	result.CollectionCount = len(collections)

	report(55, "building collection hierarchy")
	roots := o.builder.Build(collections)
	o.builder.AssignItems(items)
	result.Warnings = append(result.Warnings, o.builder.Warnings()...)
	for _, issue := range o.builder.Validate() {
		result.Warnings = append(result.Warnings, "hierarchy: "+issue.Message)
	}

	report(70, "generating json data files")
	if o.cfg.CombinedJSON {
		path, err := o.writer.WriteCombined(items, roots)
		if err != nil {
			return fail(fmt.Errorf("json generation failed: %w", err))
		}
		result.FilesGenerated = append(result.FilesGenerated, path)
	} else {
		writes := []func() (string, error){
			func() (string, error) { return o.writer.WriteBibliography(items) },
			func() (string, error) { return o.writer.WriteCollections(roots) },
			func() (string, error) { return o.writer.WriteSearchIndex(items) },
		}
		for _, write := range writes {
			path, err := write()
			if err != nil {
				return fail(fmt.Errorf("json generation failed: %w", err))
			}
			result.FilesGenerated = append(result.FilesGenerated, path)
		}
	}

	if !o.cfg.DataOnly {
		report(85, "generating static website files")
		siteFiles, err := o.siteGen.Generate(o.siteConfig())
		if err != nil {
			return fail(fmt.Errorf("static site generation failed: %w", err))
		}
		result.FilesGenerated = append(result.FilesGenerated, siteFiles...)
	}

	if o.cfg.ValidateOutput {
		report(95, "validating generated files")
		result.Warnings = append(result.Warnings, o.validateOutput(result.FilesGenerated)...)
	}

	if o.cfg.Production {
		report(95, "optimizing for production")
		result.Warnings = append(result.Warnings, o.optimizeOutput()...)
	}

	report(100, "build completed")

	o.lastInputHash = inputHash
	result.Success = true
	result.Duration = time.Since(start)
	o.history = append(o.history, *result)
	log.Info().
		Dur("duration", result.Duration).
		Int("items", result.ItemCount).
		Int("collections", result.CollectionCount).
		Msg("build completed")
	return result, nil
}

// transformAll converts the raw records. Item transform failures are
// collected so one build reports every broken record, then fail together;
// collection failures only warn.
func (o *Orchestrator) transformAll(rawItems []bib.RawItem, rawCollections []bib.RawCollection, result *Result) ([]*bib.Item, []*bib.Collection, error) {
	o.transformer.ResetWarnings()

	var (
		items     []*bib.Item
		transErrs []string
	)
	for _, raw := range rawItems {
		item, err := o.transformer.TransformItem(raw)
		if err != nil {
			transErrs = append(transErrs, fmt.Sprintf("item %s: %v", raw.ID, err))
			continue
		}
		items = append(items, item)
	}

	var collections []*bib.Collection
	for _, raw := range rawCollections {
		col, err := o.transformer.TransformCollection(raw)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("collection %s: %v", raw.ID, err))
			continue
		}
		collections = append(collections, col)
	}

	result.Warnings = append(result.Warnings, o.transformer.Warnings()...)

	if len(transErrs) > 0 {
		result.Errors = append(result.Errors, transErrs...)
		return nil, nil, fmt.Errorf("%d items failed transformation", len(transErrs))
	}

	issues := transform.ValidateTransformed(items, collections)
	if len(issues) > 0 {
		log.Debug().Str("summary", transform.SummarizeIssues(issues)).Msg("consistency check")
	}
	errs, warnings := bib.SplitIssues(issues)
	result.Warnings = append(result.Warnings, warnings...)
	if len(errs) > 0 {
		result.Errors = append(result.Errors, errs...)
		return nil, nil, fmt.Errorf("data consistency errors: %d", len(errs))
	}

	return items, collections, nil
}

func (o *Orchestrator) siteConfig() site.SiteConfig {
	cfg := o.cfg.Site
	if cfg == (site.SiteConfig{}) {
		cfg = site.DefaultSiteConfig()
	}
	return cfg
}

// validateOutput checks the written files. Problems downgrade to
// warnings: a suspicious build is reported, not discarded.
func (o *Orchestrator) validateOutput(generated []string) []string {
	var warnings []string

	for path, ok := range o.writer.ValidateFiles() {
		if !ok {
			warnings = append(warnings, fmt.Sprintf("invalid json file: %s", path))
		}
	}
	for _, path := range generated {
		if _, err := os.Stat(path); err != nil {
			warnings = append(warnings, fmt.Sprintf("expected file not found: %s", path))
		}
	}
	for path, size := range o.writer.FileSizes() {
		if size == 0 {
			warnings = append(warnings, fmt.Sprintf("empty file generated: %s", path))
		}
	}
	return warnings
}

func (o *Orchestrator) optimizeOutput() []string {
	var warnings []string

	report, err := optimize.New(o.cfg.OutputDir).OptimizeAll()
	if err != nil {
		return append(warnings, fmt.Sprintf("production optimization failed: %v", err))
	}

	if err := site.WriteGitHubPagesConfig(o.cfg.OutputDir); err != nil {
		warnings = append(warnings, fmt.Sprintf("github pages config: %v", err))
	}
	if _, err := site.WriteDeploymentInfo(o.cfg.OutputDir); err != nil {
		warnings = append(warnings, fmt.Sprintf("deployment info: %v", err))
	}
	for _, w := range site.ValidateDeployment(o.cfg.OutputDir) {
		warnings = append(warnings, "deployment: "+w)
	}

	warnings = append(warnings, fmt.Sprintf(
		"production optimization: %d bytes saved (%.1f%% reduction)",
		report.TotalSavings, report.TotalSavingsRatio))
	return warnings
}

// notify invokes the progress callback, containing any panic it raises.
func notify(progress ProgressFunc, percent int, message string) {
	if progress == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Msg("progress callback panicked")
		}
	}()
	progress(percent, message)
}

func (o *Orchestrator) shouldSkip(currentHash string) bool {
	if o.lastInputHash == "" || currentHash == "" || currentHash != o.lastInputHash {
		return false
	}
	for i := len(o.history) - 1; i >= 0; i-- {
		if o.history[i].Success {
			return true
		}
	}
	return false
}

func (o *Orchestrator) lastSuccess() Result {
	for i := len(o.history) - 1; i >= 0; i-- {
		if o.history[i].Success {
			return o.history[i]
		}
	}
	return Result{}
}

// History returns all recorded build results, oldest first.
func (o *Orchestrator) History() []Result {
	out := make([]Result, len(o.history))
	copy(out, o.history)
	return out
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
