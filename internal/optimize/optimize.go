// Package optimize shrinks generated site output for production hosting:
// regex-based minification of CSS, JavaScript, and HTML, whitespace
// removal from JSON data files, and precompressed .gz siblings for hosts
// that serve them directly.
package optimize

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	cssComment    = regexp.MustCompile(`(?s)/\*.*?\*/`)
	cssWhitespace = regexp.MustCompile(`\s+`)
	cssSeparators = regexp.MustCompile(`\s*([{}:;,>+~])\s*`)
	cssLastSemi   = regexp.MustCompile(`;\s*}`)

	// A line comment starts at the beginning of a line or after any rune
	// other than ':', which keeps protocol separators like https:// intact.
	jsLineComment  = regexp.MustCompile(`(^|[^:])//[^\n]*`)
	jsBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	jsWhitespace   = regexp.MustCompile(`\s+`)
	jsOperators    = regexp.MustCompile(`\s*([=+\-*/<>!&|{}();,])\s*`)

	htmlComment  = regexp.MustCompile(`(?s)<!--.*?-->`)
	htmlTagSpace = regexp.MustCompile(`>\s+<`)
)

// FileDetail records before and after sizes for one optimized file.
type FileDetail struct {
	OriginalSize  int64   `json:"originalSize"`
	OptimizedSize int64   `json:"optimizedSize"`
	SavingsRatio  float64 `json:"savingsRatio"`
}

// Report summarizes an optimization run.
type Report struct {
	TotalOriginalSize  int64                 `json:"totalOriginalSize"`
	TotalOptimizedSize int64                 `json:"totalOptimizedSize"`
	TotalSavings       int64                 `json:"totalSavings"`
	TotalSavingsRatio  float64               `json:"totalSavingsRatio"`
	Files              map[string]FileDetail `json:"files"`
}

// Optimizer rewrites files under an output directory in place.
type Optimizer struct {
	outputDir string
	files     map[string]FileDetail
}

// New returns an optimizer for outputDir.
func New(outputDir string) *Optimizer {
	return &Optimizer{
		outputDir: outputDir,
		files:     make(map[string]FileDetail),
	}
}

// OptimizeAll minifies every CSS, JavaScript, HTML, and data JSON file in
// the output directory, writes .gz siblings, and returns the report.
func (o *Optimizer) OptimizeAll() (*Report, error) {
	type pass struct {
		pattern string
		minify  func(string) (string, error)
	}
	passes := []pass{
		{"*.css", func(s string) (string, error) { return MinifyCSS(s), nil }},
		{"*.js", func(s string) (string, error) { return MinifyJS(s), nil }},
		{filepath.Join("data", "*.json"), CompactJSON},
		{"*.html", func(s string) (string, error) { return MinifyHTML(s), nil }},
	}

	for _, p := range passes {
		matches, err := filepath.Glob(filepath.Join(o.outputDir, p.pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", p.pattern, err)
		}
		for _, path := range matches {
			if err := o.optimizeFile(path, p.minify); err != nil {
				return nil, err
			}
		}
	}

	if err := o.writeCompressed(); err != nil {
		return nil, err
	}

	report := o.report()
	log.Info().
		Int64("original_bytes", report.TotalOriginalSize).
		Int64("optimized_bytes", report.TotalOptimizedSize).
		Float64("savings_pct", report.TotalSavingsRatio).
		Msg("production optimization complete")
	return report, nil
}

func (o *Optimizer) optimizeFile(path string, minify func(string) (string, error)) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	minified, err := minify(string(data))
	if err != nil {
		return fmt.Errorf("minify %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(minified), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	rel, relErr := filepath.Rel(o.outputDir, path)
	if relErr != nil {
		rel = path
	}
	original := int64(len(data))
	optimized := int64(len(minified))
	detail := FileDetail{OriginalSize: original, OptimizedSize: optimized}
	if original > 0 {
		detail.SavingsRatio = float64(original-optimized) / float64(original) * 100
	}
	o.files[filepath.ToSlash(rel)] = detail

	log.Debug().Str("file", rel).Int64("before", original).Int64("after", optimized).Msg("minified")
	return nil
}

// writeCompressed creates a .gz sibling for every compressible file.
func (o *Optimizer) writeCompressed() error {
	return filepath.WalkDir(o.outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		switch filepath.Ext(path) {
		case ".html", ".css", ".js", ".json":
		default:
			return nil
		}
		return gzipFile(path)
	})
}

func gzipFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	out, err := os.Create(path + ".gz")
	if err != nil {
		return fmt.Errorf("create %s.gz: %w", path, err)
	}
	zw, err := gzip.NewWriterLevel(out, gzip.BestCompression)
	if err != nil {
		out.Close()
		return err
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		out.Close()
		return fmt.Errorf("compress %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("compress %s: %w", path, err)
	}
	return out.Close()
}

func (o *Optimizer) report() *Report {
	report := &Report{Files: o.files}
	for _, detail := range o.files {
		report.TotalOriginalSize += detail.OriginalSize
		report.TotalOptimizedSize += detail.OptimizedSize
	}
	report.TotalSavings = report.TotalOriginalSize - report.TotalOptimizedSize
	if report.TotalOriginalSize > 0 {
		report.TotalSavingsRatio = float64(report.TotalSavings) / float64(report.TotalOriginalSize) * 100
	}
	return report
}

// MinifyCSS strips comments and collapses whitespace in a stylesheet.
func MinifyCSS(content string) string {
	content = cssComment.ReplaceAllString(content, "")
	content = cssWhitespace.ReplaceAllString(content, " ")
	content = cssSeparators.ReplaceAllString(content, "$1")
	content = cssLastSemi.ReplaceAllString(content, "}")
	return strings.TrimSpace(content)
}

// MinifyJS strips comments and squeezes whitespace line by line. It is a
// conservative text transform, not a parser; string literals containing
// comment-like sequences other than URLs may be altered.
func MinifyJS(content string) string {
	content = jsLineComment.ReplaceAllString(content, "$1")
	content = jsBlockComment.ReplaceAllString(content, "")

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = jsWhitespace.ReplaceAllString(line, " ")
		line = jsOperators.ReplaceAllString(line, "$1")
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// MinifyHTML removes comments and inter-tag whitespace. Conditional
// comments (<!--[if ...]) survive for old-IE compatibility shims.
func MinifyHTML(content string) string {
	content = htmlComment.ReplaceAllStringFunc(content, func(m string) string {
		if strings.HasPrefix(m, "<!--[if") {
			return m
		}
		return ""
	})
	content = htmlTagSpace.ReplaceAllString(content, "><")

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// CompactJSON re-marshals a JSON document without indentation.
func CompactJSON(content string) (string, error) {
	var doc any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return "", err
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
