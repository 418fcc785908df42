// Package site generates the static web interface: index.html rendered
// from a template, the stylesheet, the frontend script, and any extra
// assets. A template directory on disk overrides the embedded defaults
// file by file, so a project can customize one asset without forking the
// rest.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

//go:embed templates
var embedded embed.FS

// fallbackTemplate is parsed at init time to fail fast on template errors.
var fallbackTemplate *template.Template

func init() {
	fallbackTemplate = template.Must(template.ParseFS(embedded, "templates/index.html.tmpl"))
}

// SiteConfig holds the values rendered into the page shell.
type SiteConfig struct {
	Title           string `json:"title" yaml:"title"`
	CollectionTitle string `json:"collectionTitle" yaml:"collection_title"`
	Description     string `json:"description" yaml:"description"`
	Author          string `json:"author,omitempty" yaml:"author"`
	BaseURL         string `json:"baseUrl,omitempty" yaml:"base_url"`
	Theme           string `json:"theme" yaml:"theme"`
}

// DefaultSiteConfig returns the config used when a project supplies none.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		Title:           "Literature Collection Webviewer",
		CollectionTitle: "Literature Collection",
		Description:     "Interactive browser for academic literature collections exported from Zotero",
		Theme:           "default",
	}
}

// Generator writes the static site into an output directory.
type Generator struct {
	outputDir   string
	templateDir string
}

// NewGenerator returns a generator writing to outputDir. templateDir may
// be empty or missing; embedded defaults cover every file it omits.
func NewGenerator(outputDir, templateDir string) *Generator {
	return &Generator{outputDir: outputDir, templateDir: templateDir}
}

// Generate renders index.html and writes styles.css, app.js, and any
// assets. It returns the paths of all files written.
func (g *Generator) Generate(cfg SiteConfig) ([]string, error) {
	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var generated []string

	htmlPath, err := g.generateHTML(cfg)
	if err != nil {
		return generated, err
	}
	generated = append(generated, htmlPath)

	for _, name := range []string{"styles.css", "app.js"} {
		path, err := g.copyTemplate(name)
		if err != nil {
			return generated, err
		}
		generated = append(generated, path)
	}

	assets, err := g.copyAssets()
	if err != nil {
		// Assets are auxiliary; a failed copy degrades the site but does
		// not invalidate it.
		log.Warn().Err(err).Msg("asset copy incomplete")
	}
	generated = append(generated, assets...)

	log.Info().Int("files", len(generated)).Str("dir", g.outputDir).Msg("static site generated")
	return generated, nil
}

func (g *Generator) generateHTML(cfg SiteConfig) (string, error) {
	tmpl := fallbackTemplate
	if g.templateDir != "" {
		custom := filepath.Join(g.templateDir, "index.html.tmpl")
		if _, err := os.Stat(custom); err == nil {
			parsed, err := template.ParseFiles(custom)
			if err != nil {
				return "", fmt.Errorf("parse template %s: %w", custom, err)
			}
			tmpl = parsed
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return "", fmt.Errorf("render index.html: %w", err)
	}

	outPath := filepath.Join(g.outputDir, "index.html")
	if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write index.html: %w", err)
	}
	return outPath, nil
}

// copyTemplate writes one static asset, preferring the template directory
// copy over the embedded one.
func (g *Generator) copyTemplate(name string) (string, error) {
	outPath := filepath.Join(g.outputDir, name)

	if g.templateDir != "" {
		custom := filepath.Join(g.templateDir, name)
		if data, err := os.ReadFile(custom); err == nil {
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return "", fmt.Errorf("write %s: %w", name, err)
			}
			return outPath, nil
		}
	}

	data, err := embedded.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("embedded %s: %w", name, err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return outPath, nil
}

// copyAssets mirrors templateDir/assets into outputDir/assets.
func (g *Generator) copyAssets() ([]string, error) {
	if g.templateDir == "" {
		return nil, nil
	}
	srcDir := filepath.Join(g.templateDir, "assets")
	if _, err := os.Stat(srcDir); err != nil {
		return nil, nil
	}

	var copied []string
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(g.outputDir, "assets", rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		if err := copyFile(path, dst); err != nil {
			return err
		}
		copied = append(copied, dst)
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("copy assets: %w", err)
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
