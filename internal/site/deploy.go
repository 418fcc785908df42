package site

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// largeDeployFileBytes is the size above which a file earns a deployment
// warning; browsers will still load it, slowly.
const largeDeployFileBytes = 10 << 20

// DeploymentFile describes one file in the deployment manifest.
type DeploymentFile struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// DeploymentInfo is the manifest written alongside the site for static
// hosts and deploy scripts.
type DeploymentInfo struct {
	BuildTimestamp time.Time        `json:"buildTimestamp"`
	Files          []DeploymentFile `json:"files"`
	TotalSize      int64            `json:"totalSize"`
}

// WriteGitHubPagesConfig drops a .nojekyll marker so GitHub Pages serves
// the output verbatim instead of running it through Jekyll.
func WriteGitHubPagesConfig(outputDir string) error {
	path := filepath.Join(outputDir, ".nojekyll")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		return fmt.Errorf("write .nojekyll: %w", err)
	}
	return nil
}

// WriteDeploymentInfo walks the output directory and writes
// deployment-info.json. Dotfiles and the manifest itself are excluded.
func WriteDeploymentInfo(outputDir string) (*DeploymentInfo, error) {
	info := &DeploymentInfo{BuildTimestamp: time.Now()}

	err := filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") || name == "deployment-info.json" {
			return nil
		}
		rel, err := filepath.Rel(outputDir, path)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}

		fileType := strings.TrimPrefix(filepath.Ext(name), ".")
		if fileType == "" {
			fileType = "unknown"
		}
		info.Files = append(info.Files, DeploymentFile{
			Path: filepath.ToSlash(rel),
			Size: fi.Size(),
			Type: fileType,
		})
		info.TotalSize += fi.Size()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan output dir: %w", err)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal deployment info: %w", err)
	}
	path := filepath.Join(outputDir, "deployment-info.json")
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return nil, fmt.Errorf("write deployment info: %w", err)
	}

	log.Info().Int("files", len(info.Files)).Int64("bytes", info.TotalSize).Msg("deployment info written")
	return info, nil
}

// ValidateDeployment checks the output directory for the files a static
// host needs. Problems come back as warnings; a partially deployable site
// is still a site.
func ValidateDeployment(outputDir string) []string {
	var warnings []string

	for _, required := range []string{"index.html", "styles.css", "app.js"} {
		if _, err := os.Stat(filepath.Join(outputDir, required)); err != nil {
			warnings = append(warnings, fmt.Sprintf("missing required file: %s", required))
		}
	}

	dataDir := filepath.Join(outputDir, "data")
	if _, err := os.Stat(dataDir); err != nil {
		warnings = append(warnings, "missing data directory")
	} else {
		jsonFiles, _ := filepath.Glob(filepath.Join(dataDir, "*.json"))
		if len(jsonFiles) == 0 {
			warnings = append(warnings, "no JSON data files found in data directory")
		}
	}

	filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if fi, err := d.Info(); err == nil && fi.Size() > largeDeployFileBytes {
			warnings = append(warnings, fmt.Sprintf("large file: %s (%.1fMB)", d.Name(), float64(fi.Size())/(1<<20)))
		}
		return nil
	})

	return warnings
}
