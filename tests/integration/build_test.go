// Package integration provides integration tests for the lw CLI.
package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

var (
	lwBinary     string
	lwBinaryOnce sync.Once
	lwBinaryErr  error
)

// getLWBinary builds the lw binary once and returns its path.
func getLWBinary(t *testing.T) string {
	t.Helper()
	lwBinaryOnce.Do(func() {
		// Get module root directory
		_, filename, _, ok := runtime.Caller(0)
		if !ok {
			lwBinaryErr = os.ErrInvalid
			return
		}
		moduleRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))

		// Build lw to a temp location
		tmpDir, err := os.MkdirTemp("", "lw-test-*")
		if err != nil {
			lwBinaryErr = err
			return
		}
		lwBinary = filepath.Join(tmpDir, "lw")

		cmd := exec.Command("go", "build", "-o", lwBinary, "./cmd/lw")
		cmd.Dir = moduleRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			lwBinaryErr = &buildError{output: string(output), err: err}
			return
		}
	})
	if lwBinaryErr != nil {
		t.Fatalf("failed to build lw: %v", lwBinaryErr)
	}
	return lwBinary
}

type buildError struct {
	output string
	err    error
}

func (e *buildError) Error() string {
	return e.err.Error() + ": " + e.output
}

const fixtureRDF = `<?xml version="1.0" encoding="UTF-8"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:z="http://www.zotero.org/namespaces/export#"
         xmlns:bib="http://purl.org/net/biblio#"
         xmlns:dc="http://purl.org/dc/elements/1.1/"
         xmlns:dcterms="http://purl.org/dc/terms/"
         xmlns:foaf="http://xmlns.com/foaf/0.1/">
  <bib:Article rdf:about="#item_1">
    <dc:title>Optimal Transport: Old and New</dc:title>
    <dc:date>2008-06-01</dc:date>
    <dcterms:abstract>A survey of optimal transport theory.</dcterms:abstract>
    <bib:authors>
      <rdf:Seq>
        <rdf:li>
          <foaf:Person>
            <foaf:givenName>Cedric</foaf:givenName>
            <foaf:surname>Villani</foaf:surname>
          </foaf:Person>
        </rdf:li>
      </rdf:Seq>
    </bib:authors>
    <dcterms:isPartOf>
      <bib:Journal><dc:title>Grundlehren der mathematischen Wissenschaften</dc:title></bib:Journal>
    </dcterms:isPartOf>
    <dc:subject>optimal transport</dc:subject>
  </bib:Article>
  <bib:Book rdf:about="#item_2">
    <dc:title>A Treatise on Probability</dc:title>
    <dc:date>1921</dc:date>
    <bib:authors>
      <rdf:Seq>
        <rdf:li>
          <foaf:Person>
            <foaf:givenName>John Maynard</foaf:givenName>
            <foaf:surname>Keynes</foaf:surname>
          </foaf:Person>
        </rdf:li>
      </rdf:Seq>
    </bib:authors>
  </bib:Book>
  <z:Collection rdf:about="#collection_1">
    <dc:title>Mathematics</dc:title>
    <dcterms:hasPart rdf:resource="#item_1"/>
    <dcterms:hasPart rdf:resource="#item_2"/>
  </z:Collection>
</rdf:RDF>
`

// setupProject writes the fixture export into a fresh directory.
func setupProject(t *testing.T) (dir, input string) {
	t.Helper()
	dir = t.TempDir()
	input = filepath.Join(dir, "library.rdf")
	if err := os.WriteFile(input, []byte(fixtureRDF), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, input
}

// runLW runs the binary with args in dir and returns stdout.
func runLW(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getLWBinary(t), args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	return string(out), err
}

func TestBuildCommand(t *testing.T) {
	dir, input := setupProject(t)
	outDir := filepath.Join(dir, "site")

	out, err := runLW(t, dir, "build", "-i", input, "-o", outDir)
	if err != nil {
		t.Fatalf("lw build failed: %v\n%s", err, out)
	}

	var resp struct {
		Success         bool `json:"success"`
		ItemCount       int  `json:"itemCount"`
		CollectionCount int  `json:"collectionCount"`
		SearchIndexed   int  `json:"searchIndexed"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("build output is not JSON: %v\n%s", err, out)
	}
	if !resp.Success {
		t.Error("Success = false")
	}
	if resp.ItemCount != 2 {
		t.Errorf("ItemCount = %d, want 2", resp.ItemCount)
	}
	if resp.CollectionCount != 1 {
		t.Errorf("CollectionCount = %d, want 1", resp.CollectionCount)
	}
	if resp.SearchIndexed != 2 {
		t.Errorf("SearchIndexed = %d, want 2", resp.SearchIndexed)
	}

	for _, name := range []string{
		"index.html", "styles.css", "app.js", "search.db",
		filepath.Join("data", "bibliography.json"),
		filepath.Join("data", "collections.json"),
		filepath.Join("data", "search_index.json"),
	} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing output file %s", name)
		}
	}
}

func TestSearchCommand(t *testing.T) {
	dir, input := setupProject(t)
	outDir := filepath.Join(dir, "site")

	if out, err := runLW(t, dir, "build", "-i", input, "-o", outDir); err != nil {
		t.Fatalf("lw build failed: %v\n%s", err, out)
	}

	out, err := runLW(t, dir, "search", "Keynes", "-o", outDir)
	if err != nil {
		t.Fatalf("lw search failed: %v\n%s", err, out)
	}

	var resp struct {
		Total   int `json:"total"`
		Results []struct {
			Title string `json:"title"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("search output is not JSON: %v\n%s", err, out)
	}
	if resp.Total != 1 {
		t.Fatalf("Total = %d, want 1", resp.Total)
	}
	if resp.Results[0].Title != "A Treatise on Probability" {
		t.Errorf("Title = %q", resp.Results[0].Title)
	}
}

func TestValidateCommand(t *testing.T) {
	dir, input := setupProject(t)

	out, err := runLW(t, dir, "validate", "-i", input)
	if err != nil {
		t.Fatalf("lw validate failed: %v\n%s", err, out)
	}

	var resp struct {
		Valid bool `json:"valid"`
		Items int  `json:"items"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("validate output is not JSON: %v\n%s", err, out)
	}
	if !resp.Valid || resp.Items != 2 {
		t.Errorf("valid = %v, items = %d", resp.Valid, resp.Items)
	}
}

func TestValidateCommand_MissingInput(t *testing.T) {
	dir := t.TempDir()

	_, err := runLW(t, dir, "validate", "-i", filepath.Join(dir, "nope.rdf"))
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected exit error, got %v", err)
	}
	if code := exitErr.ExitCode(); code != 5 {
		t.Errorf("exit code = %d, want 5 (not found)", code)
	}
}

func TestCleanCommand(t *testing.T) {
	dir, input := setupProject(t)
	outDir := filepath.Join(dir, "site")

	if out, err := runLW(t, dir, "build", "-i", input, "-o", outDir); err != nil {
		t.Fatalf("lw build failed: %v\n%s", err, out)
	}

	if out, err := runLW(t, dir, "clean", "-o", outDir); err != nil {
		t.Fatalf("lw clean failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Error("output directory should be gone after clean")
	}
}

func TestCleanCommand_RefusesUnrecognized(t *testing.T) {
	dir, input := setupProject(t)
	outDir := filepath.Join(dir, "site")

	if out, err := runLW(t, dir, "build", "-i", input, "-o", outDir); err != nil {
		t.Fatalf("lw build failed: %v\n%s", err, out)
	}
	if err := os.WriteFile(filepath.Join(outDir, "precious.txt"), []byte("keep me"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := runLW(t, dir, "clean", "-o", outDir); err == nil {
		t.Fatal("clean should refuse a directory with unrecognized entries")
	}
	if _, err := os.Stat(filepath.Join(outDir, "index.html")); err != nil {
		t.Error("refused clean must not delete anything")
	}
}

func TestInfoCommand(t *testing.T) {
	dir, input := setupProject(t)
	outDir := filepath.Join(dir, "site")

	if out, err := runLW(t, dir, "build", "-i", input, "-o", outDir); err != nil {
		t.Fatalf("lw build failed: %v\n%s", err, out)
	}

	out, err := runLW(t, dir, "info", "-o", outDir)
	if err != nil {
		t.Fatalf("lw info failed: %v\n%s", err, out)
	}

	var resp struct {
		Items         int `json:"items"`
		SearchIndexed int `json:"search_indexed"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("info output is not JSON: %v\n%s", err, out)
	}
	if resp.Items != 2 || resp.SearchIndexed != 2 {
		t.Errorf("items = %d, search_indexed = %d, want 2/2", resp.Items, resp.SearchIndexed)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir, _ := setupProject(t)

	if out, err := runLW(t, dir, "config", "init"); err != nil {
		t.Fatalf("lw config init failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(dir, ".litweb", "config.json")); err != nil {
		t.Error("config init should create .litweb/config.json")
	}
	if _, err := os.Stat(filepath.Join(dir, "site.yaml")); err != nil {
		t.Error("config init should create site.yaml")
	}

	out, err := runLW(t, dir, "config", "show")
	if err != nil {
		t.Fatalf("lw config show failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "library.rdf") {
		t.Errorf("config show should include the detected input:\n%s", out)
	}
}

func TestBuildCommand_DataOnly(t *testing.T) {
	dir, input := setupProject(t)
	outDir := filepath.Join(dir, "site")

	if out, err := runLW(t, dir, "build", "-i", input, "-o", outDir, "--data-only"); err != nil {
		t.Fatalf("lw build failed: %v\n%s", err, out)
	}

	if _, err := os.Stat(filepath.Join(outDir, "index.html")); !os.IsNotExist(err) {
		t.Error("data-only build should not write index.html")
	}
	if _, err := os.Stat(filepath.Join(outDir, "data", "bibliography.json")); err != nil {
		t.Error("data-only build should write data files")
	}
}
