package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectInput(t *testing.T) {
	tmpDir := t.TempDir()

	// No candidates at all
	if _, err := detectInput(tmpDir); err == nil {
		t.Error("detectInput() should fail in an empty directory")
	}

	// Glob fallback picks up an arbitrary export
	other := filepath.Join(tmpDir, "export-2024.rdf")
	if err := os.WriteFile(other, []byte("<rdf/>"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := detectInput(tmpDir)
	if err != nil {
		t.Fatalf("detectInput() error = %v", err)
	}
	if got != other {
		t.Errorf("detectInput() = %q, want %q", got, other)
	}

	// Well-known names win over the glob
	library := filepath.Join(tmpDir, "library.rdf")
	if err := os.WriteFile(library, []byte("<rdf/>"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = detectInput(tmpDir)
	if err != nil {
		t.Fatalf("detectInput() error = %v", err)
	}
	if got != library {
		t.Errorf("detectInput() = %q, want %q", got, library)
	}
}

func TestDetectInput_CandidateOrder(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"zotero.rdf", "full.rdf"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("<rdf/>"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := detectInput(tmpDir)
	if err != nil {
		t.Fatalf("detectInput() error = %v", err)
	}
	if want := filepath.Join(tmpDir, "full.rdf"); got != want {
		t.Errorf("detectInput() = %q, want %q (full.rdf precedes zotero.rdf)", got, want)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.bytes); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
