package extract

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTextReadsPlainFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("plain content"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Text(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "plain content" {
		t.Fatalf("expected file content, got %q", got)
	}
}

func TestTextMissingFile(t *testing.T) {
	if _, err := Text(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestTextDispatchesPDFByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.PDF")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Text(path); err == nil {
		t.Fatal("expected the PDF reader to reject a non-PDF file")
	}
}
