package cmakeapi

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSetupQuery(t *testing.T) {
	buildDir := t.TempDir()

	if err := SetupQuery(buildDir); err != nil {
		t.Fatalf("SetupQuery() error = %v", err)
	}

	queryFile := filepath.Join(buildDir, ".cmake", "api", "v1", "query", "client-cmake-graph", "codemodel-v2")
	info, err := os.Stat(queryFile)
	if err != nil {
		t.Fatalf("Expected query file at %s: %v", queryFile, err)
	}
	if info.Size() != 0 {
		t.Errorf("Expected empty query file, got %d bytes", info.Size())
	}

	// Re-running against an existing query must not fail.
	if err := SetupQuery(buildDir); err != nil {
		t.Errorf("SetupQuery() rerun error = %v", err)
	}
}

func TestReplyDirMissing(t *testing.T) {
	buildDir := t.TempDir()

	_, err := ReplyDir(buildDir)
	var missing *MissingDocumentError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingDocumentError, got %v", err)
	}
	if missing.Kind != "reply" {
		t.Errorf("Expected kind 'reply', got '%s'", missing.Kind)
	}
}

func TestFindIndexPicksLargestName(t *testing.T) {
	replyDir := t.TempDir()

	names := []string{
		"index-2024-01-02T10-00-00-0001.json",
		"index-2024-01-02T11-30-00-0002.json",
		"index-2024-01-01T09-00-00-0003.json",
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(replyDir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// Non-index files in the reply directory must be ignored.
	if err := os.WriteFile(filepath.Join(replyDir, "codemodel-v2-abc.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FindIndex(replyDir)
	if err != nil {
		t.Fatalf("FindIndex() error = %v", err)
	}
	want := filepath.Join(replyDir, "index-2024-01-02T11-30-00-0002.json")
	if got != want {
		t.Errorf("Expected current index '%s', got '%s'", want, got)
	}
}

func TestFindIndexEmpty(t *testing.T) {
	replyDir := t.TempDir()

	_, err := FindIndex(replyDir)
	var missing *MissingDocumentError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingDocumentError, got %v", err)
	}
	if missing.Kind != "index" {
		t.Errorf("Expected kind 'index', got '%s'", missing.Kind)
	}
}
