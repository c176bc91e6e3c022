package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteRecordsRoundTrip(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	records := []map[string]interface{}{
		{"id": "7123", "text": "first post", "diggCount": float64(42)},
		{"id": "7124", "text": "second post", "diggCount": float64(7)},
	}

	path := filepath.Join(tempDir, "results.json")
	if err := manager.WriteRecords(path, records, true); err != nil {
		t.Fatalf("Failed to write records: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read result file: %v", err)
	}

	var got []map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Result file is not valid JSON: %v", err)
	}

	if len(got) != len(records) {
		t.Fatalf("Expected %d records, got %d", len(records), len(got))
	}
	for i := range records {
		if got[i]["id"] != records[i]["id"] {
			t.Errorf("Record %d: expected id %v, got %v", i, records[i]["id"], got[i]["id"])
		}
		if got[i]["text"] != records[i]["text"] {
			t.Errorf("Record %d: expected text %v, got %v", i, records[i]["text"], got[i]["text"])
		}
		if got[i]["diggCount"] != records[i]["diggCount"] {
			t.Errorf("Record %d: expected diggCount %v, got %v", i, records[i]["diggCount"], got[i]["diggCount"])
		}
	}
}

func TestWriteRecordsEmptyArray(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	path := filepath.Join(tempDir, "empty.json")

	// A nil slice must still produce a valid empty array, never null
	if err := manager.WriteRecords(path, nil, false); err != nil {
		t.Fatalf("Failed to write empty records: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read result file: %v", err)
	}

	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("Expected empty array, got %q", string(data))
	}
}

func TestWriteRecordsLeavesNoTempFile(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	path := filepath.Join(tempDir, "results.json")
	records := []map[string]interface{}{{"id": "1"}}

	if err := manager.WriteRecords(path, records, true); err != nil {
		t.Fatalf("Failed to write records: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Expected temporary file to be cleaned up after write")
	}
}

func TestWriteRecordsFailureLeavesNoFile(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	path := filepath.Join(tempDir, "broken.json")

	// Channels cannot be encoded as JSON, forcing the encode step to fail
	records := []map[string]interface{}{{"bad": make(chan int)}}

	if err := manager.WriteRecords(path, records, true); err == nil {
		t.Fatal("Expected write to fail for unencodable records")
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected no result file after a failed write")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Expected no temporary file after a failed write")
	}
}

func TestWriteRecordsDoesNotEscapeHTML(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	path := filepath.Join(tempDir, "urls.json")
	records := []map[string]interface{}{
		{"webVideoUrl": "https://www.tiktok.com/@user/video/7123?lang=en&ref=share"},
	}

	if err := manager.WriteRecords(path, records, false); err != nil {
		t.Fatalf("Failed to write records: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read result file: %v", err)
	}

	if strings.Contains(string(data), `\u0026`) {
		t.Error("Expected ampersands to stay literal, not escaped")
	}
	if !strings.Contains(string(data), "&ref=share") {
		t.Error("Expected URL query string to survive encoding unchanged")
	}
}

func TestWriteRecordsCreatesNestedDirectory(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	path := filepath.Join(tempDir, "nested", "deeper", "results.json")
	if err := manager.WriteRecords(path, []map[string]interface{}{{"id": "1"}}, true); err != nil {
		t.Fatalf("Failed to write into nested directory: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected result file to exist: %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	now := time.Date(2025, 1, 14, 15, 30, 45, 0, time.UTC)

	// Default: timestamped file inside the output directory
	got := manager.ResolvePath("", now)
	want := filepath.Join(tempDir, "tiktok_20250114_153045.json")
	if got != want {
		t.Errorf("Expected default path %q, got %q", want, got)
	}

	// Relative explicit path resolves against the output directory
	got = manager.ResolvePath("custom.json", now)
	want = filepath.Join(tempDir, "custom.json")
	if got != want {
		t.Errorf("Expected relative path %q, got %q", want, got)
	}

	// Absolute explicit path is used as given
	abs := filepath.Join(t.TempDir(), "elsewhere.json")
	got = manager.ResolvePath(abs, now)
	if got != abs {
		t.Errorf("Expected absolute path %q, got %q", abs, got)
	}
}

func TestDefaultFilename(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 5, 3, 0, time.UTC)
	got := DefaultFilename(now)
	if got != "tiktok_20250602_090503.json" {
		t.Errorf("Unexpected default filename: %q", got)
	}
}

func TestNewManagerCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	outputDir := filepath.Join(tempDir, "does", "not", "exist")

	if _, err := NewManager(outputDir); err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	info, err := os.Stat(outputDir)
	if err != nil {
		t.Fatalf("Expected output directory to be created: %v", err)
	}
	if !info.IsDir() {
		t.Error("Expected output path to be a directory")
	}
}
