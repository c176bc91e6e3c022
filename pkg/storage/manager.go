package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const defaultFilePrefix = "tiktok"

// Manager handles result file storage operations
type Manager struct {
	outputDir string
}

// NewManager creates a new storage manager
func NewManager(outputDir string) (*Manager, error) {
	if outputDir == "" {
		outputDir = "."
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{outputDir: outputDir}, nil
}

// DefaultFilename returns the timestamped filename used when no explicit
// output path is given, e.g. "tiktok_20250114_153045.json".
func DefaultFilename(now time.Time) string {
	return fmt.Sprintf("%s_%s.json", defaultFilePrefix, now.Format("20060102_150405"))
}

// ResolvePath resolves the final output path for a result file. An explicit
// path is used as given (relative paths resolve against the output
// directory); otherwise a timestamped default inside the output directory
// is generated.
func (m *Manager) ResolvePath(explicit string, now time.Time) string {
	if explicit == "" {
		return filepath.Join(m.outputDir, DefaultFilename(now))
	}
	if filepath.IsAbs(explicit) {
		return explicit
	}
	return filepath.Join(m.outputDir, explicit)
}

// WriteRecords writes the records to path as a JSON array. An empty or nil
// slice produces a file containing an empty array, never null. The write
// goes through a temporary file and a rename, so the target path either
// holds the complete document or does not exist.
func (m *Manager) WriteRecords(path string, records []map[string]interface{}, pretty bool) error {
	if records == nil {
		records = []map[string]interface{}{}
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary result file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(records); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode results: %w", err)
	}

	// Ensure data is written to disk
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync result file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close result file: %w", err)
	}

	// Atomically replace any previous result file
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temporary result file: %w", err)
	}

	return nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}
