// Package storage persists scrape results as JSON files on disk.
//
// The storage package handles:
//   - Creating and managing output directories
//   - Writing result files with atomic write operations
//   - Generating timestamped default filenames
//
// The Manager type is the primary interface for storage operations. Result
// files are written through a temporary file followed by a rename, so a
// failed or interrupted write never leaves a partial result file behind.
//
// Usage:
//
//	manager, err := storage.NewManager("output_directory")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	path := manager.ResolvePath("", time.Now())
//	err = manager.WriteRecords(path, records, true)
//	if err != nil {
//	    log.Printf("Failed to write results: %v", err)
//	}
package storage
