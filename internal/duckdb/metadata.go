package duckdb

import (
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a result file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// modTimeKey is the stored form of ModTime.
func (f FileFingerprint) modTimeKey() string {
	if f.ModTime.IsZero() {
		return ""
	}
	return f.ModTime.UTC().Format(time.RFC3339Nano)
}
