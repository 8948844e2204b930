package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"
)

// FormatVersion is bumped whenever the binary blob's encoding changes
// incompatibly.
const FormatVersion = 1

// SourceFingerprint is one source file's identity at cache-build time.
type SourceFingerprint struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mtime"`
	SHA256  string    `json:"sha256"`
}

// Counts summarizes the built Model for quick inspection of metadata.json
// without decompressing the blob.
type Counts struct {
	Booths        int `json:"booths"`
	CompleteRamps int `json:"complete_ramps"`
	RampSegments  int `json:"ramp_segments"`
	Associations  int `json:"associations"`
}

// Metadata is the full contents of metadata.json.
type Metadata struct {
	Version     int                          `json:"version"`
	CreatedAt   time.Time                    `json:"created_at"`
	Compression string                       `json:"compression"`
	Sources     map[string]SourceFingerprint `json:"sources"`
	Counts      Counts                       `json:"counts"`
}

// Fingerprint hashes and stats a source file for metadata.json and for
// later staleness checks.
func Fingerprint(path string) (SourceFingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return SourceFingerprint{}, fmt.Errorf("cache: fingerprint %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return SourceFingerprint{}, fmt.Errorf("cache: stat %s: %w", path, err)
	}

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return SourceFingerprint{}, fmt.Errorf("cache: hash %s: %w", path, err)
	}

	return SourceFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		SHA256:  hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// Matches reports whether a freshly computed fingerprint matches the one
// recorded in metadata — the §4.4 staleness test.
func (s SourceFingerprint) Matches(current SourceFingerprint) bool {
	return s.Size == current.Size && s.ModTime.Equal(current.ModTime) && s.SHA256 == current.SHA256
}
