// Package cache persists the built Model to disk so a process restart can
// skip re-ingesting and re-linking the source GeoJSON/CSV files entirely.
// It writes the three files spec.md §6.3 names: metadata.json, a
// zstd-compressed binary blob (klauspost/compress substituting for the
// LZMA default no library in the retrieved corpus implements), and an
// orphaned_segments.json sidecar for offline inspection.
package cache

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/cyrizon/tollroute/internal/domain"
	apperrors "github.com/cyrizon/tollroute/internal/pkg/errors"
)

const (
	metadataFile = "metadata.json"
	blobFile     = "cache_data.bin"
	orphansFile  = "orphaned_segments.json"

	compressionZstd = "zstd"
)

// Orphans is the linker's leftover output, persisted for offline debugging
// only — never read back by the serving path.
type Orphans struct {
	Chains   [][]string `json:"orphan_chains"`
	Segments []string   `json:"orphan_segments"`
}

// Save writes metadata.json, cache_data.bin, and orphaned_segments.json
// under dir, overwriting any existing files.
func Save(dir string, model domain.Model, sourcePaths []string, orphans Orphans, log *zap.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.Internal("cache.Save", fmt.Errorf("create cache dir: %w", err))
	}

	sources := make(map[string]SourceFingerprint, len(sourcePaths))
	for _, p := range sourcePaths {
		fp, err := Fingerprint(p)
		if err != nil {
			return apperrors.Internal("cache.Save", err)
		}
		sources[filepath.Base(p)] = fp
	}

	meta := Metadata{
		Version:     FormatVersion,
		CreatedAt:   time.Now(),
		Compression: compressionZstd,
		Sources:     sources,
		Counts: Counts{
			Booths:        len(model.Booths),
			CompleteRamps: len(model.Ramps),
			Associations:  model.Stats.Associations,
		},
	}

	blob, err := encodeBlob(model)
	if err != nil {
		return apperrors.Internal("cache.Save", err)
	}

	if err := writeJSON(filepath.Join(dir, metadataFile), meta); err != nil {
		return apperrors.Internal("cache.Save", err)
	}
	if err := os.WriteFile(filepath.Join(dir, blobFile), blob, 0o644); err != nil {
		return apperrors.Internal("cache.Save", fmt.Errorf("write blob: %w", err))
	}
	if err := writeJSON(filepath.Join(dir, orphansFile), orphans); err != nil {
		return apperrors.Internal("cache.Save", err)
	}

	log.Info("cache written",
		zap.String("dir", dir),
		zap.Int("booths", meta.Counts.Booths),
		zap.Int("complete_ramps", meta.Counts.CompleteRamps))
	return nil
}

// Load reads a cache directory and returns the Model, or a CacheStale error
// if any source file's fingerprint no longer matches, or a CacheCorrupt
// error if the blob fails to deserialize. Both trigger a rebuild at the
// caller; neither is ever surfaced to a query-time caller.
func Load(dir string, sourcePaths []string, log *zap.Logger) (domain.Model, error) {
	var meta Metadata
	if err := readJSON(filepath.Join(dir, metadataFile), &meta); err != nil {
		return domain.Model{}, apperrors.New(apperrors.KindCacheCorrupt, "cache.Load", "metadata.json unreadable").WithDetails(map[string]any{"error": err.Error()})
	}

	for _, p := range sourcePaths {
		current, err := Fingerprint(p)
		if err != nil {
			return domain.Model{}, apperrors.New(apperrors.KindCacheStale, "cache.Load", "source file missing or unreadable").
				WithDetails(map[string]any{"path": p})
		}
		recorded, ok := meta.Sources[filepath.Base(p)]
		if !ok || !recorded.Matches(current) {
			return domain.Model{}, apperrors.New(apperrors.KindCacheStale, "cache.Load", "source fingerprint mismatch").
				WithDetails(map[string]any{"path": p})
		}
	}

	blob, err := os.ReadFile(filepath.Join(dir, blobFile))
	if err != nil {
		return domain.Model{}, apperrors.New(apperrors.KindCacheCorrupt, "cache.Load", "cache_data.bin unreadable").
			WithDetails(map[string]any{"error": err.Error()})
	}

	model, err := decodeBlob(blob)
	if err != nil {
		return domain.Model{}, apperrors.New(apperrors.KindCacheCorrupt, "cache.Load", "blob deserialization failed").
			WithDetails(map[string]any{"error": err.Error()})
	}

	log.Info("cache loaded", zap.String("dir", dir), zap.Int("booths", len(model.Booths)))
	return model, nil
}

func encodeBlob(model domain.Model) ([]byte, error) {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(model); err != nil {
		return nil, fmt.Errorf("gob encode model: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("new zstd writer: %w", err)
	}
	defer enc.Close()

	return enc.EncodeAll(raw.Bytes(), nil), nil
}

func decodeBlob(blob []byte) (domain.Model, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return domain.Model{}, fmt.Errorf("new zstd reader: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(blob, nil)
	if err != nil {
		return domain.Model{}, fmt.Errorf("zstd decode: %w", err)
	}

	var model domain.Model
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&model); err != nil {
		return domain.Model{}, fmt.Errorf("gob decode model: %w", err)
	}
	return model, nil
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, raw, 0o644)
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return json.Unmarshal(raw, v)
}
