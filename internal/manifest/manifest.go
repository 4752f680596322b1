// Package manifest models the JSON release manifests published for
// redistributed runtimes and implements the operations performed on
// them: loading, filtering, merging, and targeted updates.
//
// A manifest is a JSON array of entries, one per released version,
// each carrying the downloadable files for the architectures the
// distribution supports. A missing manifest file is treated as an
// empty manifest so that first-run workflows need no special casing.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Custom error types for better error handling
var (
	// ErrNoMatch indicates no manifest entry satisfied the filter
	ErrNoMatch = errors.New("no matching versions")

	// ErrInvalidManifest indicates the manifest file could not be parsed
	ErrInvalidManifest = errors.New("invalid manifest")
)

// ErrManifestIO wraps a filesystem or decoding failure with the path
// and operation that produced it.
type ErrManifestIO struct {
	Op   string
	Path string
	Err  error
}

func (e ErrManifestIO) Error() string {
	return fmt.Sprintf("manifest %s %s: %v", e.Op, e.Path, e.Err)
}

func (e ErrManifestIO) Unwrap() error {
	return e.Err
}

// FileEntry is one downloadable artifact within a manifest entry.
// PlatformVersion is a pointer so that entries without one serialize
// as an explicit null, matching the published manifest layout.
type FileEntry struct {
	Filename        string  `json:"filename"`
	Arch            string  `json:"arch"`
	Platform        string  `json:"platform"`
	PlatformVersion *string `json:"platform_version"`
	DownloadURL     string  `json:"download_url"`
}

// Entry is a single released version in a manifest.
type Entry struct {
	Version    string      `json:"version"`
	Stable     bool        `json:"stable"`
	ReleaseURL string      `json:"release_url"`
	Files      []FileEntry `json:"files"`
}

// Load reads a manifest file. A missing file yields an empty
// manifest, not an error.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, ErrManifestIO{Op: "read", Path: path, Err: err}
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, ErrManifestIO{Op: "parse", Path: path, Err: fmt.Errorf("%w: %v", ErrInvalidManifest, err)}
	}
	return entries, nil
}

// Save writes a manifest file with two-space indentation and a
// trailing newline, creating parent directories as needed. A nil
// slice is written as an empty JSON array.
func Save(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return ErrManifestIO{Op: "encode", Path: path, Err: err}
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ErrManifestIO{Op: "mkdir", Path: path, Err: err}
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ErrManifestIO{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Merge combines an existing manifest with incoming entries. Entries
// are matched by version; files within a matched entry are deduplicated
// by filename, with the existing file winning. Input order is
// preserved: existing entries first, then new versions in their
// incoming order. Merging a manifest with itself is a no-op.
func Merge(existing, incoming []Entry) []Entry {
	merged := make([]Entry, 0, len(existing)+len(incoming))
	index := make(map[string]int, len(existing))

	for _, e := range existing {
		index[e.Version] = len(merged)
		merged = append(merged, e)
	}

	for _, in := range incoming {
		i, ok := index[in.Version]
		if !ok {
			index[in.Version] = len(merged)
			merged = append(merged, in)
			continue
		}

		seen := make(map[string]struct{}, len(merged[i].Files))
		for _, f := range merged[i].Files {
			seen[f.Filename] = struct{}{}
		}
		for _, f := range in.Files {
			if _, dup := seen[f.Filename]; dup {
				continue
			}
			seen[f.Filename] = struct{}{}
			merged[i].Files = append(merged[i].Files, f)
		}
	}

	return merged
}

// releaseURLFromDownload derives the release page URL from an asset
// download URL, e.g. .../releases/download/v3.13.3/x.tar.gz becomes
// .../releases/tag/v3.13.3.
func releaseURLFromDownload(downloadURL string) string {
	const marker = "/releases/download/"
	i := strings.Index(downloadURL, marker)
	if i < 0 {
		return ""
	}
	rest := downloadURL[i+len(marker):]
	tag, _, ok := strings.Cut(rest, "/")
	if !ok {
		return ""
	}
	return downloadURL[:i] + "/releases/tag/" + tag
}
