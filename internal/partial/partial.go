// Package partial builds per-architecture partial manifests from
// release assets and assembles them into published manifest files.
//
// CI jobs on each architecture upload their artifacts independently;
// a partial manifest records what one job produced so the entries can
// later be reconciled into the per-version manifests without the jobs
// coordinating with each other.
package partial

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/clean-dependency-project/manifestctl/internal/tags"
)

const archiveSuffix = ".tar.gz"

// knownPrefixes are the artifact name prefixes produced by the build
// jobs.
var knownPrefixes = []string{"cpython-", "python-"}

// skipMarkers flags assets that are build by-products rather than
// distributable archives, such as scan reports.
var skipMarkers = []string{"trivy"}

// Record is one row of a partial manifest file: a flat JSON object
// describing a single artifact. Part files are a JSON array of these,
// unlike published manifests, which group files under a version.
type Record struct {
	Version         string  `json:"version"`
	Filename        string  `json:"filename"`
	Arch            string  `json:"arch"`
	Platform        string  `json:"platform"`
	PlatformVersion *string `json:"platform_version"`
	DownloadURL     string  `json:"download_url"`
}

// SaveRecords writes a partial manifest file with two-space
// indentation and a trailing newline, creating parent directories as
// needed.
func SaveRecords(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode partial manifest %s: %w", path, err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write partial manifest %s: %w", path, err)
	}
	return nil
}

// AssetInfo is the metadata recovered from an artifact filename.
type AssetInfo struct {
	Version         string
	Platform        string
	PlatformVersion string
	Arch            string
}

// ParseAssetFilename recovers version, platform, platform version,
// and architecture from an artifact filename such as
// "python-3.13.3-linux-22.04-ppc64le.tar.gz". It returns nil for
// names that do not follow that layout. Architectures containing
// hyphens (e.g. "linux-armv7l" variants) are kept whole by joining
// the trailing fields.
func ParseAssetFilename(name string) *AssetInfo {
	if !strings.HasSuffix(name, archiveSuffix) {
		return nil
	}
	base := strings.TrimSuffix(name, archiveSuffix)

	matched := false
	for _, p := range knownPrefixes {
		if strings.HasPrefix(base, p) {
			base = strings.TrimPrefix(base, p)
			matched = true
			break
		}
	}
	if !matched {
		return nil
	}

	parts := strings.Split(base, "-")
	if len(parts) < 4 {
		return nil
	}
	return &AssetInfo{
		Version:         parts[0],
		Platform:        parts[1],
		PlatformVersion: parts[2],
		Arch:            strings.Join(parts[3:], "-"),
	}
}

// ShouldSkip reports whether an asset is a known non-distributable
// by-product or not an archive at all.
func ShouldSkip(name string) bool {
	if !strings.HasSuffix(name, archiveSuffix) {
		return true
	}
	lower := strings.ToLower(name)
	for _, m := range skipMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// ValidateDownloadURL checks that an asset download URL points at the
// expected release of the expected repository. URLs from draft
// releases carry an "untagged-" path segment and are rejected.
func ValidateDownloadURL(rawURL, owner, repo, tag, filename string) bool {
	if rawURL == "" || strings.Contains(rawURL, "untagged-") {
		return false
	}
	return rawURL == canonicalDownloadURL(owner, repo, tag, filename)
}

func canonicalDownloadURL(owner, repo, tag, filename string) string {
	return fmt.Sprintf("https://github.com/%s/%s/releases/download/%s/%s", owner, repo, tag, filename)
}

// BuildRecords converts the distributable assets of a release into
// flat partial-manifest records, one per asset. Assets with
// unrecognized filenames or invalid download URLs are reported in the
// returned problem list and excluded; an error is returned only when a
// release with distributable assets yields no valid records at all.
// Download URLs in the result are reconstructed canonically.
func BuildRecords(tag string, assets []tags.Asset, owner, repo string) ([]Record, []string, error) {
	var records []Record
	var problems []string
	considered := 0

	for _, a := range assets {
		if ShouldSkip(a.Name) {
			continue
		}
		considered++

		info := ParseAssetFilename(a.Name)
		if info == nil {
			problems = append(problems, fmt.Sprintf("Unrecognized filename: %q", a.Name))
			continue
		}

		if !ValidateDownloadURL(a.DownloadURL, owner, repo, tag, a.Name) {
			problems = append(problems, fmt.Sprintf("Invalid download_url for %s: %q", a.Name, a.DownloadURL))
			continue
		}

		pv := info.PlatformVersion
		records = append(records, Record{
			Version:         info.Version,
			Filename:        a.Name,
			Arch:            info.Arch,
			Platform:        info.Platform,
			PlatformVersion: &pv,
			DownloadURL:     canonicalDownloadURL(owner, repo, tag, a.Name),
		})
	}

	if considered > 0 && len(records) == 0 {
		return nil, problems, fmt.Errorf("no valid entries among %d assets for tag %s", considered, tag)
	}
	return records, problems, nil
}
