package partial

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/clean-dependency-project/manifestctl/internal/manifest"
	"github.com/clean-dependency-project/manifestctl/internal/version"
)

// ApplyResult summarizes one Apply run for journaling.
type ApplyResult struct {
	Version  string
	Arch     string
	Filename string
	Target   string
	Action   manifest.Action
}

// Apply scans partialsDir for partial manifest files and reconciles
// every entry into per-version manifests under manifestDir, named
// {version}-{arch}.json. Partial files that cannot be decoded or
// carry incomplete entries are logged and skipped. A missing
// partialsDir is not an error; there is simply nothing to apply.
func Apply(partialsDir, manifestDir string, logger *slog.Logger) ([]ApplyResult, error) {
	if _, err := os.Stat(partialsDir); os.IsNotExist(err) {
		logger.Info("no partial manifests to apply", "dir", partialsDir)
		return nil, nil
	}

	var results []ApplyResult
	err := filepath.WalkDir(partialsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}

		records, err := readPartial(path)
		if err != nil {
			logger.Warn("skipping unreadable partial manifest", "path", path, "error", err)
			return nil
		}

		for _, rec := range records {
			if rec.Version == "" || rec.Filename == "" || rec.Arch == "" || rec.DownloadURL == "" {
				logger.Warn("skipping incomplete partial entry", "path", path, "version", rec.Version, "filename", rec.Filename)
				continue
			}

			target := filepath.Join(manifestDir, fmt.Sprintf("%s-%s.json", rec.Version, rec.Arch))
			action, err := manifest.ApplyUpdate(target, manifest.Update{
				Version:         rec.Version,
				Stable:          version.IsStable(rec.Version),
				Filename:        rec.Filename,
				Arch:            rec.Arch,
				Platform:        rec.Platform,
				PlatformVersion: rec.PlatformVersion,
				DownloadURL:     rec.DownloadURL,
			})
			if err != nil {
				return err
			}
			logger.Info("applied partial entry", "version", rec.Version, "arch", rec.Arch, "action", string(action))
			results = append(results, ApplyResult{
				Version:  rec.Version,
				Arch:     rec.Arch,
				Filename: rec.Filename,
				Target:   target,
				Action:   action,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func readPartial(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
