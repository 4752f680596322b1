package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/clean-dependency-project/manifestctl/internal/config"
	"github.com/clean-dependency-project/manifestctl/internal/manifest"
	"github.com/clean-dependency-project/manifestctl/internal/version"
)

var titleCaser = cases.Title(language.English)

// loadEntries reads the manifest named by --manifest-file or
// --manifest-url.
func loadEntries(c *cli.Context) ([]manifest.Entry, error) {
	file := c.String("manifest-file")
	url := c.String("manifest-url")

	switch {
	case file != "" && url != "":
		return nil, fmt.Errorf("--manifest-file and --manifest-url are mutually exclusive")
	case file != "":
		return manifest.Load(file)
	case url != "":
		return manifest.NewFetcher().FetchManifest(c.Context, url)
	default:
		return nil, fmt.Errorf("one of --manifest-file or --manifest-url is required")
	}
}

// buildFilters derives the version filters from the flags, preferring
// a filter file when given.
func buildFilters(c *cli.Context) ([]manifest.Filter, error) {
	if path := c.String("filter-file"); path != "" {
		file, err := config.LoadFilter(path)
		if err != nil {
			return nil, err
		}
		var filters []manifest.Filter
		for _, f := range file.All() {
			filters = append(filters, manifest.Filter{
				Pattern:      f.Version,
				ReleaseTypes: f.NormalizedReleaseTypes(),
			})
		}
		return filters, nil
	}

	return []manifest.Filter{{
		Pattern:      c.String("filter"),
		ReleaseTypes: c.StringSlice("type"),
	}}, nil
}

func versionsList(c *cli.Context) error {
	logLevel := ParseLogLevelOrDefault(c.String("log-level"))
	stdout, stderr := NewLoggers(logLevel)

	entries, err := loadEntries(c)
	if err != nil {
		stderr.Error("failed to load manifest", "error", err)
		return cli.Exit(err.Error(), 1)
	}
	filters, err := buildFilters(c)
	if err != nil {
		stderr.Error("failed to build filters", "error", err)
		return cli.Exit(err.Error(), 1)
	}

	seen := make(map[string]struct{})
	var versions []string
	for _, f := range filters {
		matched, err := manifest.ListVersions(entries, f)
		if err != nil {
			stderr.Error("failed to filter manifest", "error", err)
			return cli.Exit(err.Error(), 1)
		}
		for _, v := range matched {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			versions = append(versions, v)
		}
	}

	stdout.Info("listed manifest versions",
		"runtime", c.String("runtime"),
		"count", len(versions))

	if c.String("output") == "json" {
		return json.NewEncoder(os.Stdout).Encode(versions)
	}
	fmt.Printf("%s versions (%d):\n", titleCaser.String(c.String("runtime")), len(versions))
	for _, v := range versions {
		fmt.Println(v)
	}
	return nil
}

func versionsLatest(c *cli.Context) error {
	_, stderr := NewLoggers(ParseLogLevelOrDefault(c.String("log-level")))

	entries, err := loadEntries(c)
	if err != nil {
		stderr.Error("failed to load manifest", "error", err)
		return cli.Exit(err.Error(), 1)
	}
	filters, err := buildFilters(c)
	if err != nil {
		stderr.Error("failed to build filters", "error", err)
		return cli.Exit(err.Error(), 1)
	}

	best := ""
	for _, f := range filters {
		v, err := manifest.LatestVersion(entries, f)
		if errors.Is(err, manifest.ErrNoMatch) {
			continue
		}
		if err != nil {
			stderr.Error("failed to filter manifest", "error", err)
			return cli.Exit(err.Error(), 1)
		}
		if best == "" || version.Compare(best, v) < 0 {
			best = v
		}
	}
	if best == "" {
		stderr.Error("no versions matched the filter", "runtime", c.String("runtime"))
		return cli.Exit("no matching versions", 1)
	}

	if c.String("output") == "json" {
		return json.NewEncoder(os.Stdout).Encode(best)
	}
	fmt.Println(best)
	return nil
}
